package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/metascrape"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validation error codes reported in FieldError.Code.
const (
	CodeInvalidJSON = "invalid_json"
	CodeInvalidType = "invalid_type"
	CodeInvalidURL  = "invalid_url"
	CodeRequired    = "required"
)

// ErrorResponse is the body of every structured error response.
type ErrorResponse struct {
	Title   string       `json:"title"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// FieldError describes a single request validation failure.
// Path is empty when the failure concerns the whole body.
type FieldError struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// ScrapeRequest is the body accepted by the extraction endpoint.
type ScrapeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Handler serves the metadata extraction endpoint.
type Handler struct {
	service  metascrape.MetadataService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a Handler backed by service.
func NewHandler(service metascrape.MetadataService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: requestValidator,
		logger:   logger,
	}
}

// requestValidator is shared by every Handler and by ValidateURL.
// validator.Validate caches struct metadata and is safe for concurrent use.
var requestValidator = newValidator()

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in validation paths.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// ValidateURL reports whether rawURL would be accepted as the url of a
// ScrapeRequest. It returns an EINVALID error when it would not.
func ValidateURL(rawURL string) error {
	if err := requestValidator.Struct(&ScrapeRequest{URL: rawURL}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return metascrape.Errorf(metascrape.EINVALID, "%s", validationFieldError(verrs[0]).Message)
		}
		return metascrape.Errorf(metascrape.EINVALID, "invalid url")
	}
	return nil
}

// Handle validates the request, scrapes the requested URL and writes
// the metadata as JSON.
func (h *Handler) Handle(c echo.Context) error {
	if !strings.EqualFold(c.Request().Method, http.MethodPost) {
		return c.NoContent(http.StatusMethodNotAllowed)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	req, fieldErrs := h.parseRequest(body)
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, newBadRequest(fieldErrs))
	}

	md, err := h.service.Scrape(c.Request().Context(), req.URL)
	if err != nil {
		return h.writeError(c, err)
	}

	data, err := encodeJSON(md)
	if err != nil {
		return h.writeError(c, err)
	}

	c.Response().Header().Set("ETag", fmt.Sprintf(`"%016x"`, xxhash.Sum64(data)))
	return c.JSONBlob(http.StatusOK, data)
}

// encodeJSON marshals v without HTML escaping so meta values are emitted
// as written in the page.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// parseRequest decodes and validates body. Validation failures are
// returned as field errors rather than a Go error.
func (h *Handler) parseRequest(body []byte) (*ScrapeRequest, []FieldError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, []FieldError{{Code: CodeRequired, Path: []string{}, Message: "Required"}}
	}

	var req ScrapeRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, []FieldError{decodeFieldError(err)}
	}

	if err := h.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, []FieldError{{Code: CodeInvalidJSON, Path: []string{}, Message: err.Error()}}
		}
		fieldErrs := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fieldErrs = append(fieldErrs, validationFieldError(fe))
		}
		return nil, fieldErrs
	}

	return &req, nil
}

// decodeFieldError converts a json.Unmarshal failure into a FieldError.
func decodeFieldError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := []string{}
		expected := "object"
		if typeErr.Field != "" {
			path = strings.Split(typeErr.Field, ".")
			expected = typeErr.Type.String()
		}
		return FieldError{
			Code:    CodeInvalidType,
			Path:    path,
			Message: fmt.Sprintf("Expected %s, received %s", expected, typeErr.Value),
		}
	}
	return FieldError{Code: CodeInvalidJSON, Path: []string{}, Message: err.Error()}
}

func validationFieldError(fe validator.FieldError) FieldError {
	path := []string{fe.Field()}
	switch fe.Tag() {
	case "required":
		return FieldError{Code: CodeRequired, Path: path, Message: "Required"}
	case "url":
		return FieldError{Code: CodeInvalidURL, Path: path, Message: "invalid url"}
	default:
		return FieldError{Code: fe.Tag(), Path: path, Message: fmt.Sprintf("%s is invalid", fe.Field())}
	}
}

func newBadRequest(fieldErrs []FieldError) ErrorResponse {
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if len(fe.Path) == 0 {
			messages = append(messages, fe.Message)
			continue
		}
		messages = append(messages, strings.Join(fe.Path, ".")+": "+fe.Message)
	}
	return ErrorResponse{
		Title:   http.StatusText(http.StatusBadRequest),
		Message: strings.Join(messages, "; "),
		Errors:  fieldErrs,
	}
}

// writeError maps a scrape failure to a response. Upstream failures are
// forwarded with their original status and body.
func (h *Handler) writeError(c echo.Context, err error) error {
	var upstream *metascrape.UpstreamError
	if errors.As(err, &upstream) {
		contentType := upstream.ContentType
		if contentType == "" {
			contentType = echo.MIMEOctetStream
		}
		return c.Blob(upstream.StatusCode, contentType, upstream.Body)
	}

	code := metascrape.ErrorCode(err)
	status := ErrorStatusCode(code)
	if code == metascrape.EINTERNAL {
		h.logger.ErrorContext(c.Request().Context(), "internal error", "err", err)
	}

	resp := ErrorResponse{
		Title:   http.StatusText(status),
		Message: metascrape.ErrorMessage(err),
		Errors:  []FieldError{},
	}
	if code == metascrape.EINVALID {
		resp.Errors = []FieldError{{Code: CodeInvalidURL, Path: []string{"url"}, Message: resp.Message}}
	}
	return c.JSON(status, resp)
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	switch code {
	case metascrape.EINVALID:
		return http.StatusBadRequest
	case metascrape.ETIMEOUT:
		return http.StatusGatewayTimeout
	case metascrape.EUNREACHABLE, metascrape.EPARSE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
