package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fwojciec/metascrape"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DefaultAddr is the address the server listens on unless overridden.
const DefaultAddr = ":8080"

// DefaultPath is the route of the extraction endpoint.
const DefaultPath = "/"

// DefaultBodyLimit caps the size of request bodies.
const DefaultBodyLimit = "64K"

// HealthPath is the route of the liveness probe.
const HealthPath = "/healthz"

// Server exposes a MetadataService over HTTP.
type Server struct {
	echo   *echo.Echo
	addr   string
	path   string
	logger *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address. Defaults to DefaultAddr.
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithPath sets the route of the extraction endpoint. Defaults to DefaultPath.
func WithPath(path string) ServerOption {
	return func(s *Server) {
		s.path = path
	}
}

// NewServer creates a Server serving service. Requests are logged to logger.
func NewServer(service metascrape.MetadataService, logger *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		addr:   DefaultAddr,
		path:   DefaultPath,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Pre(normalizePost)
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				s.logger.InfoContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"request_id", v.RequestID,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				s.logger.ErrorContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"request_id", v.RequestID,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(DefaultBodyLimit))

	h := NewHandler(service, logger)
	e.GET(HealthPath, handleHealth)
	e.Any(s.path, h.Handle)

	s.echo = e
	return s
}

// Handler returns the underlying http.Handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe listens on the configured address and blocks until the
// server is shut down. Returns nil after a clean Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting server", "addr", s.addr, "path", s.path)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.echo.Shutdown(ctx)
}

// handleError renders errors that escape handlers, including router 404s
// and recovered panics, in the same shape as endpoint errors.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	// A 405 carries no body, whether the router or a handler produced it.
	if errors.Is(err, echo.ErrMethodNotAllowed) {
		if err := c.NoContent(http.StatusMethodNotAllowed); err != nil {
			s.logger.ErrorContext(c.Request().Context(), "failed to send error response", "err", err)
		}
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = http.StatusText(status)
		if m, ok := he.Message.(string); ok && status < 500 {
			message = m
		}
	} else {
		s.logger.ErrorContext(c.Request().Context(), "unhandled error", "err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{
			Title:   http.StatusText(status),
			Message: message,
			Errors:  []FieldError{},
		})
	}
	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "failed to send error response", "err", err)
	}
}

// normalizePost upper-cases a POST of any letter case so the router
// matches it. The request is modified in place because routing reads it
// after pre-middleware has run.
func normalizePost(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Method != http.MethodPost && strings.EqualFold(req.Method, http.MethodPost) {
			req.Method = http.MethodPost
		}
		return next(c)
	}
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
