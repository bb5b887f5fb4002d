// Package http provides the HTTP transport for metascrape: an outbound
// Fetcher for remote pages and the echo-based Server exposing the
// metadata extraction endpoint.
package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/metascrape"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent with every outbound request unless overridden.
const DefaultUserAgent = "metascrape/1.0 (+https://github.com/fwojciec/metascrape)"

// Ensure Fetcher implements metascrape.Fetcher at compile time.
var _ metascrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents using plain HTTP GET requests.
// Redirects are followed by the underlying http.Client.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests, including reading the body.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header. An empty string sends Go's default.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient replaces the underlying http.Client. The client's own
// Timeout is used and WithTimeout is ignored.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the document at url and decodes its body to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*metascrape.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, metascrape.Errorf(metascrape.EINVALID, "invalid request for %s: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(url, err)
	}

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &metascrape.UpstreamError{
			URL:         url,
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        body,
		}
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, metascrape.Errorf(metascrape.EPARSE, "failed to decode body of %s: %v", url, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, metascrape.Errorf(metascrape.EPARSE, "failed to decode body of %s: %v", url, err)
	}

	return &metascrape.Document{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		HTML:        string(decoded),
	}, nil
}

// transportError classifies a failure to reach url or read its response.
func transportError(url string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return metascrape.Errorf(metascrape.ETIMEOUT, "timed out fetching %s: %v", url, err)
	}
	return metascrape.Errorf(metascrape.EUNREACHABLE, "failed to fetch %s: %v", url, err)
}
