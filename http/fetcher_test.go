package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/metascrape"
	mshttp "github.com/fwojciec/metascrape/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that Fetcher implements metascrape.Fetcher
var _ metascrape.Fetcher = (*mshttp.Fetcher)(nil)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		doc, err := mshttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", doc.HTML)
		assert.Equal(t, http.StatusOK, doc.StatusCode)
		assert.Equal(t, "text/html", doc.ContentType)
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.Header.Get("User-Agent")
		}))
		defer server.Close()

		_, err := mshttp.NewFetcher(mshttp.WithUserAgent("test-agent")).Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "test-agent", <-agents)
	})

	t.Run("follows redirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<title>moved</title>"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		doc, err := mshttp.NewFetcher().Fetch(context.Background(), server.URL+"/old")

		require.NoError(t, err)
		assert.Equal(t, "<title>moved</title>", doc.HTML)
		assert.Equal(t, server.URL+"/new", doc.URL)
	})

	t.Run("decodes declared charset to UTF-8", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<title>caf\xe9</title>"))
		}))
		defer server.Close()

		doc, err := mshttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "<title>café</title>", doc.HTML)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		fetcher := mshttp.NewFetcher(mshttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, metascrape.ETIMEOUT, metascrape.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := mshttp.NewFetcher().Fetch(ctx, server.URL)

		require.Error(t, err)
		assert.Equal(t, metascrape.EUNREACHABLE, metascrape.ErrorCode(err))
	})

	t.Run("returns unreachable for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := mshttp.NewFetcher(mshttp.WithTimeout(100 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")

		require.Error(t, err)
		// Slow resolvers surface as a timeout instead of a lookup failure.
		assert.Contains(t, []string{metascrape.EUNREACHABLE, metascrape.ETIMEOUT}, metascrape.ErrorCode(err))
	})

	t.Run("returns unreachable for unsupported scheme", func(t *testing.T) {
		t.Parallel()

		_, err := mshttp.NewFetcher().Fetch(context.Background(), "ftp://example.com/file")

		require.Error(t, err)
		assert.Equal(t, metascrape.EUNREACHABLE, metascrape.ErrorCode(err))
	})

	t.Run("returns upstream error with raw body for non-2xx status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		_, err := mshttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")

		var upstream *metascrape.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
		assert.Equal(t, "text/plain", upstream.ContentType)
		assert.Equal(t, []byte("404 Not Found"), upstream.Body)
	})
}
