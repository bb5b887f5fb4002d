// Package slog provides log/slog decorators for metascrape services.
package slog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/metascrape"
)

// Ensure LoggingFetcher implements metascrape.Fetcher.
var _ metascrape.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging of each outbound request.
type LoggingFetcher struct {
	next   metascrape.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next metascrape.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (doc *metascrape.Document, err error) {
	defer func(begin time.Time) {
		status, size := 0, 0
		if doc != nil {
			status, size = doc.StatusCode, len(doc.HTML)
		}
		var upstream *metascrape.UpstreamError
		if errors.As(err, &upstream) {
			status, size = upstream.StatusCode, len(upstream.Body)
		}
		f.logger.InfoContext(ctx, "fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
