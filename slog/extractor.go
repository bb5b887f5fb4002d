package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/metascrape"
)

// Ensure LoggingExtractor implements metascrape.Extractor.
var _ metascrape.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   metascrape.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next metascrape.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(html string) (md *metascrape.Metadata, err error) {
	defer func(begin time.Time) {
		hasTitle, metas := false, 0
		if md != nil {
			hasTitle, metas = md.Title != nil, len(md.Metas)
		}
		e.logger.Debug("extract",
			"bytes", len(html),
			"title", hasTitle,
			"metas", metas,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
