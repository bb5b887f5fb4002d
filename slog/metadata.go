package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/metascrape"
)

// Ensure LoggingMetadataService implements metascrape.MetadataService.
var _ metascrape.MetadataService = (*LoggingMetadataService)(nil)

// LoggingMetadataService wraps a MetadataService with logging.
// Failures are logged at warn level with their error code.
type LoggingMetadataService struct {
	next   metascrape.MetadataService
	logger *slog.Logger
}

// NewLoggingMetadataService creates a new LoggingMetadataService.
func NewLoggingMetadataService(next metascrape.MetadataService, logger *slog.Logger) *LoggingMetadataService {
	return &LoggingMetadataService{next: next, logger: logger}
}

// Scrape delegates to the wrapped service and logs the operation.
func (s *LoggingMetadataService) Scrape(ctx context.Context, url string) (md *metascrape.Metadata, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.WarnContext(ctx, "scrape failed",
				"url", url,
				"code", metascrape.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		s.logger.InfoContext(ctx, "scrape",
			"url", url,
			"metas", len(md.Metas),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Scrape(ctx, url)
}
