package mock

import (
	"context"

	"github.com/fwojciec/metascrape"
)

var _ metascrape.MetadataService = (*MetadataService)(nil)

// MetadataService is a mock implementation of metascrape.MetadataService.
type MetadataService struct {
	ScrapeFn func(ctx context.Context, url string) (*metascrape.Metadata, error)
}

func (s *MetadataService) Scrape(ctx context.Context, url string) (*metascrape.Metadata, error) {
	return s.ScrapeFn(ctx, url)
}
