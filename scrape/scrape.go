// Package scrape composes a Fetcher and an Extractor into a
// metascrape.MetadataService.
package scrape

import (
	"context"

	"github.com/fwojciec/metascrape"
)

// Ensure Scraper implements metascrape.MetadataService at compile time.
var _ metascrape.MetadataService = (*Scraper)(nil)

// Scraper fetches a single page and extracts its metadata.
// It performs exactly one fetch per call and keeps no state between calls.
type Scraper struct {
	Fetcher   metascrape.Fetcher
	Extractor metascrape.Extractor
}

// Scrape fetches url and extracts the title and meta tags from its head.
// Fetch and extract errors are returned unchanged so their codes survive.
func (s *Scraper) Scrape(ctx context.Context, url string) (*metascrape.Metadata, error) {
	doc, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return s.Extractor.Extract(doc.HTML)
}
