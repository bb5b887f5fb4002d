package mock

import "github.com/fwojciec/metascrape"

var _ metascrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of metascrape.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*metascrape.Metadata, error)
}

func (e *Extractor) Extract(html string) (*metascrape.Metadata, error) {
	return e.ExtractFn(html)
}
