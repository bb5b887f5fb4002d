package mock

import (
	"context"

	"github.com/fwojciec/metascrape"
)

var _ metascrape.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of metascrape.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*metascrape.Document, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*metascrape.Document, error) {
	return f.FetchFn(ctx, url)
}
