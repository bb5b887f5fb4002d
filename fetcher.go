package metascrape

import "context"

// Fetcher retrieves HTML documents from URLs.
type Fetcher interface {
	// Fetch issues a GET for url and returns the decoded document.
	// A non-success response is returned as *UpstreamError.
	// Transport failures return ETIMEOUT or EUNREACHABLE.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Document, error)
}
