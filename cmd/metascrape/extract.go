package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/metascrape"
	mshttp "github.com/fwojciec/metascrape/http"
)

// Run scrapes a single URL and prints its metadata to stdout.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if err := mshttp.ValidateURL(c.URL); err != nil {
		return fmt.Errorf("invalid url %q: %s", c.URL, metascrape.ErrorMessage(err))
	}

	md, err := deps.Service.Scrape(deps.Ctx, c.URL)
	if err != nil {
		var upstream *metascrape.UpstreamError
		if errors.As(err, &upstream) {
			return fmt.Errorf("upstream returned HTTP %d for %s", upstream.StatusCode, c.URL)
		}
		return fmt.Errorf("extract %s: %s", c.URL, metascrape.ErrorMessage(err))
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(md)
}
