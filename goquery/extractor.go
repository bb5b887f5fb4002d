// Package goquery provides a goquery-based implementation of metascrape.Extractor.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/metascrape"
)

// Ensure Extractor implements metascrape.Extractor at compile time.
var _ metascrape.Extractor = (*Extractor)(nil)

// Extractor reads the title and meta tags from the <head> of an HTML document.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and reduces the head's <title> and <meta> elements
// into Metadata. The last title wins; meta tags are applied in document
// order so later keys overwrite earlier ones.
func (e *Extractor) Extract(html string) (*metascrape.Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, metascrape.Errorf(metascrape.EPARSE, "failed to parse HTML: %v", err)
	}

	head := doc.Find("head").First()
	md := &metascrape.Metadata{Metas: metascrape.Metas{}}

	if titles := head.Find("title"); titles.Length() > 0 {
		title := titles.Last().Text()
		md.Title = &title
	}

	head.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key := metaKey(sel)
		if key == "" {
			return
		}

		value, ok := metaValue(sel)

		if key == metascrape.KeywordsKey {
			// A keywords tag without a value drops the entry entirely.
			if !ok {
				delete(md.Metas, key)
				return
			}
			md.Metas[key] = metascrape.ListValue(strings.Split(value, ","))
			return
		}

		if !ok {
			md.Metas[key] = metascrape.NullValue()
			return
		}
		md.Metas[key] = metascrape.StringValue(value)
	})

	return md, nil
}

// metaKey returns the name attribute if present, otherwise property.
// A present but empty name is not replaced by property.
func metaKey(sel *goquery.Selection) string {
	if name, exists := sel.Attr("name"); exists {
		return name
	}
	return sel.AttrOr("property", "")
}

// metaValue returns content when non-empty, otherwise value.
// Reports false when neither yields a value.
func metaValue(sel *goquery.Selection) (string, bool) {
	if content := sel.AttrOr("content", ""); content != "" {
		return content, true
	}
	if value, exists := sel.Attr("value"); exists {
		return value, true
	}
	return "", false
}
