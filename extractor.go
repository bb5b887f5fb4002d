package metascrape

// Extractor extracts the title and meta tags from an HTML document head.
type Extractor interface {
	// Extract parses html and returns its metadata.
	// Returns EPARSE if the document cannot be parsed.
	Extract(html string) (*Metadata, error)
}
