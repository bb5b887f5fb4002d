package metascrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// KeywordsKey is the meta key whose value is split into a list.
const KeywordsKey = "keywords"

// Metadata is the title and meta tags extracted from a page head.
type Metadata struct {
	// Title is the text of the last <title> in the head.
	// Nil when the head has no title element.
	Title *string `json:"title,omitempty"`

	// Metas maps each meta name (or property) to its value.
	Metas Metas `json:"metas"`
}

// Metas maps meta keys to values. Later tags overwrite earlier ones.
type Metas map[string]MetaValue

// MetaValue holds a single meta value: null, a string, or a list of strings.
// The zero value is null.
type MetaValue struct {
	str  string
	list []string
	kind metaKind
}

type metaKind int

const (
	metaNull metaKind = iota
	metaString
	metaList
)

// NullValue returns a MetaValue that encodes as JSON null.
func NullValue() MetaValue {
	return MetaValue{}
}

// StringValue returns a MetaValue holding s.
func StringValue(s string) MetaValue {
	return MetaValue{str: s, kind: metaString}
}

// ListValue returns a MetaValue holding a copy of items.
func ListValue(items []string) MetaValue {
	list := make([]string, len(items))
	copy(list, items)
	return MetaValue{list: list, kind: metaList}
}

// IsNull reports whether v holds no value.
func (v MetaValue) IsNull() bool {
	return v.kind == metaNull
}

// AsString returns the string value and true if v holds a string.
func (v MetaValue) AsString() (string, bool) {
	return v.str, v.kind == metaString
}

// AsList returns the list value and true if v holds a list.
func (v MetaValue) AsList() ([]string, bool) {
	return v.list, v.kind == metaList
}

// MarshalJSON implements json.Marshaler.
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case metaString:
		return marshalRaw(v.str)
	case metaList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return marshalRaw(v.list)
	default:
		return []byte("null"), nil
	}
}

// marshalRaw encodes v without escaping <, > and &.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = NullValue()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = ListValue(list)
	default:
		return fmt.Errorf("meta value must be null, a string or a list of strings: %s", data)
	}
	return nil
}

// Document is an HTML page retrieved by a Fetcher.
type Document struct {
	URL         string
	StatusCode  int
	ContentType string
	HTML        string
}

// MetadataService fetches a page and extracts its metadata.
type MetadataService interface {
	// Scrape issues exactly one fetch for url and returns the extracted metadata.
	// Returns *UpstreamError if the remote server answers with a non-success status.
	Scrape(ctx context.Context, url string) (*Metadata, error)
}
