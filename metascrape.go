// Package metascrape provides a small HTTP service that fetches a web page
// and returns its title and meta tags as JSON.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, slog/).
package metascrape
