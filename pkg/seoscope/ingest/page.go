package ingest

import (
	"errors"
	"strings"
)

// Page is the text extracted from one fetched URL.
// An empty BodyText marks a fetch or parse failure; such pages are left out
// of every aggregate.
type Page struct {
	URL      string   `json:"url"`
	BodyText string   `json:"bodyText"`
	Headings []string `json:"headings"`
}

// Empty reports whether the page carries no body text.
func (p Page) Empty() bool {
	return p.BodyText == ""
}

// Validate checks the page is addressable.
func (p Page) Validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return errors.New("page URL is required")
	}
	return nil
}
