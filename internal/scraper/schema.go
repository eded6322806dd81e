package scraper

import (
	"strings"
	"time"
)

// TagSeparator joins a record's tags into a single CSV cell.
const TagSeparator = ";"

// Record is one extracted quote. Quote and Author may be empty when the
// source markup is missing the corresponding sub-element; a record is
// never dropped for that reason.
type Record struct {
	Quote     string    `json:"quote"`
	Author    string    `json:"author"`
	Tags      []string  `json:"tags,omitempty"`
	SourceURL string    `json:"source_url"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// Field returns the record value for a named output column. Unknown
// names yield an empty string so a retargeted profile with extra field
// names still produces well-formed rows.
func (r Record) Field(name string) string {
	switch name {
	case "quote", "text":
		return r.Quote
	case "author":
		return r.Author
	case "tags":
		return strings.Join(r.Tags, TagSeparator)
	case "source_url":
		return r.SourceURL
	default:
		return ""
	}
}
