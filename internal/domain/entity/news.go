// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as NewsItem and SourceConfig, along with
// their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// NewsItem represents a stored news story.
// Title keeps the original casing and punctuation; comparisons always go
// through the normalized form computed on demand.
type NewsItem struct {
	ID          int64
	Title       string
	URL         string
	Agency      string
	Summary     string
	PublishedAt time.Time
}

// Validate checks the fields required before an item can be persisted.
func (n *NewsItem) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(n.Agency) == "" {
		return &ValidationError{Field: "agency", Message: "agency is required"}
	}
	return ValidateURL(n.URL)
}

// CandidateItem is a story discovered on a listing page or feed, before
// summarization and the duplicate check against the store.
type CandidateItem struct {
	Title string
	URL   string
	// PublishedAt is set only when the source exposes a real publish time.
	PublishedAt *time.Time
	// Lead is a teaser already present on the listing page or feed entry.
	Lead string
}
