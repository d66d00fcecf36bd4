package entity

import (
	"fmt"
	"strings"
	"time"
)

// SelectionMode describes how a matched element yields a title and link.
type SelectionMode string

const (
	// ModeAnchor means the matched element is the link itself.
	ModeAnchor SelectionMode = "anchor"
	// ModeHeading means the matched element is a heading whose link is the
	// first anchor inside its nearest <article> ancestor.
	ModeHeading SelectionMode = "heading"
)

// SelectionRule is one CSS selector tried while listing a source's front page.
type SelectionRule struct {
	Selector string        `yaml:"selector" json:"selector"`
	Mode     SelectionMode `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// SourceConfig describes how to list and summarize one agency.
type SourceConfig struct {
	Agency  string `yaml:"agency" json:"agency"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	// ListURL is the page scanned for headlines. Defaults to BaseURL.
	ListURL string `yaml:"list_url,omitempty" json:"list_url,omitempty"`
	// FeedURL switches the source to RSS/Atom extraction.
	FeedURL string          `yaml:"feed_url,omitempty" json:"feed_url,omitempty"`
	Rules   []SelectionRule `yaml:"rules,omitempty" json:"rules,omitempty"`

	// NeedsBrowser renders the list page in a headless browser first.
	NeedsBrowser bool   `yaml:"needs_browser,omitempty" json:"needs_browser,omitempty"`
	WaitSelector string `yaml:"wait_selector,omitempty" json:"wait_selector,omitempty"`

	Limit          int `yaml:"limit" json:"limit"`
	MinTitleLength int `yaml:"min_title_length,omitempty" json:"min_title_length,omitempty"`

	// ContentSelectors locate the main text of an article page.
	ContentSelectors []string `yaml:"content_selectors,omitempty" json:"content_selectors,omitempty"`
	// LeadSelectors locate an editorial lead on an article page.
	LeadSelectors []string `yaml:"lead_selectors,omitempty" json:"lead_selectors,omitempty"`

	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Enabled *bool         `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports whether the source takes part in ingestion runs.
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// PageURL returns the URL scanned for candidate items.
func (s SourceConfig) PageURL() string {
	if s.ListURL != "" {
		return s.ListURL
	}
	return s.BaseURL
}

// Validate validates the SourceConfig fields.
func (s *SourceConfig) Validate() error {
	if strings.TrimSpace(s.Agency) == "" {
		return &ValidationError{Field: "agency", Message: "agency is required"}
	}
	if err := ValidateURL(s.BaseURL); err != nil {
		return fmt.Errorf("source %s: %w", s.Agency, err)
	}
	if s.Limit <= 0 {
		return &ValidationError{Field: "limit", Message: "limit must be positive"}
	}

	// RSSでなければ少なくとも一つのセレクタが必要
	if s.FeedURL == "" && len(s.Rules) == 0 {
		return &ValidationError{Field: "rules", Message: "rules are required for HTML sources"}
	}
	for i, r := range s.Rules {
		if strings.TrimSpace(r.Selector) == "" {
			return &ValidationError{Field: fmt.Sprintf("rules[%d].selector", i), Message: "selector is required"}
		}
		switch r.Mode {
		case "", ModeAnchor, ModeHeading:
		default:
			return &ValidationError{Field: fmt.Sprintf("rules[%d].mode", i), Message: "mode must be anchor or heading"}
		}
	}
	return nil
}
