// Package summary picks a short text for a news story by running an ordered
// list of strategies over the story's article page.
package summary

import (
	"context"

	"rasad-feed/internal/domain/entity"
)

// Document is an article page reduced to the parts the strategies read.
// A page that failed to load is an empty Document.
type Document struct {
	Title      string
	Lead       string
	Paragraphs []string
	RawText    string
}

// Empty reports whether the document carries no text at all.
func (d *Document) Empty() bool {
	return d.Lead == "" && len(d.Paragraphs) == 0 && d.RawText == ""
}

// DocumentFetcher loads an article page.
type DocumentFetcher interface {
	Fetch(ctx context.Context, pageURL string, src entity.SourceConfig) (*Document, error)
}

// Summarizer is an external text-summarization service.
type Summarizer interface {
	Summarize(ctx context.Context, content, title string) (string, error)
}
