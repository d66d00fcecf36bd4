package scraper

import (
	"context"
	"fmt"
	"sort"

	"rasad-feed/internal/domain/entity"
)

// Registry is the static agency table together with the extractors that
// serve it. It is itself a SourceExtractor: ListCandidates dispatches on
// the source config (feed, browser-rendered HTML or plain HTML).
type Registry struct {
	sources map[string]entity.SourceConfig
	order   []string

	html    SourceExtractor
	browser SourceExtractor
	feed    SourceExtractor
}

// NewRegistry builds a registry. browser may be nil when no source needs it.
func NewRegistry(sources []entity.SourceConfig, html, browser, feed SourceExtractor) *Registry {
	r := &Registry{
		sources: make(map[string]entity.SourceConfig, len(sources)),
		html:    html,
		browser: browser,
		feed:    feed,
	}
	for _, s := range sources {
		if _, dup := r.sources[s.Agency]; !dup {
			r.order = append(r.order, s.Agency)
		}
		r.sources[s.Agency] = s
	}
	return r
}

// Sources returns the enabled sources in registration order.
func (r *Registry) Sources() []entity.SourceConfig {
	out := make([]entity.SourceConfig, 0, len(r.order))
	for _, a := range r.order {
		if s := r.sources[a]; s.IsEnabled() {
			out = append(out, s)
		}
	}
	return out
}

// Source looks up one agency.
func (r *Registry) Source(agency string) (entity.SourceConfig, error) {
	s, ok := r.sources[agency]
	if !ok {
		return entity.SourceConfig{}, fmt.Errorf("%w: %s", ErrUnknownAgency, agency)
	}
	return s, nil
}

// Agencies returns all registered agency names, sorted.
func (r *Registry) Agencies() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

func (r *Registry) ListCandidates(ctx context.Context, src entity.SourceConfig) ([]entity.CandidateItem, error) {
	switch {
	case src.FeedURL != "":
		if r.feed == nil {
			return nil, fmt.Errorf("%s: feed extractor not configured", src.Agency)
		}
		return r.feed.ListCandidates(ctx, src)
	case src.NeedsBrowser:
		if r.browser == nil {
			return nil, fmt.Errorf("%s: %w", src.Agency, ErrNoBrowser)
		}
		return r.browser.ListCandidates(ctx, src)
	default:
		return r.html.ListCandidates(ctx, src)
	}
}

var (
	_ SourceExtractor = (*Registry)(nil)
	_ SourceExtractor = (*HTMLExtractor)(nil)
	_ SourceExtractor = (*FeedExtractor)(nil)
	_ PageLoader      = (*HTTPLoader)(nil)
	_ PageLoader      = (*BrowserLoader)(nil)
)
