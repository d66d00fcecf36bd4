package scraper

import (
	"net/url"
	"strings"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/utils/text"
)

// collector accumulates candidates for one listing, dropping entries whose
// normalized title or normalized URL was already accepted.
type collector struct {
	limit    int
	minTitle int
	items    []entity.CandidateItem
	titles   map[string]struct{}
	urls     map[string]struct{}
}

func newCollector(limit, minTitle int) *collector {
	return &collector{
		limit:    limit,
		minTitle: minTitle,
		items:    make([]entity.CandidateItem, 0, limit),
		titles:   make(map[string]struct{}, limit),
		urls:     make(map[string]struct{}, limit),
	}
}

func (c *collector) full() bool {
	return c.limit > 0 && len(c.items) >= c.limit
}

// add reports whether the candidate was accepted.
func (c *collector) add(item entity.CandidateItem) bool {
	if c.full() {
		return false
	}
	item.Title = strings.TrimSpace(item.Title)
	item.URL = strings.TrimSpace(item.URL)
	if item.Title == "" || item.URL == "" {
		return false
	}
	if c.minTitle > 0 && text.CountRunes(item.Title) < c.minTitle {
		return false
	}

	nt := text.Normalize(item.Title)
	nu := text.NormalizeURL(item.URL)
	if _, dup := c.titles[nt]; dup && nt != "" {
		return false
	}
	if _, dup := c.urls[nu]; dup {
		return false
	}
	if nt != "" {
		c.titles[nt] = struct{}{}
	}
	c.urls[nu] = struct{}{}
	c.items = append(c.items, item)
	return true
}

// baseURL returns the first absolute http(s) URL among raws, or nil.
func baseURL(raws ...string) *url.URL {
	for _, raw := range raws {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err == nil && u.IsAbs() && u.Host != "" {
			return u
		}
	}
	return nil
}

// resolveURL makes href absolute against base. Unparseable hrefs yield "".
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return base.ResolveReference(ref).String()
}
