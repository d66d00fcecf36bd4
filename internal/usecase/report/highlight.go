package report

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/utils/text"
)

// minClusterAgencies is the number of distinct agencies a repeated title
// needs before it counts as a highlight.
const minClusterAgencies = 2

// keywordSet is an Aho-Corasick automaton over the non-blank keywords.
// Matching is literal and case-sensitive.
type keywordSet struct {
	keywords []string
	matcher  *ahocorasick.Matcher
}

func newKeywordSet(keywords []string) *keywordSet {
	seen := make(map[string]struct{}, len(keywords))
	ks := &keywordSet{}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		ks.keywords = append(ks.keywords, kw)
	}
	if len(ks.keywords) > 0 {
		ks.matcher = ahocorasick.NewStringMatcher(ks.keywords)
	}
	return ks
}

// match returns the indexes of the keywords found in the item's title or
// summary.
func (ks *keywordSet) match(it *entity.NewsItem) []int {
	if ks.matcher == nil {
		return nil
	}
	hits := ks.matcher.MatchThreadSafe([]byte(it.Title))
	if it.Summary != "" {
		hits = append(hits, ks.matcher.MatchThreadSafe([]byte(it.Summary))...)
	}
	if len(hits) < 2 {
		return hits
	}
	sort.Ints(hits)
	out := hits[:1]
	for _, h := range hits[1:] {
		if h != out[len(out)-1] {
			out = append(out, h)
		}
	}
	return out
}

// HighlightGroups returns the keyword groups, in keyword order, followed by
// the cross-agency repetition clusters. Items inside a group are ordered
// newest first.
func HighlightGroups(items []*entity.NewsItem, keywords []string) []entity.HighlightGroup {
	sorted := sortNewestFirst(items)

	var groups []entity.HighlightGroup

	ks := newKeywordSet(keywords)
	if ks.matcher != nil {
		byKeyword := make([][]*entity.NewsItem, len(ks.keywords))
		for _, it := range sorted {
			for _, idx := range ks.match(it) {
				byKeyword[idx] = append(byKeyword[idx], it)
			}
		}
		for i, kw := range ks.keywords {
			if len(byKeyword[i]) == 0 {
				continue
			}
			groups = append(groups, entity.HighlightGroup{
				Reason: entity.HighlightKeyword,
				Key:    kw,
				Items:  byKeyword[i],
			})
		}
	}

	return append(groups, repetitionClusters(sorted)...)
}

// Highlights returns the union of all highlight groups, deduplicated by ID
// and ordered by PublishedAt descending, then ID descending.
func Highlights(items []*entity.NewsItem, keywords []string) []*entity.NewsItem {
	groups := HighlightGroups(items, keywords)
	seen := make(map[*entity.NewsItem]struct{})
	ids := make(map[int64]struct{})
	var out []*entity.NewsItem
	for _, g := range groups {
		for _, it := range g.Items {
			if _, ok := seen[it]; ok {
				continue
			}
			seen[it] = struct{}{}
			if it.ID != 0 {
				if _, ok := ids[it.ID]; ok {
					continue
				}
				ids[it.ID] = struct{}{}
			}
			out = append(out, it)
		}
	}
	return sortNewestFirst(out)
}

// repetitionClusters groups items by normalized title and keeps groups that
// span at least minClusterAgencies agencies.
func repetitionClusters(sorted []*entity.NewsItem) []entity.HighlightGroup {
	index := make(map[string]int)
	var clusters []entity.HighlightGroup
	for _, it := range sorted {
		key := text.Normalize(it.Title)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(clusters)
			index[key] = i
			clusters = append(clusters, entity.HighlightGroup{
				Reason: entity.HighlightRepetition,
				Key:    key,
			})
		}
		clusters[i].Items = append(clusters[i].Items, it)
	}

	out := clusters[:0]
	for _, c := range clusters {
		if len(c.Agencies()) >= minClusterAgencies {
			out = append(out, c)
		}
	}
	return out
}

func sortNewestFirst(items []*entity.NewsItem) []*entity.NewsItem {
	out := make([]*entity.NewsItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID > b.ID
	})
	return out
}
