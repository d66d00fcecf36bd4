package entity

// HighlightReason tells why a group of items was highlighted.
type HighlightReason string

const (
	HighlightKeyword    HighlightReason = "keyword"
	HighlightRepetition HighlightReason = "repetition"
)

// HighlightGroup is a transient set of items sharing a keyword match or a
// cross-agency title cluster. Key is the keyword or the normalized title.
type HighlightGroup struct {
	Reason HighlightReason
	Key    string
	Items  []*NewsItem
}

// Agencies returns the distinct agencies in the group, in first-seen order.
func (g HighlightGroup) Agencies() []string {
	seen := make(map[string]struct{}, len(g.Items))
	out := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		if _, ok := seen[it.Agency]; ok {
			continue
		}
		seen[it.Agency] = struct{}{}
		out = append(out, it.Agency)
	}
	return out
}
