package report

import (
	"fmt"
	"strings"

	"rasad-feed/internal/utils/text"
)

const (
	// DefaultDigestPerAgency is the number of titles listed per agency.
	DefaultDigestPerAgency = 3

	digestTitleRunes = 80
)

// Digest renders the plain-text daily digest: one block per agency with its
// item count, up to perAgency titles and a remainder line.
func Digest(groups []AgencyGroup, perAgency int) string {
	if perAgency <= 0 {
		perAgency = DefaultDigestPerAgency
	}
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "📰 %s: %d خبر\n", g.Agency, len(g.Items))
		shown := min(perAgency, len(g.Items))
		for _, it := range g.Items[:shown] {
			fmt.Fprintf(&b, "  • %s\n", text.CleanForDigest(it.Title, digestTitleRunes))
		}
		if rest := len(g.Items) - shown; rest > 0 {
			fmt.Fprintf(&b, "  ... و %d خبر دیگر\n", rest)
		}
	}
	return b.String()
}
