package text

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the similarity ratio at or above which two titles are
// considered the same story.
const DefaultThreshold = 0.8

// Similarity returns the sequence-matching ratio (2*M/T, Ratcliff/Obershelp)
// of the normalized forms of a and b, in [0, 1]. It returns 0 when either
// side normalizes to an empty string.
func Similarity(a, b string) float64 {
	return ratio(Normalize(a), Normalize(b))
}

// IsSimilar reports whether a and b are the same story under threshold.
// Titles that normalize to empty are never similar to anything.
func IsSimilar(a, b string, threshold float64) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return ratio(na, nb) >= threshold
}

// Matcher compares one title against many without re-normalizing it.
type Matcher struct {
	threshold  float64
	normalized []string
	originals  []string
}

// NewMatcher builds a Matcher over existing titles. Titles that normalize to
// empty are dropped since they can never match.
func NewMatcher(existing []string, threshold float64) *Matcher {
	m := &Matcher{
		threshold:  threshold,
		normalized: make([]string, 0, len(existing)),
		originals:  make([]string, 0, len(existing)),
	}
	for _, t := range existing {
		m.Add(t)
	}
	return m
}

// Add appends a title to the comparison set.
func (m *Matcher) Add(title string) {
	n := Normalize(title)
	if n == "" {
		return
	}
	m.normalized = append(m.normalized, n)
	m.originals = append(m.originals, title)
}

// Len returns the number of comparable titles.
func (m *Matcher) Len() int { return len(m.normalized) }

// Match returns the first known title similar to title.
func (m *Matcher) Match(title string) (string, bool) {
	n := Normalize(title)
	if n == "" {
		return "", false
	}
	for i, other := range m.normalized {
		if ratio(n, other) >= m.threshold {
			return m.originals[i], true
		}
	}
	return "", false
}

// ratio computes the character-level ratio of two normalized strings.
// Inputs are put in a canonical order first so the result does not depend
// on argument order.
func ratio(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if nb < na {
		na, nb = nb, na
	}
	return difflib.NewMatcher(splitRunes(na), splitRunes(nb)).Ratio()
}

// splitRunes turns s into one element per character so that difflib matches
// at character level rather than line level.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
