package text

import (
	"strings"
	"unicode"
)

// Ellipsis marks text that was cut short.
const Ellipsis = "…"

// TruncateRunes cuts s to at most limit runes. When it cuts, marker is
// appended (the marker is not counted against limit).
func TruncateRunes(s string, limit int, marker string) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + marker
}

// TruncateWords keeps at most maxWords whitespace-separated words.
func TruncateWords(s string, maxWords int, marker string) string {
	words := strings.Fields(s)
	if maxWords <= 0 || len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + marker
}

// TruncateAtWord cuts s to at most limit runes on a word boundary and appends
// marker when it cuts. Inputs of ten words or fewer are cut mid-word.
func TruncateAtWord(s string, limit int, marker string) string {
	if CountRunes(s) <= limit {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= 10 {
		return string([]rune(s)[:limit]) + marker
	}

	var b strings.Builder
	n := 0
	for i, w := range words {
		wl := CountRunes(w)
		if i > 0 {
			wl++
		}
		if n+wl > limit {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		n += wl
	}
	return b.String() + marker
}

// HasTruncationSuffix reports whether s ends with "..." or "…".
func HasTruncationSuffix(s string) bool {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	return strings.HasSuffix(s, "...") || strings.HasSuffix(s, Ellipsis)
}
