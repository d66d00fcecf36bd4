package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a title for comparison.
//
// The text is composed to NFC, lowercased, stripped of every rune that is not a
// letter, number, underscore or whitespace (punctuation, symbols, marks and
// format characters such as ZWNJ), whitespace runs are collapsed to a single
// space and the result is trimmed. Normalize is idempotent and never fails:
// empty input yields empty output.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// cases.Caser は状態を持つため呼び出しごとに生成する
	lowered := cases.Lower(language.Und).String(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	// 記号除去で結合可能な並びが生じることがあるため再度合成する
	return strings.Join(strings.Fields(norm.NFC.String(b.String())), " ")
}

// NormalizeURL canonicalizes a link for comparison: the query string is
// removed (the fragment is kept), then the result is lowercased and trimmed.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	fragment := ""
	if i := strings.IndexByte(s, '#'); i >= 0 {
		fragment = s[i:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s + fragment))
}
