package text

import (
	"strings"
	"unicode"
)

// sentencePunct is the punctuation kept by CleanArticle.
const sentencePunct = ".,!?:;()[]{}،؛؟«»"

// CleanArticle tidies extracted article text: whitespace runs collapse to one
// space and symbols other than sentence punctuation are removed. Letters and
// numbers of any script are kept, as is ZWNJ which Persian spelling relies on.
func CleanArticle(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r), r == '_', r == '\u200c':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case strings.ContainsRune(sentencePunct, r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CleanForDigest strips everything but letters, numbers and spaces and cuts
// the result to limit runes on a word boundary with a "..." marker.
func CleanForDigest(s string, limit int) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return TruncateAtWord(strings.Join(strings.Fields(b.String()), " "), limit, "...")
}
