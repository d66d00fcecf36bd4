// Package text provides the text utilities shared by extraction, deduplication
// and reporting: rune counting, comparison normalization, title similarity,
// cleaning and truncation.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Persian and other multi-byte scripts are counted per character, not per byte.
//
// Examples:
//
//	CountRunes("hello")    // returns 5
//	CountRunes("سلام")     // returns 4
//	CountRunes("")         // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}
