package text

import "strings"

const (
	// DefaultExcerptLength is the card summary length used by listing views.
	DefaultExcerptLength = 150

	// Ellipsis is appended when text was cut.
	Ellipsis = "..."
)

// Excerpt strips tags from html and truncates the resulting text to at most
// maxRunes runes, appending Ellipsis when it was cut. Truncation never splits
// a multi-byte character.
func Excerpt(html string, maxRunes int) string {
	plain := StripTags(html)
	if maxRunes <= 0 || CountRunes(plain) <= maxRunes {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimRight(string(runes[:maxRunes]), " ") + Ellipsis
}

// TrimWords strips tags from html and keeps the first n words, appending
// Ellipsis when more words followed.
func TrimWords(html string, n int) string {
	words := strings.Fields(StripTags(html))
	if n <= 0 || len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + Ellipsis
}
