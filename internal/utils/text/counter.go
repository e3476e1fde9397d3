// Package text provides helpers for turning CMS HTML into plain display text.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters such as Japanese text or emoji count as one each.
//
//	CountRunes("hello")     // 5
//	CountRunes("hello世界") // 7
func CountRunes(text string) int {
	return len([]rune(text))
}

// TrimRunes cuts text to at most n runes without adding a suffix.
func TrimRunes(text string, n int) string {
	if n < 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
