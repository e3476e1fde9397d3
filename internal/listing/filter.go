package listing

import "strings"

// FieldsFunc returns the searchable text of an item.
type FieldsFunc[T any] func(T) []string

// NormalizeQuery trims surrounding whitespace from user input.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(query)
}

// Filter returns the items for which any field contains query, ignoring case.
// The match runs on the stored text as-is, markup included.
// An empty or blank query returns items unchanged. Order is preserved.
func Filter[T any](items []T, query string, fields FieldsFunc[T]) []T {
	q := strings.ToLower(NormalizeQuery(query))
	if q == "" || fields == nil {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// FilterCategory keeps the items tagged with category. "" keeps everything.
func FilterCategory[T any](items []T, category string, categories func(T) []string) []T {
	if category == "" || categories == nil {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, c := range categories(item) {
			if c == category {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
