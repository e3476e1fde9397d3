package pagination

// Page is one slice of an in-memory result set.
type Page[T any] struct {
	Items      []T
	Number     int // 1-based, clamped into [1, TotalPages]
	TotalPages int // at least 1, even for an empty set
	TotalItems int
}

// HasControls reports whether page navigation should be displayed.
func (p Page[T]) HasControls() bool {
	return p.TotalPages > 1
}

// Paginate slices items into pages of pageSize and returns the requested page.
// page is clamped into the valid range, so callers can pass stale page numbers
// after the underlying set shrank. The returned Items share the backing array
// of items and must not be modified.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := CalculateTotalPages(int64(len(items)), pageSize)
	page = ClampPage(page, total)

	start := CalculateOffset(page, pageSize)
	end := min(start+pageSize, len(items))
	if start > end {
		start = end
	}

	return Page[T]{
		Items:      items[start:end:end],
		Number:     page,
		TotalPages: total,
		TotalItems: len(items),
	}
}

// ClampPage limits page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
