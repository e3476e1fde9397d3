package pagination

import (
	"slices"
	"strconv"
	"strings"
)

// StripEntry is one slot of a compact page-number strip: either a page number
// or an ellipsis standing for the pages hidden between its neighbours.
type StripEntry struct {
	Page     int
	Ellipsis bool
}

// Label renders the entry the way page controls display it.
func (e StripEntry) Label() string {
	if e.Ellipsis {
		return "..."
	}
	return strconv.Itoa(e.Page)
}

// Strip computes the page-number strip shown under a paginated list.
//
// The first and last pages are always present. Pages next to the current one
// are listed, and runs of hidden pages collapse into an ellipsis at either end:
//
//	Strip(1, 10)  // 1 2 ... 10
//	Strip(5, 10)  // 1 ... 4 5 6 ... 10
//	Strip(9, 10)  // 1 ... 8 9 10
//
// No strip is produced when there is at most one page.
func Strip(current, total int) []StripEntry {
	if total <= 1 {
		return nil
	}
	current = ClampPage(current, total)

	var pages []int
	entries := make([]StripEntry, 0, 7)
	add := func(p int) {
		if slices.Contains(pages, p) {
			return
		}
		pages = append(pages, p)
		entries = append(entries, StripEntry{Page: p})
	}

	add(1)

	if current > 3 {
		entries = append(entries, StripEntry{Ellipsis: true})
	} else {
		for p := 2; p < min(current, 4); p++ {
			add(p)
		}
	}

	for p := max(2, current-1); p <= min(total-1, current+1); p++ {
		add(p)
	}

	if current < total-2 {
		entries = append(entries, StripEntry{Ellipsis: true})
	} else {
		for p := max(current+2, total-2); p < total; p++ {
			add(p)
		}
	}

	add(total)
	return entries
}

// FormatStrip renders a strip with the current page bracketed, e.g. "1 ... [4] 5 ... 9".
func FormatStrip(entries []StripEntry, current int) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Ellipsis && e.Page == current {
			parts = append(parts, "["+e.Label()+"]")
			continue
		}
		parts = append(parts, e.Label())
	}
	return strings.Join(parts, " ")
}
