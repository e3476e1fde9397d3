package pagination_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tnsystems-site/internal/common/pagination"
)

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current int
		total   int
		want    string
	}{
		{1, 1, ""},
		{1, 2, "[1] 2"},
		{2, 3, "1 [2] 3"},
		{1, 10, "[1] 2 ... 10"},
		{2, 10, "1 [2] 3 ... 10"},
		{3, 10, "1 2 [3] 4 ... 10"},
		{4, 10, "1 ... 3 [4] 5 ... 10"},
		{5, 10, "1 ... 4 [5] 6 ... 10"},
		{8, 10, "1 ... 7 [8] 9 10"},
		{9, 10, "1 ... 8 [9] 10"},
		{10, 10, "1 ... 9 [10]"},
		{3, 5, "1 2 [3] 4 5"},
		{4, 5, "1 ... 3 [4] 5"},
		{12, 10, "1 ... 9 [10]"},
	}

	for _, tt := range tests {
		got := pagination.FormatStrip(pagination.Strip(tt.current, tt.total), min(tt.current, tt.total))
		if got != tt.want {
			t.Errorf("Strip(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestStrip_Entries(t *testing.T) {
	t.Parallel()

	want := []pagination.StripEntry{
		{Page: 1}, {Ellipsis: true}, {Page: 4}, {Page: 5}, {Page: 6}, {Ellipsis: true}, {Page: 10},
	}
	if diff := cmp.Diff(want, pagination.Strip(5, 10)); diff != "" {
		t.Errorf("Strip(5, 10) mismatch (-want +got):\n%s", diff)
	}
}

// For every (current, total) the strip starts at 1, ends at total, lists each
// page at most once, contains current and never places two ellipses side by side.
func TestStrip_Properties(t *testing.T) {
	t.Parallel()

	for total := 2; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			entries := pagination.Strip(current, total)
			if entries[0].Page != 1 || entries[len(entries)-1].Page != total {
				t.Fatalf("Strip(%d, %d): endpoints = %v", current, total, entries)
			}
			seen := map[int]bool{}
			last := 0
			for i, e := range entries {
				if e.Ellipsis {
					if entries[i-1].Ellipsis {
						t.Fatalf("Strip(%d, %d): adjacent ellipses", current, total)
					}
					continue
				}
				if seen[e.Page] {
					t.Fatalf("Strip(%d, %d): duplicate page %d", current, total, e.Page)
				}
				if e.Page <= last {
					t.Fatalf("Strip(%d, %d): pages not ascending: %v", current, total, entries)
				}
				seen[e.Page] = true
				last = e.Page
			}
			if !seen[current] {
				t.Fatalf("Strip(%d, %d): current page missing", current, total)
			}
		}
	}
}
