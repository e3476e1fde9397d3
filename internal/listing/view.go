package listing

import (
	"tnsystems-site/internal/common/pagination"
)

// State is the presenter state derived from the fetch state, query and visible set.
type State int

const (
	StateLoading State = iota
	StateError
	StateEmptyNoQuery
	StateEmptyWithQuery
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmptyNoQuery:
		return "empty"
	case StateEmptyWithQuery:
		return "empty_search"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Messages are the user-facing texts of the placeholder states.
type Messages struct {
	ErrorTitle   string
	Error        string
	RetryLabel   string
	EmptyTitle   string
	Empty        string
	NoMatchTitle string
	NoMatch      string
	ClearLabel   string
}

// ErrorMessage is shown for every load failure, whatever its cause.
const ErrorMessage = "We couldn't load this page. Please check your connection and try again."

// DefaultMessages returns the texts used when a Config leaves Messages empty.
func DefaultMessages() Messages {
	return Messages{
		ErrorTitle:   "Failed to load",
		Error:        ErrorMessage,
		RetryLabel:   "Try Again",
		EmptyTitle:   "Nothing here yet",
		Empty:        "Check back soon.",
		NoMatchTitle: "No results found",
		NoMatch:      "Try adjusting your search terms",
		ClearLabel:   "Clear search",
	}
}

func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&m.ErrorTitle, d.ErrorTitle)
	fill(&m.Error, d.Error)
	fill(&m.RetryLabel, d.RetryLabel)
	fill(&m.EmptyTitle, d.EmptyTitle)
	fill(&m.Empty, d.Empty)
	fill(&m.NoMatchTitle, d.NoMatchTitle)
	fill(&m.NoMatch, d.NoMatch)
	fill(&m.ClearLabel, d.ClearLabel)
	return m
}

// View is an immutable snapshot of a Collection ready to render.
type View[T any] struct {
	State State

	// Skeletons is the number of placeholder cards to draw while loading.
	Skeletons int

	Title   string
	Message string

	// CanRetry is set in StateError; CanClearSearch in StateEmptyWithQuery.
	CanRetry       bool
	CanClearSearch bool

	Query    string
	Category string

	// Items is the current page. It is a copy and may be modified by the caller.
	Items      []T
	Page       int
	TotalPages int
	// Visible counts the items matching the query across all pages.
	Visible int
	Strip   []pagination.StripEntry

	// ScrollToTop is set on views returned by page navigation.
	ScrollToTop bool
}

// ShowControls reports whether page navigation should be drawn.
func (v View[T]) ShowControls() bool {
	return v.State == StatePopulated && v.TotalPages > 1
}
