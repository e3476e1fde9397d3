package listing

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"tnsystems-site/internal/common/pagination"
)

// DefaultPageSize is the number of cards per page on the blog and careers pages.
const DefaultPageSize = 9

// FetchStatus is the state of the most recent load.
type FetchStatus int

const (
	FetchIdle FetchStatus = iota
	FetchLoading
	FetchSuccess
	FetchError
)

func (s FetchStatus) String() string {
	switch s {
	case FetchIdle:
		return "idle"
	case FetchLoading:
		return "loading"
	case FetchSuccess:
		return "success"
	case FetchError:
		return "error"
	default:
		return "unknown"
	}
}

// Ticket identifies one load. Only the latest ticket may resolve.
type Ticket uint64

// Config parameterises a Collection.
type Config[T any] struct {
	// Name labels log lines, e.g. "blog" or "careers".
	Name string

	// PageSize defaults to DefaultPageSize.
	PageSize int

	// Fields selects the searchable text of an item. Required.
	Fields FieldsFunc[T]

	// Categories optionally returns the category tags of an item.
	// When set, SetCategory narrows the candidate list before search.
	Categories func(T) []string

	// Skeletons is the placeholder count while loading; defaults to PageSize.
	Skeletons int

	Messages Messages
	Logger   *slog.Logger
}

// Collection is a searchable, paginated list backed by one Source.
// It is safe for concurrent use.
type Collection[T any] struct {
	source Source[T]
	cfg    Config[T]
	logger *slog.Logger

	mu       sync.Mutex
	status   FetchStatus
	items    []T
	err      error
	query    string
	category string
	page     int
	latest   Ticket
}

// New creates a Collection in the Idle state.
func New[T any](source Source[T], cfg Config[T]) *Collection[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Skeletons <= 0 {
		cfg.Skeletons = cfg.PageSize
	}
	cfg.Messages = cfg.Messages.withDefaults()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Name != "" {
		logger = logger.With(slog.String("collection", cfg.Name))
	}

	return &Collection[T]{
		source: source,
		cfg:    cfg,
		logger: logger,
		page:   1,
	}
}

// Load fetches the candidate list and returns the resulting view.
// It blocks until the Source returns.
func (c *Collection[T]) Load(ctx context.Context) View[T] {
	ticket := c.Begin()
	items, err := c.source.Fetch(ctx)
	c.Resolve(ticket, items, err)
	return c.View()
}

// Retry re-runs the load after an error. It is identical to Load.
func (c *Collection[T]) Retry(ctx context.Context) View[T] {
	return c.Load(ctx)
}

// Refresh replaces the current result with a fresh load.
func (c *Collection[T]) Refresh(ctx context.Context) View[T] {
	return c.Load(ctx)
}

// Begin moves the collection into Loading and returns the ticket that the
// caller must hand to Resolve once its fetch completes. Any earlier ticket
// becomes stale.
func (c *Collection[T]) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest++
	c.status = FetchLoading
	c.items = nil
	c.err = nil
	c.page = 1
	return c.latest
}

// Resolve records the outcome of the load identified by t. It reports false,
// leaving state untouched, when t has been superseded by a later Begin.
func (c *Collection[T]) Resolve(t Ticket, items []T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t != c.latest || c.status != FetchLoading {
		c.logger.Debug("discarding stale load result", slog.Uint64("ticket", uint64(t)), slog.Uint64("latest", uint64(c.latest)))
		return false
	}

	if err != nil {
		c.status = FetchError
		c.err = err
		c.items = nil
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn("load failed", slog.Any("error", err))
		}
		return true
	}

	c.status = FetchSuccess
	c.items = slices.Clone(items)
	c.page = 1
	c.logger.Debug("load succeeded", slog.Int("count", len(items)))
	return true
}

// SetQuery updates the search query. The page resets to 1 whenever the
// normalised query changes. Queries are compared after trimming, so an edit
// that only adds or removes surrounding whitespace keeps the current page.
// Input is accepted while loading and simply filters an empty candidate list.
func (c *Collection[T]) SetQuery(query string) View[T] {
	c.mu.Lock()
	if NormalizeQuery(query) != NormalizeQuery(c.query) {
		c.page = 1
	}
	c.query = query
	c.mu.Unlock()
	return c.View()
}

// ClearSearch empties the query.
func (c *Collection[T]) ClearSearch() View[T] {
	return c.SetQuery("")
}

// SetCategory restricts the candidate list to one category ("" for all).
func (c *Collection[T]) SetCategory(category string) View[T] {
	c.mu.Lock()
	if category != c.category {
		c.page = 1
	}
	c.category = category
	c.mu.Unlock()
	return c.View()
}

// Categories lists the distinct categories of the loaded items in first-seen order.
func (c *Collection[T]) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.Categories == nil {
		return nil
	}
	var out []string
	for _, item := range c.items {
		for _, cat := range c.cfg.Categories(item) {
			if cat != "" && !slices.Contains(out, cat) {
				out = append(out, cat)
			}
		}
	}
	return out
}

// GoToPage navigates to page n, clamped into range. The returned view asks
// the presenter to scroll to the top. No fetch is issued.
func (c *Collection[T]) GoToPage(n int) View[T] {
	c.mu.Lock()
	total := pagination.CalculateTotalPages(int64(len(c.visibleLocked())), c.cfg.PageSize)
	c.page = pagination.ClampPage(n, total)
	v := c.viewLocked()
	c.mu.Unlock()

	v.ScrollToTop = true
	return v
}

// NextPage moves one page forward.
func (c *Collection[T]) NextPage() View[T] {
	return c.GoToPage(c.currentPage() + 1)
}

// PrevPage moves one page back.
func (c *Collection[T]) PrevPage() View[T] {
	return c.GoToPage(c.currentPage() - 1)
}

// View returns the current snapshot. A collection that has not started a
// load yet (FetchIdle) is presented as Loading, with skeletons.
func (c *Collection[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Status returns the fetch status and, in FetchError, the underlying error.
func (c *Collection[T]) Status() (FetchStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.err
}

func (c *Collection[T]) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Collection[T]) visibleLocked() []T {
	scoped := FilterCategory(c.items, c.category, c.cfg.Categories)
	return Filter(scoped, c.query, c.cfg.Fields)
}

func (c *Collection[T]) viewLocked() View[T] {
	m := c.cfg.Messages
	v := View[T]{
		Query:    c.query,
		Category: c.category,
		Page:     1,
	}

	switch c.status {
	case FetchIdle, FetchLoading:
		v.State = StateLoading
		v.Skeletons = c.cfg.Skeletons
		v.TotalPages = 1
		return v
	case FetchError:
		v.State = StateError
		v.Title = m.ErrorTitle
		v.Message = m.Error
		v.CanRetry = true
		v.TotalPages = 1
		return v
	}

	visible := c.visibleLocked()
	page := pagination.Paginate(visible, c.page, c.cfg.PageSize)
	c.page = page.Number

	v.Page = page.Number
	v.TotalPages = page.TotalPages
	v.Visible = len(visible)

	if len(visible) == 0 {
		if NormalizeQuery(c.query) != "" {
			v.State = StateEmptyWithQuery
			v.Title = m.NoMatchTitle
			v.Message = m.NoMatch
			v.CanClearSearch = true
			return v
		}
		v.State = StateEmptyNoQuery
		v.Title = m.EmptyTitle
		v.Message = m.Empty
		return v
	}

	v.State = StatePopulated
	v.Items = slices.Clone(page.Items)
	v.Strip = pagination.Strip(page.Number, page.TotalPages)
	return v
}
