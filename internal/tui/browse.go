package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/listing"
)

const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keySlash    = "/"
	keyRetry    = "r"
	keyCategory = "c"

	searchCharLimit = 100
	searchWidth     = 40
)

// Section is one tab of the browser.
type Section interface {
	title() string
	load(ctx context.Context, idx int) tea.Cmd
	resolve(msg loadedMsg)
	loaded() bool
	view() viewInfo
	setQuery(q string)
	clearSearch()
	nextPage()
	prevPage()
	goToPage(n int)
	cycleCategory()
	render(st Styles, width, selected int) string
	detail(st Styles, width, idx int) string
}

// viewInfo is the type-independent part of a listing view.
type viewInfo struct {
	state      listing.State
	query      string
	items      int
	categories []string
	category   string
}

type loadedMsg struct {
	section int
	ticket  listing.Ticket
	items   any
	err     error
}

type section[T any] struct {
	name       string
	coll       *listing.Collection[T]
	src        listing.Source[T]
	card       func(Styles, int) ItemRenderer[T]
	full       func(Styles, T, int) string
	categories bool
	started    bool
}

// BlogSection browses posts with category chips.
func BlogSection(c *listing.Collection[entity.Post], src listing.Source[entity.Post]) Section {
	return &section[entity.Post]{name: "Blog", coll: c, src: src, card: PostCard, full: PostDetail, categories: true}
}

// CareersSection browses open positions.
func CareersSection(c *listing.Collection[entity.Job], src listing.Source[entity.Job]) Section {
	return &section[entity.Job]{name: "Careers", coll: c, src: src, card: JobCard, full: JobDetail}
}

func (s *section[T]) title() string { return s.name }
func (s *section[T]) loaded() bool  { return s.started }

// load begins a fetch now so the view shows Loading immediately; the fetch
// itself runs in the returned command.
func (s *section[T]) load(ctx context.Context, idx int) tea.Cmd {
	s.started = true
	ticket := s.coll.Begin()
	return func() tea.Msg {
		items, err := s.src.Fetch(ctx)
		return loadedMsg{section: idx, ticket: ticket, items: items, err: err}
	}
}

func (s *section[T]) resolve(msg loadedMsg) {
	items, _ := msg.items.([]T)
	s.coll.Resolve(msg.ticket, items, msg.err)
}

func (s *section[T]) view() viewInfo {
	v := s.coll.View()
	info := viewInfo{state: v.State, query: v.Query, items: len(v.Items), category: v.Category}
	if s.categories {
		info.categories = s.coll.Categories()
	}
	return info
}

func (s *section[T]) setQuery(q string) { s.coll.SetQuery(q) }
func (s *section[T]) clearSearch()      { s.coll.ClearSearch() }
func (s *section[T]) nextPage()         { s.coll.NextPage() }
func (s *section[T]) prevPage()         { s.coll.PrevPage() }
func (s *section[T]) goToPage(n int)    { s.coll.GoToPage(n) }

// cycleCategory steps All -> first category -> ... -> last -> All.
func (s *section[T]) cycleCategory() {
	if !s.categories {
		return
	}
	cats := s.coll.Categories()
	if len(cats) == 0 {
		return
	}
	current := s.coll.View().Category
	next := cats[0]
	for i, c := range cats {
		if c == current {
			next = ""
			if i+1 < len(cats) {
				next = cats[i+1]
			}
		}
	}
	s.coll.SetCategory(next)
}

func (s *section[T]) render(st Styles, width, selected int) string {
	return RenderListing(s.coll.View(), s.card(st, width), ListOptions{Styles: st, Selected: selected, KeyHints: true})
}

func (s *section[T]) detail(st Styles, width, idx int) string {
	items := s.coll.View().Items
	if idx < 0 || idx >= len(items) {
		return ""
	}
	return s.full(st, items[idx], width)
}

// Model is the interactive site browser.
type Model struct {
	ctx      context.Context
	brand    string
	sections []Section
	nav      Navigator

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	cursor   int
	showing  bool
	width    int
	styles   Styles
	quitting bool
}

// NewModel builds a browser over the given sections; the first is active.
func NewModel(ctx context.Context, brand string, styles Styles, sections ...Section) Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = searchCharLimit
	ti.Width = searchWidth

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected

	return Model{
		ctx:      ctx,
		brand:    brand,
		sections: sections,
		nav:      NewNavigator(len(sections)),
		search:   ti,
		spinner:  sp,
		width:    DefaultWidth,
		styles:   styles,
	}
}

func (m Model) Init() tea.Cmd {
	if len(m.sections) == 0 {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.sections[m.nav.Active()].load(m.ctx, m.nav.Active()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case loadedMsg:
		if msg.section >= 0 && msg.section < len(m.sections) {
			m.sections[msg.section].resolve(msg)
			m.clampCursor()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case keyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.current().clearSearch()
		m.cursor = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.current().setQuery(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sec := m.current()
	key := msg.String()
	switch key {
	case keyQuit:
		m.quitting = true
		return m, tea.Quit
	case keyTab, keyShiftTab:
		step := 1
		if key == keyShiftTab {
			step = -1
		}
		m.nav = m.nav.Step(step)
		m.cursor, m.showing = 0, false
		m.search.SetValue(m.current().view().query)
		if !m.current().loaded() {
			return m, m.current().load(m.ctx, m.nav.Active())
		}
		return m, nil
	case keyEsc:
		if m.showing {
			m.showing = false
			return m, nil
		}
		if sec.view().query != "" {
			sec.clearSearch()
			m.search.SetValue("")
			m.cursor = 0
		}
		return m, nil
	}

	if m.showing {
		return m, nil
	}

	switch key {
	case keySlash:
		m.searching = true
		return m, m.search.Focus()
	case keyRetry:
		m.cursor = 0
		return m, sec.load(m.ctx, m.nav.Active())
	case keyCategory:
		sec.cycleCategory()
		m.cursor = 0
	case "left", "h":
		sec.prevPage()
		m.cursor = 0
	case "right", "l":
		sec.nextPage()
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < sec.view().items-1 {
			m.cursor++
		}
	case keyEnter:
		if v := sec.view(); v.state == listing.StatePopulated && v.items > 0 {
			m.showing = true
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
			sec.goToPage(n)
			m.cursor = 0
		}
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if n := m.current().view().items; m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) current() Section {
	return m.sections[m.nav.Active()]
}

func (m Model) View() string {
	if m.quitting || len(m.sections) == 0 {
		return ""
	}
	st := m.styles
	sec := m.current()
	var b strings.Builder

	tabs := make([]string, len(m.sections))
	for i, s := range m.sections {
		if i == m.nav.Active() {
			tabs[i] = st.ActiveTab.Render(s.title())
		} else {
			tabs[i] = st.Tab.Render(s.title())
		}
	}
	b.WriteString(st.Title.Render(m.brand) + "  " + strings.Join(tabs, " ") + "\n\n")

	if m.showing {
		b.WriteString(sec.detail(st, m.width, m.cursor))
		b.WriteString("\n\n" + st.Help.Render("esc back • tab switch section • q quit"))
		return b.String()
	}

	b.WriteString(m.search.View() + "\n")
	v := sec.view()
	if chips := Categories(st, v.categories, v.category); chips != "" {
		b.WriteString(chips + "\n")
	}
	b.WriteString("\n")
	if v.state == listing.StateLoading {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(sec.render(st, m.width, m.cursor))
	help := "/ search • ←/→ page • 1-9 go to page • ↑/↓ select • enter open • r refresh • esc clear • tab switch • q quit"
	if v.categories != nil {
		help = "c category • " + help
	}
	b.WriteString("\n\n" + st.Help.Render(help))
	return b.String()
}
