// Package tui renders the blog and careers sections in the terminal, both as
// plain command output and as the interactive browser.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is used until the terminal reports its size.
const DefaultWidth = 80

// Brand colors of the site.
var (
	ColorAccent = lipgloss.Color("#0891B2")
	ColorMuted  = lipgloss.Color("#6B7280")
	ColorError  = lipgloss.Color("#DC2626")
	ColorOK     = lipgloss.Color("#16A34A")
)

// Styles groups every style the renderers use.
type Styles struct {
	Title     lipgloss.Style
	Meta      lipgloss.Style
	Body      lipgloss.Style
	Selected  lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Chip      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Help      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true),
		Meta:      lipgloss.NewStyle().Foreground(ColorMuted),
		Body:      lipgloss.NewStyle(),
		Selected:  lipgloss.NewStyle().Foreground(ColorAccent).Bold(true),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(ColorAccent),
		Chip:      lipgloss.NewStyle().Foreground(ColorAccent),
		Error:     lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Success:   lipgloss.NewStyle().Foreground(ColorOK).Bold(true),
		Help:      lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
	}
}

// PlainStyles renders without any escape sequences, for --plain and pipes.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Title: s, Meta: s, Body: s, Selected: s,
		Tab: s.Padding(0, 1), ActiveTab: s.Padding(0, 1),
		Chip: s, Error: s, Success: s, Help: s,
	}
}

// truncate cuts s to at most width terminal cells. Wide characters count twice.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// wrap breaks s into lines of at most width cells on word boundaries.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		line  strings.Builder
		w     int
	)
	for _, word := range words {
		ww := runewidth.StringWidth(word)
		if w > 0 && w+1+ww > width {
			lines = append(lines, line.String())
			line.Reset()
			w = 0
		}
		if w > 0 {
			line.WriteByte(' ')
			w++
		}
		line.WriteString(word)
		w += ww
	}
	return append(lines, line.String())
}
