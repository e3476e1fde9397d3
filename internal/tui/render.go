package tui

import (
	"errors"
	"fmt"
	"strings"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/infra/cmsclient"
	"tnsystems-site/internal/listing"
	"tnsystems-site/internal/utils/text"
)

const (
	dateLayout   = "Jan 2, 2006"
	skeletonBar  = "░░░░░░░░░░░░░░░░░░░░░░░░"
	indent       = "  "
	metaSep      = " · "
	untitledPost = "(untitled)"
)

// ItemRenderer draws one card of a listing.
type ItemRenderer[T any] func(item T, selected bool) string

// ListOptions controls RenderListing.
type ListOptions struct {
	Styles Styles
	// Selected is the index of the highlighted card on the page, -1 for none.
	Selected int
	// KeyHints adds the interactive key bindings to placeholder states.
	KeyHints bool
}

// RenderListing draws a listing view in whichever state it is in.
func RenderListing[T any](v listing.View[T], render ItemRenderer[T], opts ListOptions) string {
	st := opts.Styles
	labels := listing.DefaultMessages()
	var b strings.Builder

	switch v.State {
	case listing.StateLoading:
		b.WriteString(st.Meta.Render("Loading…"))
		for i := 0; i < v.Skeletons; i++ {
			b.WriteString("\n" + st.Meta.Render(indent+skeletonBar))
		}
	case listing.StateError:
		b.WriteString(st.Error.Render(v.Title) + "\n" + v.Message)
		if opts.KeyHints && v.CanRetry {
			b.WriteString("\n" + st.Help.Render("[r] "+labels.RetryLabel))
		}
	case listing.StateEmptyNoQuery:
		b.WriteString(st.Title.Render(v.Title) + "\n" + st.Meta.Render(v.Message))
	case listing.StateEmptyWithQuery:
		b.WriteString(st.Title.Render(v.Title) + "\n" + st.Meta.Render(v.Message))
		if opts.KeyHints && v.CanClearSearch {
			b.WriteString("\n" + st.Help.Render("[esc] "+labels.ClearLabel))
		}
	case listing.StatePopulated:
		if v.Query != "" {
			b.WriteString(st.Meta.Render(fmt.Sprintf("%d result(s) for %q", v.Visible, v.Query)) + "\n\n")
		}
		cards := make([]string, len(v.Items))
		for i, it := range v.Items {
			cards[i] = render(it, i == opts.Selected)
		}
		b.WriteString(strings.Join(cards, "\n\n"))
		if v.ShowControls() {
			b.WriteString("\n\n" + st.Meta.Render(fmt.Sprintf("Page %d of %d   %s",
				v.Page, v.TotalPages, pagination.FormatStrip(v.Strip, v.Page))))
		}
	}
	return b.String()
}

// PostCard draws a blog card: title, category, date, author and excerpt.
func PostCard(st Styles, width int) ItemRenderer[entity.Post] {
	return func(p entity.Post, selected bool) string {
		title := text.StripTags(p.Title)
		if title == "" {
			title = untitledPost
		}
		var meta []string
		if c := p.PrimaryCategory(); c != "" {
			meta = append(meta, c)
		}
		if !p.CreatedAt.IsZero() {
			meta = append(meta, p.CreatedAt.Format(dateLayout))
		}
		if p.Author != "" {
			meta = append(meta, p.Author)
		}
		summary := p.Excerpt
		if strings.TrimSpace(text.StripTags(summary)) == "" {
			summary = p.Content
		}
		return card(st, width, selected, title, meta, text.Excerpt(summary, text.DefaultExcerptLength))
	}
}

// JobCard draws a careers card: title, location, type, department and excerpt.
func JobCard(st Styles, width int) ItemRenderer[entity.Job] {
	return func(j entity.Job, selected bool) string {
		var meta []string
		for _, m := range []string{j.Location, j.JobType, j.Department} {
			if m != "" {
				meta = append(meta, m)
			}
		}
		summary := j.Excerpt
		if summary == "" {
			summary = j.Description
		}
		return card(st, width, selected, j.Title, meta, text.Excerpt(summary, text.DefaultExcerptLength))
	}
}

func card(st Styles, width int, selected bool, title string, meta []string, summary string) string {
	marker, ts := indent, st.Title
	if selected {
		marker, ts = "> ", st.Selected
	}
	lines := []string{ts.Render(truncate(marker+title, width))}
	if len(meta) > 0 {
		lines = append(lines, st.Meta.Render(truncate(indent+strings.Join(meta, metaSep), width)))
	}
	for _, l := range wrap(summary, width-len(indent)) {
		lines = append(lines, indent+st.Body.Render(l))
	}
	return strings.Join(lines, "\n")
}

// Categories draws the blog category chips with the active one bracketed.
func Categories(st Styles, categories []string, active string) string {
	if len(categories) == 0 {
		return ""
	}
	chips := make([]string, 0, len(categories)+1)
	all := "All"
	if active == "" {
		all = "[All]"
	}
	chips = append(chips, st.Chip.Render(all))
	for _, c := range categories {
		if c == active {
			c = "[" + c + "]"
		}
		chips = append(chips, st.Chip.Render(c))
	}
	return strings.Join(chips, " ")
}

// DetailState is the state of a single post or job page.
type DetailState int

const (
	DetailLoading DetailState = iota
	DetailNotFound
	DetailError
	DetailReady
)

// DetailStateFor maps the result of a detail fetch to its page state.
func DetailStateFor(err error) DetailState {
	switch {
	case err == nil:
		return DetailReady
	case errors.Is(err, cmsclient.ErrNotFound):
		return DetailNotFound
	default:
		return DetailError
	}
}

// Detail page kinds.
const (
	KindPost = "post"
	KindJob  = "job"
)

// DetailPlaceholder draws the non-ready states of a detail page.
func DetailPlaceholder(st Styles, state DetailState, kind string) string {
	switch state {
	case DetailLoading:
		return st.Meta.Render("Loading...")
	case DetailNotFound:
		if kind == KindJob {
			return st.Error.Render("Job Not Found") + "\n" +
				"The job listing you're looking for doesn't exist or has been removed."
		}
		return st.Error.Render("Post not found.")
	case DetailError:
		return st.Error.Render("Failed to load") + "\n" + listing.ErrorMessage
	default:
		return ""
	}
}

// PostDetail draws a full post.
func PostDetail(st Styles, p entity.Post, width int) string {
	title := text.StripTags(p.Title)
	if title == "" {
		title = untitledPost
	}
	var meta []string
	if p.Author != "" {
		meta = append(meta, "By "+p.Author)
	}
	if !p.CreatedAt.IsZero() {
		meta = append(meta, p.CreatedAt.Format(dateLayout))
	}
	lines := []string{st.Title.Render(truncate(title, width))}
	if len(meta) > 0 {
		lines = append(lines, st.Meta.Render(strings.Join(meta, metaSep)))
	}
	if len(p.Categories) > 0 {
		lines = append(lines, st.Chip.Render(strings.Join(p.Categories, ", ")))
	}
	lines = append(lines, "")
	lines = append(lines, paragraphs(st, p.Content, width)...)
	if p.Link != "" {
		lines = append(lines, "", st.Meta.Render(p.Link))
	}
	return strings.Join(lines, "\n")
}

// JobDetail draws a full job listing with its facts and sections.
func JobDetail(st Styles, j entity.Job, width int) string {
	lines := []string{st.Title.Render(truncate(j.Title, width))}
	if j.Company.Name != "" {
		lines = append(lines, st.Meta.Render(j.Company.Name))
	}
	lines = append(lines, "")

	facts := []struct{ label, value string }{
		{"Location", j.Location},
		{"Type", j.JobType},
		{"Experience", j.Experience},
		{"Department", j.Department},
		{"Salary", j.Salary},
		{"Positions", j.Positions},
	}
	if !j.PostedOn.IsZero() {
		facts = append(facts, struct{ label, value string }{"Posted", j.PostedOn.Format(dateLayout)})
	}
	for _, f := range facts {
		if f.value != "" {
			lines = append(lines, indent+st.Meta.Render(fmt.Sprintf("%-11s", f.label))+" "+f.value)
		}
	}

	for _, sec := range []struct{ heading, html string }{
		{"Job Description", j.Description},
		{"Responsibilities", j.Responsibilities},
		{"Requirements", j.Requirements},
		{"Benefits", j.Benefits},
	} {
		if strings.TrimSpace(text.StripTags(sec.html)) == "" {
			continue
		}
		lines = append(lines, "", st.Title.Render(sec.heading))
		lines = append(lines, paragraphs(st, sec.html, width)...)
	}

	switch {
	case j.ApplicationURL != "":
		lines = append(lines, "", st.Success.Render("Apply: ")+j.ApplicationURL)
	case j.ApplicationEmail != "":
		lines = append(lines, "", st.Success.Render("Apply: ")+j.ApplicationEmail)
	}
	return strings.Join(lines, "\n")
}

// paragraphs converts HTML to wrapped plain text, keeping line breaks.
func paragraphs(st Styles, html string, width int) []string {
	var out []string
	for _, para := range strings.Split(text.StripTagsLines(html), "\n") {
		for _, l := range wrap(para, width) {
			out = append(out, st.Body.Render(l))
		}
	}
	return out
}
