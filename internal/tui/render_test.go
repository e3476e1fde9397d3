package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/infra/cmsclient"
	"tnsystems-site/internal/listing"
)

func TestTruncate_WideRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		width int
	}{
		{"Cloud Migration Lessons", 10},
		{"クラウド移行の教訓", 10},
		{"short", 10},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := truncate(tt.in, tt.width)
			assert.LessOrEqual(t, runewidth.StringWidth(got), tt.width)
		})
	}
	assert.Equal(t, "", truncate("x", 0))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	lines := wrap("the quick brown fox jumps over the lazy dog", 10)
	for _, l := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 10, l)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog", strings.Join(lines, " "))
	assert.Nil(t, wrap("   ", 10))
}

func TestPostCard(t *testing.T) {
	t.Parallel()

	p := entity.Post{
		Title:      "Cloud &#8211; Migration",
		Excerpt:    "<p>Lessons from moving a hospital system</p>",
		Author:     "Priya",
		Categories: []string{"Engineering", "News"},
		CreatedAt:  time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
	}
	got := PostCard(PlainStyles(), DefaultWidth)(p, false)
	want := "  Cloud – Migration\n  Engineering · Mar 5, 2024 · Priya\n  Lessons from moving a hospital system"
	assert.Equal(t, want, got)

	selected := PostCard(PlainStyles(), DefaultWidth)(p, true)
	assert.True(t, strings.HasPrefix(selected, "> Cloud"))
}

func TestPostCard_FallsBackToContent(t *testing.T) {
	t.Parallel()

	got := PostCard(PlainStyles(), DefaultWidth)(entity.Post{Excerpt: "<p></p>", Content: "<p>Body text</p>"}, false)
	assert.Contains(t, got, untitledPost)
	assert.Contains(t, got, "Body text")
}

func TestJobCard(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 60)
	j := entity.Job{Title: "Go Engineer", Location: "Chennai", JobType: "Full Time", Description: "<p>" + long + "</p>"}
	got := JobCard(PlainStyles(), 40)(j, false)
	lines := strings.Split(got, "\n")
	assert.Equal(t, "  Go Engineer", lines[0])
	assert.Equal(t, "  Chennai · Full Time", lines[1])
	assert.True(t, strings.HasSuffix(got, "..."), "long descriptions are excerpted")
	for _, l := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 40)
	}
}

func TestRenderListing_States(t *testing.T) {
	t.Parallel()

	msgs := listing.DefaultMessages()
	render := func(s string, selected bool) string {
		if selected {
			return "*" + s
		}
		return s
	}
	opts := ListOptions{Styles: PlainStyles(), Selected: 1, KeyHints: true}

	tests := []struct {
		name string
		view listing.View[string]
		want []string
		not  []string
	}{
		{
			name: "loading",
			view: listing.View[string]{State: listing.StateLoading, Skeletons: 2},
			want: []string{"Loading…", skeletonBar},
		},
		{
			name: "error",
			view: listing.View[string]{State: listing.StateError, Title: "Failed to load jobs", Message: listing.ErrorMessage, CanRetry: true},
			want: []string{"Failed to load jobs", listing.ErrorMessage, "[r] " + msgs.RetryLabel},
		},
		{
			name: "empty search",
			view: listing.View[string]{State: listing.StateEmptyWithQuery, Title: msgs.NoMatchTitle, Message: msgs.NoMatch, CanClearSearch: true, Query: "zzz"},
			want: []string{msgs.NoMatchTitle, "[esc] " + msgs.ClearLabel},
		},
		{
			name: "populated with controls",
			view: listing.View[string]{
				State: listing.StatePopulated, Items: []string{"a", "b"}, Query: "x", Visible: 11,
				Page: 1, TotalPages: 2, Strip: []pagination.StripEntry{{Page: 1}, {Page: 2}},
			},
			want: []string{`11 result(s) for "x"`, "a\n\n*b", "Page 1 of 2   [1] 2"},
		},
		{
			name: "populated single page",
			view: listing.View[string]{State: listing.StatePopulated, Items: []string{"a"}, Page: 1, TotalPages: 1},
			want: []string{"a"},
			not:  []string{"Page"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RenderListing(tt.view, render, opts)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, got, n)
			}
		})
	}
}

func TestRenderListing_NoKeyHints(t *testing.T) {
	t.Parallel()

	v := listing.View[string]{State: listing.StateError, Title: "Failed", Message: "m", CanRetry: true}
	got := RenderListing(v, func(s string, _ bool) string { return s }, ListOptions{Styles: PlainStyles()})
	assert.NotContains(t, got, "[r]")
}

func TestCategories(t *testing.T) {
	t.Parallel()

	st := PlainStyles()
	assert.Equal(t, "[All] Engineering News", Categories(st, []string{"Engineering", "News"}, ""))
	assert.Equal(t, "All Engineering [News]", Categories(st, []string{"Engineering", "News"}, "News"))
	assert.Empty(t, Categories(st, nil, ""))
}

func TestDetailStateFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DetailReady, DetailStateFor(nil))
	assert.Equal(t, DetailNotFound, DetailStateFor(fmt.Errorf("post %q: %w", "x", cmsclient.ErrNotFound)))
	assert.Equal(t, DetailError, DetailStateFor(errors.New("boom")))
}

func TestDetailPlaceholder(t *testing.T) {
	t.Parallel()

	st := PlainStyles()
	assert.Equal(t, "Loading...", DetailPlaceholder(st, DetailLoading, KindPost))
	assert.Equal(t, "Post not found.", DetailPlaceholder(st, DetailNotFound, KindPost))
	assert.Contains(t, DetailPlaceholder(st, DetailNotFound, KindJob), "Job Not Found")
	assert.Contains(t, DetailPlaceholder(st, DetailError, KindJob), listing.ErrorMessage)
	assert.Empty(t, DetailPlaceholder(st, DetailReady, KindJob))
}

func TestJobDetail(t *testing.T) {
	t.Parallel()

	j := entity.Job{
		Title:            "Go Engineer",
		Company:          entity.Company{Name: "TopNotch Systems"},
		Location:         "Chennai",
		Positions:        "2",
		Description:      "<p>Build services</p>",
		Requirements:     "<ul><li>Go</li><li>SQL</li></ul>",
		ApplicationEmail: "hr@tnsystems.in",
		PostedOn:         time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	got := JobDetail(PlainStyles(), j, DefaultWidth)

	for _, want := range []string{"Go Engineer", "TopNotch Systems", "Location    Chennai", "Positions   2", "Posted      Feb 10, 2024", "Job Description", "Build services", "Requirements", "Go SQL", "Apply: hr@tnsystems.in"} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "Benefits")
	assert.NotContains(t, got, "Salary")
}

func TestPostDetail(t *testing.T) {
	t.Parallel()

	p := entity.Post{
		Title:      "Hello",
		Author:     "Priya",
		Content:    "<p>First</p>\n<p>Second</p>",
		Categories: []string{"News"},
		Link:       "https://tnsystems.in/hello/",
		CreatedAt:  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	got := PostDetail(PlainStyles(), p, DefaultWidth)
	assert.Equal(t, "Hello\nBy Priya · Mar 5, 2024\nNews\n\nFirst\nSecond\n\nhttps://tnsystems.in/hello/", got)
}
