package text_test

import (
	"strings"
	"testing"

	"tnsystems-site/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected int
	}{
		{"hello", 5},
		{"こんにちは", 5},
		{"hello世界", 7},
		{"Hello👋", 6},
		{"", 0},
	}
	for _, tt := range tests {
		if got := text.CountRunes(tt.input); got != tt.expected {
			t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestStripTags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "  Hello   world ", want: "Hello world"},
		{name: "paragraphs keep word boundary", input: "<p>First</p><p>Second</p>", want: "First Second"},
		{name: "inline tags", input: "<p>We <strong>build</strong> <a href=\"/x\">software</a>.</p>", want: "We build software."},
		{name: "entities decoded", input: "<p>R&amp;D &#8211; Q&amp;A</p>", want: "R&D – Q&A"},
		{name: "script dropped", input: "<p>Hi</p><script>alert(1)</script>", want: "Hi"},
		{name: "line breaks", input: "one<br>two<br/>three", want: "one two three"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := text.StripTags(tt.input); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	t.Run("short text unchanged", func(t *testing.T) {
		if got := text.Excerpt("<p>Short summary</p>", 150); got != "Short summary" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long text truncated after stripping tags", func(t *testing.T) {
		body := "<p>" + strings.Repeat("a", 200) + "</p>"
		got := text.Excerpt(body, 150)
		if got != strings.Repeat("a", 150)+"..." {
			t.Errorf("got %q", got)
		}
		if strings.Contains(got, "<") {
			t.Errorf("excerpt contains markup: %q", got)
		}
	})

	t.Run("markup does not count toward the limit", func(t *testing.T) {
		body := `<p class="very-long-class-name-for-layout">` + strings.Repeat("b", 150) + "</p>"
		if got := text.Excerpt(body, 150); got != strings.Repeat("b", 150) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("multi-byte runes are not split", func(t *testing.T) {
		got := text.Excerpt(strings.Repeat("日本", 100), 5)
		if got != "日本日本日..." {
			t.Errorf("got %q", got)
		}
	})
}

func TestTrimWords(t *testing.T) {
	t.Parallel()
	in := "<p>one two three four five</p>"
	if got := text.TrimWords(in, 3); got != "one two three..." {
		t.Errorf("TrimWords = %q", got)
	}
	if got := text.TrimWords(in, 5); got != "one two three four five" {
		t.Errorf("TrimWords exact = %q", got)
	}
}

func TestTrimRunes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 2, "he"},
		{"日本語テキスト", 3, "日本語"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := text.TrimRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("TrimRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestStripTagsLines(t *testing.T) {
	t.Parallel()
	in := "\r\nHi <b>team</b>,\r\n\r\nPlease <a href=\"#\">call</a> me.\n"
	want := "Hi team,\n\nPlease call me."
	if got := text.StripTagsLines(in); got != want {
		t.Errorf("StripTagsLines = %q, want %q", got, want)
	}
}
