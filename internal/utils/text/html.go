package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists elements whose boundaries separate words in rendered text.
const blockSelector = "p, div, br, li, ul, ol, h1, h2, h3, h4, h5, h6, tr, td, th, blockquote, section, article, figure, figcaption"

// StripTags returns the visible text of an HTML fragment with entities decoded
// and whitespace collapsed. Script and style contents are dropped.
// Input that is not HTML is returned with whitespace collapsed.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(fragment)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})

	return collapse(doc.Find("body").Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripTagsLines strips each line on its own so a plain-text message keeps
// its line breaks. Leading and trailing blank lines are removed.
func StripTagsLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = StripTags(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
