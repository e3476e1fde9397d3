package pathutil

import "strings"

// NormalizePath turns a request path into a metric or span label. Numeric
// segments become :id and everything below /swagger/ collapses to one label.
// Query strings and a trailing slash are dropped.
//
//	NormalizePath("/wp-json/contact-form-7/v1/contact-forms/535/feedback")
//	// "/wp-json/contact-form-7/v1/contact-forms/:id/feedback"
func NormalizePath(path string) string {
	path, _, _ = strings.Cut(path, "?")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if strings.HasPrefix(path, "/swagger/") {
		return "/swagger/*"
	}

	segs := strings.Split(path, "/")
	for i, s := range segs {
		if isDigits(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
