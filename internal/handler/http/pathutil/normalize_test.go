package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/wp-json/wp/v2/posts/42", "/wp-json/wp/v2/posts/:id"},
		{"/wp-json/wp/v2/posts/42/", "/wp-json/wp/v2/posts/:id"},
		{"/wp-json/wp/v2/posts?page=2", "/wp-json/wp/v2/posts"},
		{"/wp-json/jobs/v1/listings/7?x=1", "/wp-json/jobs/v1/listings/:id"},
		{"/wp-json/jobs/v1/apply_job/7", "/wp-json/jobs/v1/apply_job/:id"},
		{"/wp-json/contact-form-7/v1/contact-forms/535/feedback", "/wp-json/contact-form-7/v1/contact-forms/:id/feedback"},
		{"/wp-json/cf7-custom/v1/submit/535", "/wp-json/cf7-custom/v1/submit/:id"},
		{"/swagger/index.html", "/swagger/*"},
		{"/wp-json/wp/v2/posts/abc", "/wp-json/wp/v2/posts/abc"},
		{"/health", "/health"},
		{"/wp-json/jobs/v1/listings/7/applications/12", "/wp-json/jobs/v1/listings/:id/applications/:id"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.path); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
