// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Post, Job, Application and
// ContactSubmission, along with their validation rules and domain-specific errors.
package entity

import "time"

// Post represents a blog post published on the site.
// Title, Excerpt and Content hold rendered HTML as authored in the CMS.
type Post struct {
	ID         int64
	Slug       string
	Title      string
	Excerpt    string
	Content    string
	Author     string
	Categories []string
	MediaURL   string
	Link       string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Post statuses. Only published posts are visible on public endpoints.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// PrimaryCategory returns the first category, or "".
func (p *Post) PrimaryCategory() string {
	if len(p.Categories) == 0 {
		return ""
	}
	return p.Categories[0]
}

// IsPublished reports whether the post is visible to site visitors.
func (p *Post) IsPublished() bool {
	return p.Status == "" || p.Status == StatusPublish
}
