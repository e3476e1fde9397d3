// Package post provides use cases for blog posts: paginated listing with search and
// category filters, lookup, and admin create/update/delete with validation.
package post

import "errors"

var (
	// ErrPostNotFound indicates that no post has the requested ID.
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidPostID indicates a non-positive post ID.
	ErrInvalidPostID = errors.New("invalid post ID")

	// ErrDuplicateSlug indicates that another post already uses the slug.
	ErrDuplicateSlug = errors.New("post with this slug already exists")
)
