// Package job provides careers use cases: listing and reading published openings
// and admin management of job posts.
package job

import "errors"

var (
	// ErrJobNotFound indicates that no job has the ID, or that it is not published.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidJobID indicates a non-positive job ID.
	ErrInvalidJobID = errors.New("invalid job ID")
)
