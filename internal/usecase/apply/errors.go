// Package apply accepts job applications from the careers pages.
package apply

import "errors"

var (
	// ErrJobNotPublished indicates the job does not exist or is not open for applications.
	ErrJobNotPublished = errors.New("invalid or unpublished job")

	// ErrInvalidJobID indicates a non-positive job ID.
	ErrInvalidJobID = errors.New("invalid job ID")
)
