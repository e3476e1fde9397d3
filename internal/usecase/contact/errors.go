// Package contact handles submissions of the site's Contact Form 7 style forms.
package contact

import "errors"

var (
	// ErrFormNotFound indicates no form is registered under the ID.
	ErrFormNotFound = errors.New("contact form not found")

	// ErrNoSubmissionData indicates the request carried no fields at all.
	ErrNoSubmissionData = errors.New("no submission data provided")
)
