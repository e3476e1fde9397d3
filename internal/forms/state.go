// Package forms holds the submit controllers behind the job application and
// contact forms. A controller owns the field values and the submission status;
// a submit either succeeds, clearing the fields, or fails with a message to
// show next to the form.
package forms

import (
	"errors"

	"tnsystems-site/internal/infra/cmsclient"
)

// Status is the lifecycle of one form.
type Status int

const (
	Idle Status = iota
	Submitting
	Submitted
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Messages shown when the server gives no usable text.
const (
	MsgNetworkError    = "Network error. Please check your connection and try again."
	MsgApplyFailed     = "Failed to submit application. Please try again."
	MsgContactFailed   = "There was an error trying to send your message. Please try again later."
	MsgInvalidFields   = "One or more fields have an error. Please check and try again."
	MsgApplicationSent = "Application submitted successfully!"
	MsgContactSent     = "Thank you for your message. It has been sent."
	msgRequired        = "Please fill out this field."
	msgInvalidEmail    = "The e-mail address entered is invalid."
	msgInvalidURL      = "Please enter a valid URL."
)

// Result is a snapshot of a form after an operation.
type Result[F any] struct {
	Status      Status
	Message     string
	FieldErrors map[string]string
	Fields      F
	Reference   string
}

// failureMessage maps a submit error to the text shown to the user.
func failureMessage(err error, fallback string) (string, map[string]string) {
	var ve *cmsclient.ValidationError
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve.Fields))
		for _, f := range ve.Fields {
			fields[f.Field] = f.Message
		}
		msg := ve.Message
		if msg == "" {
			msg = fallback
		}
		return msg, fields
	}

	var netErr *cmsclient.NetworkError
	if errors.As(err, &netErr) {
		return MsgNetworkError, nil
	}
	var httpErr *cmsclient.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message, nil
	}
	return fallback, nil
}
