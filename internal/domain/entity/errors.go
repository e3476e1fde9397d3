package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by repositories and use cases when a post, job
	// or submission does not exist or is not visible to the caller.
	ErrNotFound = errors.New("entity not found")

	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError is one rejected form or payload field. Field uses the
// wire name (your-email, resume_url) so handlers can echo it back.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors collects validation failures for several fields of one submission.
// A nil or empty FieldErrors is not an error; callers should use Err().
type FieldErrors []*ValidationError

// Add appends a failure for field.
func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, &ValidationError{Field: field, Message: message})
}

// Err returns fe as an error, or nil when no field failed.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(fe, ErrValidationFailed) true.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

// Unwrap exposes the individual field errors to errors.As.
func (fe FieldErrors) Unwrap() []error {
	out := make([]error, len(fe))
	for i, e := range fe {
		out[i] = e
	}
	return out
}
