package cmsclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches an HTTPError with status 404 and an empty slug lookup.
var ErrNotFound = errors.New("cmsclient: not found")

// NetworkError means no HTTP response was received: DNS, connect, timeout,
// or an open circuit breaker.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cmsclient: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError means the server answered with a non-2xx status.
// Message carries the server's "message" or "error" field when present.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cmsclient: %s: HTTP %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("cmsclient: %s: HTTP %d", e.URL, e.StatusCode)
}

// Is reports 404 responses as ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ParseError means the response body could not be decoded or failed schema validation.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cmsclient: %s: malformed response: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError is one rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError means the server rejected submitted data. Message is meant
// to be shown to the user as-is.
type ValidationError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cmsclient: submission rejected: %s", e.Message)
}

// FieldMessage returns the server message for field, or "".
func (e *ValidationError) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// IsLoadFailure reports whether err belongs to the fetch failure classes that
// list and detail views collapse into a single retryable error state.
func IsLoadFailure(err error) bool {
	var (
		netErr   *NetworkError
		httpErr  *HTTPError
		parseErr *ParseError
	)
	return errors.As(err, &netErr) || errors.As(err, &httpErr) || errors.As(err, &parseErr)
}
