package entity

import "time"

// ContactSubmission is a message sent through one of the site's contact forms.
// Fields keeps every posted value keyed by the form field name.
type ContactSubmission struct {
	ID          int64
	FormID      int64
	Reference   string
	Fields      map[string]string
	SubmittedAt time.Time
}

// Field returns the submitted value for name, or "" when absent.
func (c *ContactSubmission) Field(name string) string {
	if c.Fields == nil {
		return ""
	}
	return c.Fields[name]
}
