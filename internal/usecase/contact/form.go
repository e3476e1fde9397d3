package contact

import (
	"maps"
	"slices"
)

// DefaultFormID is the form the site's contact page posts to.
const DefaultFormID int64 = 535

// Field kinds.
const (
	KindText     = "text"
	KindEmail    = "email"
	KindTel      = "tel"
	KindTextarea = "textarea"
)

// FieldSpec describes one input of a form.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     string
	Required bool
}

// Form is a registered contact form.
type Form struct {
	ID     int64
	Title  string
	Fields []FieldSpec
}

// Registry maps form IDs to forms.
type Registry map[int64]*Form

// DefaultRegistry holds the contact page form.
func DefaultRegistry() Registry {
	return Registry{
		DefaultFormID: {
			ID:    DefaultFormID,
			Title: "Contact form",
			Fields: []FieldSpec{
				{Name: "your-name", Label: "Name", Kind: KindText, Required: true},
				{Name: "your-email", Label: "Email", Kind: KindEmail, Required: true},
				{Name: "your-phone", Label: "Phone", Kind: KindTel},
				{Name: "your-company", Label: "Company", Kind: KindText},
				{Name: "your-service", Label: "Service", Kind: KindText},
				{Name: "your-message", Label: "Message", Kind: KindTextarea, Required: true},
			},
		},
	}
}

// Lookup returns the form with id, or ErrFormNotFound.
func (r Registry) Lookup(id int64) (*Form, error) {
	f, ok := r[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	return f, nil
}

// IDs returns the registered form IDs in ascending order.
func (r Registry) IDs() []int64 {
	return slices.Sorted(maps.Keys(r))
}
