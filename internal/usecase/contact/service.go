package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/repository"
	"tnsystems-site/internal/utils/text"
)

// Feedback statuses, as Contact Form 7 names them.
const (
	StatusMailSent         = "mail_sent"
	StatusValidationFailed = "validation_failed"
)

// Messages shown to the visitor.
const (
	MsgMailSent         = "Thank you for your message. It has been sent."
	MsgValidationFailed = "One or more fields have an error. Please check and try again."
	MsgRequired         = "Please fill out this field."
	MsgInvalidEmail     = "Please enter an email address."
	MsgNoData           = "No submission data provided."
)

// maxFieldRunes caps a single submitted value.
const maxFieldRunes = 5000

// Feedback is the outcome of a submission that reached validation.
type Feedback struct {
	Status        string
	Message       string
	Reference     string
	InvalidFields []*entity.ValidationError
}

// Notifier receives a notification per accepted message without blocking.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification)
}

type Service struct {
	Forms        Registry
	Repo         repository.ContactRepository
	Notifier     Notifier // optional
	Now          func() time.Time
	NewReference func() string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) reference() string {
	if s.NewReference != nil {
		return s.NewReference()
	}
	return "MSG-" + ulid.Make().String()
}

// Submit validates fields against the form and, when valid, stores and
// announces the message. Field problems are not errors: they come back as
// validation_failed feedback. Fields the form does not declare are dropped.
func (s *Service) Submit(ctx context.Context, formID int64, fields map[string]string) (*Feedback, error) {
	form, err := s.Forms.Lookup(formID)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoSubmissionData
	}

	clean := make(map[string]string, len(form.Fields))
	var invalid entity.FieldErrors
	for _, spec := range form.Fields {
		v := sanitize(spec, fields[spec.Name])
		switch {
		case v == "" && spec.Required:
			invalid.Add(spec.Name, MsgRequired)
		case v != "" && spec.Kind == KindEmail && entity.ValidateEmail(spec.Name, v) != nil:
			invalid.Add(spec.Name, MsgInvalidEmail)
		}
		if v != "" {
			clean[spec.Name] = v
		}
	}
	if len(invalid) > 0 {
		return &Feedback{Status: StatusValidationFailed, Message: MsgValidationFailed, InvalidFields: invalid}, nil
	}

	sub := &entity.ContactSubmission{
		FormID:      form.ID,
		Reference:   s.reference(),
		Fields:      clean,
		SubmittedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, notification(form, sub))
	}
	return &Feedback{Status: StatusMailSent, Message: MsgMailSent, Reference: sub.Reference}, nil
}

// List returns stored submissions for formID, or every form when formID is 0.
func (s *Service) List(ctx context.Context, formID int64, limit int) ([]*entity.ContactSubmission, error) {
	subs, err := s.Repo.List(ctx, formID, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	return subs, nil
}

func sanitize(spec FieldSpec, v string) string {
	if spec.Kind == KindTextarea {
		v = text.StripTagsLines(v)
	} else {
		v = text.StripTags(v)
	}
	return text.TrimRunes(v, maxFieldRunes)
}

func notification(form *Form, sub *entity.ContactSubmission) *entity.Notification {
	var fields []entity.NotificationField
	var body string
	for _, spec := range form.Fields {
		v := sub.Field(spec.Name)
		if v == "" {
			continue
		}
		if spec.Kind == KindTextarea {
			body = v
			continue
		}
		fields = append(fields, entity.NotificationField{Name: spec.Label, Value: v})
	}
	fields = append(fields, entity.NotificationField{Name: "Reference", Value: sub.Reference})

	title := "New contact message"
	if name := sub.Field("your-name"); name != "" {
		title += " from " + name
	}
	return &entity.Notification{
		Kind:       entity.NotifyContact,
		Title:      title,
		Body:       body,
		Fields:     fields,
		OccurredAt: sub.SubmittedAt,
	}
}
