package forms

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/infra/cmsclient"
)

// Contact Form 7 field names of the site contact form.
const (
	ContactName    = "your-name"
	ContactEmail   = "your-email"
	ContactPhone   = "your-phone"
	ContactCompany = "your-company"
	ContactService = "your-service"
	ContactMessage = "your-message"
)

// ContactFields are the inputs of the contact form.
type ContactFields struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Service string
	Message string
}

// Values returns the fields keyed by form field name, omitting empty optional ones.
func (f ContactFields) Values() map[string]string {
	v := map[string]string{
		ContactName:    strings.TrimSpace(f.Name),
		ContactEmail:   strings.TrimSpace(f.Email),
		ContactMessage: strings.TrimSpace(f.Message),
	}
	for k, val := range map[string]string{
		ContactPhone:   f.Phone,
		ContactCompany: f.Company,
		ContactService: f.Service,
	} {
		if s := strings.TrimSpace(val); s != "" {
			v[k] = s
		}
	}
	return v
}

// Validate applies the checks the form enforces before sending.
func (f ContactFields) Validate() entity.FieldErrors {
	var errs entity.FieldErrors
	if strings.TrimSpace(f.Name) == "" {
		errs.Add(ContactName, msgRequired)
	}
	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		errs.Add(ContactEmail, msgRequired)
	case entity.ValidateEmail(ContactEmail, email) != nil:
		errs.Add(ContactEmail, msgInvalidEmail)
	}
	if strings.TrimSpace(f.Message) == "" {
		errs.Add(ContactMessage, msgRequired)
	}
	return errs
}

// ContactSubmitter sends contact form values.
type ContactSubmitter interface {
	SubmitContact(ctx context.Context, fields map[string]string) (cmsclient.ContactResult, error)
}

// Contact controls the contact form.
type Contact struct {
	submitter ContactSubmitter
	logger    *slog.Logger

	mu          sync.Mutex
	fields      ContactFields
	status      Status
	message     string
	fieldErrors map[string]string
	reference   string
}

// NewContact creates an Idle contact form.
func NewContact(submitter ContactSubmitter, logger *slog.Logger) *Contact {
	if logger == nil {
		logger = slog.Default()
	}
	return &Contact{submitter: submitter, logger: logger}
}

// Fill replaces all fields at once.
func (c *Contact) Fill(f ContactFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = f
	if c.status == Failed {
		c.status = Idle
		c.message = ""
		c.fieldErrors = nil
	}
}

// State returns the current snapshot.
func (c *Contact) State() Result[ContactFields] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Submit sends the message. Server-side field rejections are reported per field.
func (c *Contact) Submit(ctx context.Context) Result[ContactFields] {
	c.mu.Lock()
	if c.status == Submitting {
		defer c.mu.Unlock()
		return c.stateLocked()
	}
	if errs := c.fields.Validate(); len(errs) > 0 {
		c.status = Failed
		c.message = MsgInvalidFields
		c.fieldErrors = fieldErrorMap(errs)
		defer c.mu.Unlock()
		return c.stateLocked()
	}
	c.status = Submitting
	c.message = ""
	c.fieldErrors = nil
	values := c.fields.Values()
	c.mu.Unlock()

	res, err := c.submitter.SubmitContact(ctx, values)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("contact submit failed", slog.Any("error", err))
		c.status = Failed
		c.message, c.fieldErrors = failureMessage(err, MsgContactFailed)
		return c.stateLocked()
	}

	c.status = Submitted
	c.message = res.Message
	if c.message == "" {
		c.message = MsgContactSent
	}
	c.reference = res.Reference
	c.fields = ContactFields{}
	return c.stateLocked()
}

func (c *Contact) stateLocked() Result[ContactFields] {
	return Result[ContactFields]{
		Status:      c.status,
		Message:     c.message,
		FieldErrors: maps.Clone(c.fieldErrors),
		Fields:      c.fields,
		Reference:   c.reference,
	}
}
