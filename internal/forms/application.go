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

// ApplicationFields are the inputs of the job application form.
type ApplicationFields struct {
	Name        string
	Phone       string
	Email       string
	CoverLetter string
	ResumeURL   string
}

// Application field names, matching the request body keys.
const (
	FieldName        = "name"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldCoverLetter = "cover_letter"
	FieldResumeURL   = "resume_url"
)

// ApplicationSubmitter sends an application for a job.
type ApplicationSubmitter interface {
	ApplyJob(ctx context.Context, jobID int64, req cmsclient.ApplicationRequest) (cmsclient.ApplicationReceipt, error)
}

// Application controls the apply form of one job.
type Application struct {
	jobID     int64
	submitter ApplicationSubmitter
	logger    *slog.Logger

	mu          sync.Mutex
	fields      ApplicationFields
	status      Status
	message     string
	fieldErrors map[string]string
	reference   string
}

// NewApplication creates an Idle application form for jobID.
func NewApplication(jobID int64, submitter ApplicationSubmitter, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	return &Application{
		jobID:     jobID,
		submitter: submitter,
		logger:    logger.With(slog.Int64("job_id", jobID)),
	}
}

// Set updates one field by name. Editing clears a previous failure message,
// as the form does while the applicant types.
func (a *Application) Set(field, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch field {
	case FieldName:
		a.fields.Name = value
	case FieldPhone:
		a.fields.Phone = value
	case FieldEmail:
		a.fields.Email = value
	case FieldCoverLetter:
		a.fields.CoverLetter = value
	case FieldResumeURL:
		a.fields.ResumeURL = value
	default:
		return
	}
	if a.status == Failed {
		a.status = Idle
		a.message = ""
	}
	delete(a.fieldErrors, field)
}

// Fill replaces all fields at once.
func (a *Application) Fill(f ApplicationFields) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fields = f
}

// State returns the current snapshot.
func (a *Application) State() Result[ApplicationFields] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

// Validate applies the checks the form enforces before sending.
func (f ApplicationFields) Validate() entity.FieldErrors {
	var errs entity.FieldErrors
	if strings.TrimSpace(f.Name) == "" {
		errs.Add(FieldName, msgRequired)
	}
	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		errs.Add(FieldEmail, msgRequired)
	case entity.ValidateEmail(FieldEmail, email) != nil:
		errs.Add(FieldEmail, msgInvalidEmail)
	}
	if u := strings.TrimSpace(f.ResumeURL); u != "" && entity.ValidateLink(FieldResumeURL, u) != nil {
		errs.Add(FieldResumeURL, msgInvalidURL)
	}
	return errs
}

// Submit sends the application. A submit while another is in flight is ignored.
// On success the fields are cleared.
func (a *Application) Submit(ctx context.Context) Result[ApplicationFields] {
	a.mu.Lock()
	if a.status == Submitting {
		defer a.mu.Unlock()
		return a.stateLocked()
	}
	if errs := a.fields.Validate(); len(errs) > 0 {
		a.status = Failed
		a.message = MsgInvalidFields
		a.fieldErrors = fieldErrorMap(errs)
		defer a.mu.Unlock()
		return a.stateLocked()
	}
	a.status = Submitting
	a.message = ""
	a.fieldErrors = nil
	req := cmsclient.ApplicationRequest{
		Name:        strings.TrimSpace(a.fields.Name),
		Phone:       strings.TrimSpace(a.fields.Phone),
		Email:       strings.TrimSpace(a.fields.Email),
		CoverLetter: a.fields.CoverLetter,
		ResumeURL:   strings.TrimSpace(a.fields.ResumeURL),
	}
	a.mu.Unlock()

	receipt, err := a.submitter.ApplyJob(ctx, a.jobID, req)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.logger.Warn("application submit failed", slog.Any("error", err))
		a.status = Failed
		a.message, a.fieldErrors = failureMessage(err, MsgApplyFailed)
		return a.stateLocked()
	}

	a.status = Submitted
	a.message = receipt.Message
	if a.message == "" {
		a.message = MsgApplicationSent
	}
	a.reference = receipt.Reference
	a.fields = ApplicationFields{}
	return a.stateLocked()
}

func (a *Application) stateLocked() Result[ApplicationFields] {
	return Result[ApplicationFields]{
		Status:      a.status,
		Message:     a.message,
		FieldErrors: maps.Clone(a.fieldErrors),
		Fields:      a.fields,
		Reference:   a.reference,
	}
}

func fieldErrorMap(errs entity.FieldErrors) map[string]string {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}
