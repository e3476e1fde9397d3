package apply

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/repository"
	"tnsystems-site/internal/utils/text"
)

// SuccessMessage is returned with every accepted application.
const SuccessMessage = "Application submitted successfully!"

// RequiredMessage is the message for a missing name or malformed e-mail.
const RequiredMessage = "Name and valid email required."

// Input is an application as posted by the visitor.
type Input struct {
	Name        string
	Phone       string
	Email       string
	CoverLetter string
	ResumeURL   string
	ApplicantIP string
}

// Result identifies a stored application.
type Result struct {
	ApplicationID int64
	JobID         int64
	Reference     string
	Message       string
}

// Notifier receives a notification for each accepted application.
// Notify must not block on delivery.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification)
}

type Service struct {
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository
	Notifier     Notifier // optional
	Now          func() time.Time
	// NewReference overrides reference generation in tests.
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
	return "APP-" + ulid.Make().String()
}

// Submit stores an application for a published job and notifies the team.
// Bad input is reported as entity.FieldErrors.
func (s *Service) Submit(ctx context.Context, jobID int64, in Input) (*Result, error) {
	if jobID <= 0 {
		return nil, ErrInvalidJobID
	}

	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil || !job.IsPublished() {
		return nil, ErrJobNotPublished
	}

	in = sanitize(in)
	if err := validate(in); err != nil {
		return nil, err
	}

	app := &entity.Application{
		JobID:       job.ID,
		JobTitle:    job.Title,
		Reference:   s.reference(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		CoverLetter: in.CoverLetter,
		ResumeURL:   in.ResumeURL,
		ApplicantIP: in.ApplicantIP,
		Status:      entity.ApplicationPending,
		SubmittedAt: s.now(),
	}
	if err := s.Applications.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, notification(app))
	}

	return &Result{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Reference:     app.Reference,
		Message:       SuccessMessage,
	}, nil
}

func sanitize(in Input) Input {
	in.Name = text.StripTags(in.Name)
	in.Phone = text.StripTags(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.ResumeURL = strings.TrimSpace(in.ResumeURL)
	in.ApplicantIP = strings.TrimSpace(in.ApplicantIP)
	in.CoverLetter = text.StripTagsLines(in.CoverLetter)
	if in.ApplicantIP == "" {
		in.ApplicantIP = "API"
	}
	return in
}

func validate(in Input) error {
	var errs entity.FieldErrors
	if in.Name == "" {
		errs.Add("name", RequiredMessage)
	}
	if err := entity.ValidateEmail("email", in.Email); err != nil {
		errs.Add("email", RequiredMessage)
	}
	if in.ResumeURL != "" {
		if err := entity.ValidateLink("resume_url", in.ResumeURL); err != nil {
			errs.Add("resume_url", "Resume link must be an http or https URL.")
		}
	}
	return errs.Err()
}

func notification(app *entity.Application) *entity.Notification {
	fields := []entity.NotificationField{
		{Name: "Position", Value: app.JobTitle},
		{Name: "Name", Value: app.Name},
		{Name: "Email", Value: app.Email},
	}
	if app.Phone != "" {
		fields = append(fields, entity.NotificationField{Name: "Phone", Value: app.Phone})
	}
	if app.ResumeURL != "" {
		fields = append(fields, entity.NotificationField{Name: "Resume", Value: app.ResumeURL})
	}
	fields = append(fields,
		entity.NotificationField{Name: "Application", Value: "#" + strconv.FormatInt(app.ID, 10)},
		entity.NotificationField{Name: "Reference", Value: app.Reference},
	)
	return &entity.Notification{
		Kind:       entity.NotifyApplication,
		Title:      "Job application: " + app.JobTitle,
		Body:       app.CoverLetter,
		URL:        app.ResumeURL,
		Fields:     fields,
		OccurredAt: app.SubmittedAt,
	}
}

// List returns applications for jobID, or for every job when jobID is 0.
func (s *Service) List(ctx context.Context, jobID int64) ([]*entity.Application, error) {
	if jobID < 0 {
		return nil, ErrInvalidJobID
	}
	apps, err := s.Applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}
