package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/repository"
	"tnsystems-site/internal/utils/text"
)

// ExcerptWords matches the excerpt length the careers API has always served.
const ExcerptWords = 30

// Input carries every editable job field. On update, the zero PostedOn keeps
// the stored date.
type Input struct {
	Title            string
	Description      string
	Location         string
	JobType          string
	Department       string
	Experience       string
	Salary           string
	Positions        string
	Responsibilities string
	Requirements     string
	Benefits         string
	Company          entity.Company
	ApplicationEmail string
	ApplicationURL   string
	Status           string
	PostedOn         time.Time
}

// Page is one page of published jobs.
type Page struct {
	Jobs        []*entity.Job
	Total       int64
	TotalPages  int
	CurrentPage int
}

type Service struct {
	Repo repository.JobRepository
	Now  func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListPublished returns published jobs, newest first.
func (s *Service) ListPublished(ctx context.Context, params pagination.Params) (*Page, error) {
	total, err := s.Repo.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	jobs, err := s.Repo.ListPublished(ctx, pagination.CalculateOffset(params.Page, params.Limit), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	for _, j := range jobs {
		fillExcerpt(j)
	}
	return &Page{
		Jobs:        jobs,
		Total:       total,
		TotalPages:  pagination.CalculateTotalPages(total, params.Limit),
		CurrentPage: params.Page,
	}, nil
}

// GetPublished returns a job only when it is published.
func (s *Service) GetPublished(ctx context.Context, id int64) (*entity.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !j.IsPublished() {
		return nil, ErrJobNotFound
	}
	return j, nil
}

// Get returns a job whatever its status.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Job, error) {
	if id <= 0 {
		return nil, ErrInvalidJobID
	}
	j, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	fillExcerpt(j)
	return j, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*entity.Job, error) {
	now := s.now()
	j := &entity.Job{CreatedAt: now, PostedOn: now.Truncate(24 * time.Hour)}
	apply(j, in)
	if err := validate(j); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, j); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return j, nil
}

// Update replaces the editable fields of job id with in.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*entity.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(j, in)
	if err := validate(j); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

func apply(j *entity.Job, in Input) {
	j.Title = strings.TrimSpace(in.Title)
	j.Description = in.Description
	j.Location = strings.TrimSpace(in.Location)
	j.JobType = strings.TrimSpace(in.JobType)
	j.Department = strings.TrimSpace(in.Department)
	j.Experience = strings.TrimSpace(in.Experience)
	j.Salary = strings.TrimSpace(in.Salary)
	j.Positions = strings.TrimSpace(in.Positions)
	j.Responsibilities = in.Responsibilities
	j.Requirements = in.Requirements
	j.Benefits = in.Benefits
	j.Company = entity.Company{
		Name:    strings.TrimSpace(in.Company.Name),
		Website: strings.TrimSpace(in.Company.Website),
		Logo:    strings.TrimSpace(in.Company.Logo),
	}
	j.ApplicationEmail = strings.TrimSpace(in.ApplicationEmail)
	j.ApplicationURL = strings.TrimSpace(in.ApplicationURL)
	j.Status = in.Status
	if j.Status == "" {
		j.Status = entity.StatusDraft
	}
	if !in.PostedOn.IsZero() {
		j.PostedOn = in.PostedOn
	}
	j.Excerpt = ""
	fillExcerpt(j)
}

func validate(j *entity.Job) error {
	var errs entity.FieldErrors
	if j.Title == "" {
		errs.Add("title", "is required")
	}
	if j.Status != entity.StatusPublish && j.Status != entity.StatusDraft {
		errs.Add("status", "must be publish or draft")
	}
	if j.ApplicationEmail != "" {
		if err := entity.ValidateEmail("application_email", j.ApplicationEmail); err != nil {
			errs.Add("application_email", "invalid email address")
		}
	}
	links := []struct{ field, url string }{
		{"application_url", j.ApplicationURL},
		{"company.website", j.Company.Website},
		{"company.logo", j.Company.Logo},
	}
	for _, l := range links {
		if l.url == "" {
			continue
		}
		if err := entity.ValidateLink(l.field, l.url); err != nil {
			errs.Add(l.field, "must be an http or https URL")
		}
	}
	return errs.Err()
}

func fillExcerpt(j *entity.Job) {
	if j.Excerpt == "" {
		j.Excerpt = text.TrimWords(j.Description, ExcerptWords)
	}
}
