// Package job serves the careers endpoints under /wp-json/jobs/v1: public
// listings and admin management of openings and their applications.
package job

import (
	"context"
	"time"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/domain/entity"
	jobUC "tnsystems-site/internal/usecase/job"
)

// PostedOnLayout is the format of posted_on.
const PostedOnLayout = "2006-01-02"

// Service is the job use case as the handlers need it.
type Service interface {
	ListPublished(ctx context.Context, params pagination.Params) (*jobUC.Page, error)
	GetPublished(ctx context.Context, id int64) (*entity.Job, error)
	Create(ctx context.Context, in jobUC.Input) (*entity.Job, error)
	Update(ctx context.Context, id int64, in jobUC.Input) (*entity.Job, error)
	Delete(ctx context.Context, id int64) error
}

// ApplicationLister lists stored applications for the admin view.
type ApplicationLister interface {
	List(ctx context.Context, jobID int64) ([]*entity.Application, error)
}

type CompanyDTO struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

// DTO is a job opening as the careers pages consume it.
type DTO struct {
	ID               int64      `json:"id" example:"12"`
	Title            string     `json:"title" example:"Backend Engineer"`
	Description      string     `json:"description"`
	Excerpt          string     `json:"excerpt"`
	Location         string     `json:"location" example:"Tokyo"`
	JobType          string     `json:"job_type" example:"Full Time"`
	Department       string     `json:"department" example:"Engineering"`
	Experience       string     `json:"experience"`
	Salary           string     `json:"salary"`
	Positions        string     `json:"positions"`
	Responsibilities string     `json:"responsibilities"`
	Requirements     string     `json:"requirements"`
	Benefits         string     `json:"benefits"`
	Company          CompanyDTO `json:"company"`
	ApplicationEmail string     `json:"application_email"`
	ApplicationURL   string     `json:"application_url"`
	Permalink        string     `json:"permalink"`
	Status           string     `json:"status,omitempty"`
	PostedOn         string     `json:"posted_on" example:"2025-03-01"`
}

// ListResponse is the body of GET /listings.
type ListResponse struct {
	Jobs        []DTO `json:"jobs"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
}

func toDTO(j *entity.Job, withStatus bool) DTO {
	d := DTO{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		Excerpt:          j.Excerpt,
		Location:         j.Location,
		JobType:          j.JobType,
		Department:       j.Department,
		Experience:       j.Experience,
		Salary:           j.Salary,
		Positions:        j.Positions,
		Responsibilities: j.Responsibilities,
		Requirements:     j.Requirements,
		Benefits:         j.Benefits,
		Company:          CompanyDTO{Name: j.Company.Name, Website: j.Company.Website, Logo: j.Company.Logo},
		ApplicationEmail: j.ApplicationEmail,
		ApplicationURL:   j.ApplicationURL,
		Permalink:        j.Permalink,
	}
	if !j.PostedOn.IsZero() {
		d.PostedOn = j.PostedOn.Format(PostedOnLayout)
	}
	if withStatus {
		d.Status = j.Status
	}
	return d
}

// ApplicationDTO is an application in the admin listing.
type ApplicationDTO struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	JobTitle    string    `json:"job_title"`
	Reference   string    `json:"reference"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CoverLetter string    `json:"cover_letter"`
	ResumeURL   string    `json:"resume_url"`
	ApplicantIP string    `json:"applicant_ip"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func toApplicationDTO(a *entity.Application) ApplicationDTO {
	return ApplicationDTO{
		ID:          a.ID,
		JobID:       a.JobID,
		JobTitle:    a.JobTitle,
		Reference:   a.Reference,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		CoverLetter: a.CoverLetter,
		ResumeURL:   a.ResumeURL,
		ApplicantIP: a.ApplicantIP,
		Status:      a.Status,
		SubmittedAt: a.SubmittedAt,
	}
}
