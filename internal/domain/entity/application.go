package entity

import "time"

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
)

// Application is a candidate's submission against a published job.
type Application struct {
	ID          int64
	JobID       int64
	JobTitle    string
	Reference   string
	Name        string
	Email       string
	Phone       string
	CoverLetter string
	ResumeURL   string
	ApplicantIP string
	Status      string
	SubmittedAt time.Time
}
