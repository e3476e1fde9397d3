package entity

import "time"

// Company describes the hiring company attached to a job opening.
type Company struct {
	Name    string
	Website string
	Logo    string
}

// Job represents a job opening listed on the careers page.
// Description, Responsibilities, Requirements and Benefits hold HTML.
type Job struct {
	ID               int64
	Title            string
	Description      string
	Excerpt          string
	Location         string
	JobType          string
	Department       string
	Experience       string
	Salary           string
	Positions        string
	Responsibilities string
	Requirements     string
	Benefits         string
	Company          Company
	ApplicationEmail string
	ApplicationURL   string
	Permalink        string
	Status           string
	PostedOn         time.Time
	CreatedAt        time.Time
}

// IsPublished reports whether applicants may see and apply to the job.
func (j *Job) IsPublished() bool {
	return j.Status == StatusPublish
}
