package cmsclient

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tnsystems-site/internal/domain/entity"
)

// postedOnLayout is the date format of the job "posted_on" field.
const postedOnLayout = "2006-01-02"

// MaxJobsPerPage is the largest per_page the jobs endpoint honours.
const MaxJobsPerPage = 100

// JobList is one page of the job listings endpoint.
type JobList struct {
	Jobs        []entity.Job
	Total       int
	TotalPages  int
	CurrentPage int
}

type companySchema struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

// jobSchema mirrors the job JSON shape. Only id and title are mandatory.
type jobSchema struct {
	ID               int64         `json:"id" validate:"required,gt=0"`
	Title            string        `json:"title" validate:"required"`
	Description      string        `json:"description"`
	Excerpt          string        `json:"excerpt"`
	Location         string        `json:"location"`
	JobType          string        `json:"job_type"`
	Department       string        `json:"department"`
	Experience       string        `json:"experience"`
	Salary           string        `json:"salary"`
	Positions        string        `json:"positions"`
	Responsibilities string        `json:"responsibilities"`
	Requirements     string        `json:"requirements"`
	Benefits         string        `json:"benefits"`
	Company          companySchema `json:"company"`
	ApplicationEmail string        `json:"application_email" validate:"omitempty,email"`
	ApplicationURL   string        `json:"application_url" validate:"omitempty,url"`
	Permalink        string        `json:"permalink"`
	PostedOn         string        `json:"posted_on" validate:"omitempty,datetime=2006-01-02"`
}

type jobListSchema struct {
	Jobs        []jobSchema `json:"jobs" validate:"unique=ID,dive"`
	Total       int         `json:"total" validate:"gte=0"`
	TotalPages  int         `json:"total_pages" validate:"gte=0"`
	CurrentPage int         `json:"current_page"`
}

// ListJobs fetches one page of published jobs, newest first.
func (c *Client) ListJobs(ctx context.Context, page, perPage int) (JobList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(min(perPage, MaxJobsPerPage)))
	}
	endpoint := withQuery(c.cfg.JobsAPIURL, q)

	res, err := c.get(ctx, endpoint)
	if err != nil {
		return JobList{}, err
	}

	var raw jobListSchema
	if err := json.Unmarshal(res.body, &raw); err != nil {
		return JobList{}, &ParseError{URL: endpoint, Err: err}
	}
	if err := c.validate.Struct(raw); err != nil {
		return JobList{}, &ParseError{URL: endpoint, Err: err}
	}

	list := JobList{
		Jobs:        make([]entity.Job, 0, len(raw.Jobs)),
		Total:       raw.Total,
		TotalPages:  raw.TotalPages,
		CurrentPage: raw.CurrentPage,
	}
	for _, j := range raw.Jobs {
		list.Jobs = append(list.Jobs, j.toEntity())
	}
	return list, nil
}

// Job fetches a single published job. A missing or unpublished job yields
// an HTTPError matching ErrNotFound.
func (c *Client) Job(ctx context.Context, id int64) (entity.Job, error) {
	endpoint, err := joinURL(c.cfg.JobsAPIURL, strconv.FormatInt(id, 10))
	if err != nil {
		return entity.Job{}, err
	}

	res, err := c.get(ctx, endpoint)
	if err != nil {
		return entity.Job{}, err
	}

	var raw jobSchema
	if err := json.Unmarshal(res.body, &raw); err != nil {
		return entity.Job{}, &ParseError{URL: endpoint, Err: err}
	}
	if err := c.validate.Struct(raw); err != nil {
		return entity.Job{}, &ParseError{URL: endpoint, Err: err}
	}
	return raw.toEntity(), nil
}

func (j jobSchema) toEntity() entity.Job {
	posted, _ := time.Parse(postedOnLayout, j.PostedOn)
	return entity.Job{
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
		Company: entity.Company{
			Name:    j.Company.Name,
			Website: j.Company.Website,
			Logo:    j.Company.Logo,
		},
		ApplicationEmail: j.ApplicationEmail,
		ApplicationURL:   j.ApplicationURL,
		Permalink:        j.Permalink,
		Status:           entity.StatusPublish,
		PostedOn:         posted,
	}
}

// applyURL derives the application endpoint from the listings URL:
// .../jobs/v1/listings -> .../jobs/v1/apply_job/{id}
func (c *Client) applyURL(jobID int64) (string, error) {
	base := strings.TrimSuffix(strings.TrimRight(c.cfg.JobsAPIURL, "/"), "/listings")
	return joinURL(base, "apply_job", strconv.FormatInt(jobID, 10))
}
