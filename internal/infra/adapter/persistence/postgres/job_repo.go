package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/repository"
)

const jobColumns = `id, title, description, excerpt, location, job_type, department, experience,
       salary, positions, responsibilities, requirements, benefits,
       company_name, company_website, company_logo, application_email, application_url,
       status, posted_on, created_at`

type JobRepo struct{ db repository.DBTX }

func NewJobRepo(db repository.DBTX) repository.JobRepository {
	return &JobRepo{db: db}
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var j entity.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Excerpt, &j.Location, &j.JobType,
		&j.Department, &j.Experience, &j.Salary, &j.Positions, &j.Responsibilities,
		&j.Requirements, &j.Benefits, &j.Company.Name, &j.Company.Website, &j.Company.Logo,
		&j.ApplicationEmail, &j.ApplicationURL, &j.Status, &j.PostedOn, &j.CreatedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

func (repo *JobRepo) ListPublished(ctx context.Context, offset, limit int) ([]*entity.Job, error) {
	query := `
SELECT ` + jobColumns + `
FROM jobs
WHERE status = 'publish'
ORDER BY posted_on DESC, id DESC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPublished: %w", err)
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]*entity.Job, 0, limit)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPublished: Scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (repo *JobRepo) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'publish'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountPublished: %w", err)
	}
	return count, nil
}

func (repo *JobRepo) Get(ctx context.Context, id int64) (*entity.Job, error) {
	query := `
SELECT ` + jobColumns + `
FROM jobs
WHERE id = $1
LIMIT 1`
	j, err := scanJob(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return j, nil
}

func (repo *JobRepo) Create(ctx context.Context, job *entity.Job) error {
	const query = `
INSERT INTO jobs (title, description, excerpt, location, job_type, department, experience,
    salary, positions, responsibilities, requirements, benefits,
    company_name, company_website, company_logo, application_email, application_url,
    status, posted_on, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		job.Title, job.Description, job.Excerpt, job.Location, job.JobType, job.Department,
		job.Experience, job.Salary, job.Positions, job.Responsibilities, job.Requirements,
		job.Benefits, job.Company.Name, job.Company.Website, job.Company.Logo,
		job.ApplicationEmail, job.ApplicationURL, job.Status, job.PostedOn, job.CreatedAt,
	).Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *JobRepo) Update(ctx context.Context, job *entity.Job) error {
	const query = `
UPDATE jobs
SET title = $1, description = $2, excerpt = $3, location = $4, job_type = $5, department = $6,
    experience = $7, salary = $8, positions = $9, responsibilities = $10, requirements = $11,
    benefits = $12, company_name = $13, company_website = $14, company_logo = $15,
    application_email = $16, application_url = $17, status = $18, posted_on = $19
WHERE id = $20`
	res, err := repo.db.ExecContext(ctx, query,
		job.Title, job.Description, job.Excerpt, job.Location, job.JobType, job.Department,
		job.Experience, job.Salary, job.Positions, job.Responsibilities, job.Requirements,
		job.Benefits, job.Company.Name, job.Company.Website, job.Company.Logo,
		job.ApplicationEmail, job.ApplicationURL, job.Status, job.PostedOn, job.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return expectOneRow(res, "Update")
}

func (repo *JobRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return expectOneRow(res, "Delete")
}
