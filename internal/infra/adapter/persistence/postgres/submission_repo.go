package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/repository"
)

type ApplicationRepo struct{ db repository.DBTX }

func NewApplicationRepo(db repository.DBTX) repository.ApplicationRepository {
	return &ApplicationRepo{db: db}
}

func (repo *ApplicationRepo) Create(ctx context.Context, app *entity.Application) error {
	const query = `
INSERT INTO job_applications (job_id, reference, name, email, phone, cover_letter,
    resume_url, applicant_ip, status, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		app.JobID, app.Reference, app.Name, app.Email, app.Phone, app.CoverLetter,
		app.ResumeURL, app.ApplicantIP, app.Status, app.SubmittedAt,
	).Scan(&app.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]*entity.Application, error) {
	const query = `
SELECT a.id, a.job_id, j.title, a.reference, a.name, a.email, a.phone, a.cover_letter,
       a.resume_url, a.applicant_ip, a.status, a.submitted_at
FROM job_applications a
INNER JOIN jobs j ON a.job_id = j.id
WHERE $1 = 0 OR a.job_id = $1
ORDER BY a.submitted_at DESC`
	rows, err := repo.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("ListByJob: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var apps []*entity.Application
	for rows.Next() {
		var a entity.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.Reference, &a.Name, &a.Email,
			&a.Phone, &a.CoverLetter, &a.ResumeURL, &a.ApplicantIP, &a.Status, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("ListByJob: Scan: %w", err)
		}
		apps = append(apps, &a)
	}
	return apps, rows.Err()
}

type ContactRepo struct{ db repository.DBTX }

func NewContactRepo(db repository.DBTX) repository.ContactRepository {
	return &ContactRepo{db: db}
}

func (repo *ContactRepo) Create(ctx context.Context, sub *entity.ContactSubmission) error {
	fields, err := json.Marshal(sub.Fields)
	if err != nil {
		return fmt.Errorf("Create: marshal fields: %w", err)
	}
	const query = `
INSERT INTO contact_submissions (form_id, reference, fields, submitted_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query,
		sub.FormID, sub.Reference, fields, sub.SubmittedAt,
	).Scan(&sub.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ContactRepo) List(ctx context.Context, formID int64, limit int) ([]*entity.ContactSubmission, error) {
	const query = `
SELECT id, form_id, reference, fields, submitted_at
FROM contact_submissions
WHERE $1 = 0 OR form_id = $1
ORDER BY submitted_at DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, formID, limit)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	subs := make([]*entity.ContactSubmission, 0, limit)
	for rows.Next() {
		var s entity.ContactSubmission
		var raw []byte
		if err := rows.Scan(&s.ID, &s.FormID, &s.Reference, &raw, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &s.Fields); err != nil {
				return nil, fmt.Errorf("List: unmarshal fields: %w", err)
			}
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}
