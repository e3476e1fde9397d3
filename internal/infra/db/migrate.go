package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
    id          SERIAL PRIMARY KEY,
    slug        TEXT NOT NULL UNIQUE,
    title       TEXT NOT NULL,
    excerpt     TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL DEFAULT '',
    author      TEXT NOT NULL DEFAULT '',
    categories  TEXT[] NOT NULL DEFAULT '{}',
    media_url   TEXT NOT NULL DEFAULT '',
    link        TEXT NOT NULL DEFAULT '',
    status      VARCHAR(20) NOT NULL DEFAULT 'publish',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS jobs (
    id                SERIAL PRIMARY KEY,
    title             TEXT NOT NULL,
    description       TEXT NOT NULL DEFAULT '',
    excerpt           TEXT NOT NULL DEFAULT '',
    location          TEXT NOT NULL DEFAULT '',
    job_type          TEXT NOT NULL DEFAULT '',
    department        TEXT NOT NULL DEFAULT '',
    experience        TEXT NOT NULL DEFAULT '',
    salary            TEXT NOT NULL DEFAULT '',
    positions         TEXT NOT NULL DEFAULT '',
    responsibilities  TEXT NOT NULL DEFAULT '',
    requirements      TEXT NOT NULL DEFAULT '',
    benefits          TEXT NOT NULL DEFAULT '',
    company_name      TEXT NOT NULL DEFAULT '',
    company_website   TEXT NOT NULL DEFAULT '',
    company_logo      TEXT NOT NULL DEFAULT '',
    application_email TEXT NOT NULL DEFAULT '',
    application_url   TEXT NOT NULL DEFAULT '',
    status            VARCHAR(20) NOT NULL DEFAULT 'draft',
    posted_on         DATE NOT NULL DEFAULT CURRENT_DATE,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS job_applications (
    id           SERIAL PRIMARY KEY,
    job_id       INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
    reference    TEXT NOT NULL UNIQUE,
    name         TEXT NOT NULL,
    email        TEXT NOT NULL,
    phone        TEXT NOT NULL DEFAULT '',
    cover_letter TEXT NOT NULL DEFAULT '',
    resume_url   TEXT NOT NULL DEFAULT '',
    applicant_ip TEXT NOT NULL DEFAULT '',
    status       VARCHAR(20) NOT NULL DEFAULT 'pending',
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (
    id           SERIAL PRIMARY KEY,
    form_id      INTEGER NOT NULL,
    reference    TEXT NOT NULL UNIQUE,
    fields       JSONB NOT NULL,
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_categories ON posts USING gin(categories)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status_posted_on ON jobs(status, posted_on DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_job_applications_job_id ON job_applications(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_submissions_form_id ON contact_submissions(form_id, submitted_at DESC)`,
}

// Search falls back to sequential scans without pg_trgm, which managed
// databases sometimes refuse to install for non-superusers.
var optional = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_posts_title_gin ON posts USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_content_gin ON posts USING gin(content gin_trgm_ops)`,
}

// MigrateUp creates the tables and indexes in one transaction, then tries
// the trigram extras one by one. Running it again is a no-op.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range slices.Concat(schema, indexes) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %q: %w", firstLine(stmt), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	for _, stmt := range optional {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.Warn("optional migration skipped", slog.String("statement", firstLine(stmt)), slog.Any("error", err))
		}
	}
	return nil
}

// MigrateDown drops every table, dependants first. All data is lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"contact_submissions", "job_applications", "jobs", "posts"} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return strings.TrimSpace(strings.TrimSuffix(line, "("))
}
