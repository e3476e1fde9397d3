package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/repository"
)

// Text arrays are bound and scanned as unit-separator joined strings.
const arraySep = "\x1f"

const postColumns = `id, slug, title, excerpt, content, author,
       array_to_string(categories, E'\x1f'), media_url, link, status, created_at, updated_at`

type PostRepo struct {
	db           repository.DBTX
	queryBuilder *PostQueryBuilder
}

func NewPostRepo(db repository.DBTX) repository.PostRepository {
	return &PostRepo{
		db:           db,
		queryBuilder: NewPostQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*entity.Post, error) {
	var p entity.Post
	var categories string
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Author,
		&categories, &p.MediaURL, &p.Link, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Categories = splitArray(categories)
	return &p, nil
}

func splitArray(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, arraySep)
}

func (repo *PostRepo) List(ctx context.Context, filter repository.PostFilter, offset, limit int) ([]*entity.Post, error) {
	where, args := repo.queryBuilder.BuildWhereClause(filter)
	query := fmt.Sprintf(`
SELECT %s
FROM posts
%s
ORDER BY created_at DESC, id DESC
LIMIT $%d OFFSET $%d`, postColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*entity.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (repo *PostRepo) Count(ctx context.Context, filter repository.PostFilter) (int64, error) {
	where, args := repo.queryBuilder.BuildWhereClause(filter)
	query := "SELECT COUNT(*) FROM posts " + where
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *PostRepo) Get(ctx context.Context, id int64) (*entity.Post, error) {
	query := `
SELECT ` + postColumns + `
FROM posts
WHERE id = $1
LIMIT 1`
	p, err := scanPost(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return p, nil
}

func (repo *PostRepo) Create(ctx context.Context, post *entity.Post) error {
	const query = `
INSERT INTO posts (slug, title, excerpt, content, author, categories, media_url, link, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, string_to_array($6, E'\x1f'), $7, $8, $9, $10, $11)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		post.Slug, post.Title, post.Excerpt, post.Content, post.Author,
		strings.Join(post.Categories, arraySep), post.MediaURL, post.Link, post.Status,
		post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *PostRepo) Update(ctx context.Context, post *entity.Post) error {
	const query = `
UPDATE posts
SET slug = $1, title = $2, excerpt = $3, content = $4, author = $5,
    categories = string_to_array($6, E'\x1f'), media_url = $7, link = $8, status = $9, updated_at = $10
WHERE id = $11`
	res, err := repo.db.ExecContext(ctx, query,
		post.Slug, post.Title, post.Excerpt, post.Content, post.Author,
		strings.Join(post.Categories, arraySep), post.MediaURL, post.Link, post.Status,
		post.UpdatedAt, post.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return expectOneRow(res, "Update")
}

func (repo *PostRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return expectOneRow(res, "Delete")
}

// ExistsBySlugBatch checks all slugs in one round trip.
func (repo *PostRepo) ExistsBySlugBatch(ctx context.Context, slugs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(slugs))
	if len(slugs) == 0 {
		return result, nil
	}
	for _, s := range slugs {
		result[s] = false
	}

	const query = `SELECT slug FROM posts WHERE slug = ANY(string_to_array($1, E'\x1f'))`
	rows, err := repo.db.QueryContext(ctx, query, strings.Join(slugs, arraySep))
	if err != nil {
		return nil, fmt.Errorf("ExistsBySlugBatch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("ExistsBySlugBatch: Scan: %w", err)
		}
		result[slug] = true
	}
	return result, rows.Err()
}

// expectOneRow maps "no row affected" to entity.ErrNotFound.
func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}
