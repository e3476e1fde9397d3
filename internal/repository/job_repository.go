package repository

import (
	"context"

	"tnsystems-site/internal/domain/entity"
)

type JobRepository interface {
	// ListPublished returns published jobs, newest posted_on first.
	ListPublished(ctx context.Context, offset, limit int) ([]*entity.Job, error)
	CountPublished(ctx context.Context) (int64, error)
	// Get returns (nil, nil) when no job has the id, whatever its status.
	Get(ctx context.Context, id int64) (*entity.Job, error)
	Create(ctx context.Context, job *entity.Job) error
	Update(ctx context.Context, job *entity.Job) error
	Delete(ctx context.Context, id int64) error
}
