package repository

import (
	"context"

	"tnsystems-site/internal/domain/entity"
)

// PostFilter narrows a post listing. Empty fields do not filter.
type PostFilter struct {
	Search   string // ILIKE over title, excerpt and content
	Category string // exact category name
	Slug     string
	// PublishedOnly hides drafts (public endpoints).
	PublishedOnly bool
}

type PostRepository interface {
	// List returns posts newest first.
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]*entity.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	// Get returns (nil, nil) when no post has the id.
	Get(ctx context.Context, id int64) (*entity.Post, error)
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id int64) error
	// ExistsBySlugBatch reports which of the slugs are already stored.
	ExistsBySlugBatch(ctx context.Context, slugs []string) (map[string]bool, error)
}
