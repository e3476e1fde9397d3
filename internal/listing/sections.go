package listing

import (
	"log/slog"

	"tnsystems-site/internal/domain/entity"
)

// PostFields is what the blog search box matches against: the stored title
// and excerpt, markup and entities included.
func PostFields(p entity.Post) []string {
	return []string{p.Title, p.Excerpt}
}

// PostCategories feeds the blog category chips.
func PostCategories(p entity.Post) []string {
	return p.Categories
}

// JobFields mirrors the careers page search: title, description, location
// and department.
func JobFields(j entity.Job) []string {
	return []string{j.Title, j.Description, j.Location, j.Department}
}

// NewBlog returns the blog collection.
func NewBlog(src Source[entity.Post], pageSize int, logger *slog.Logger) *Collection[entity.Post] {
	return New(src, Config[entity.Post]{
		Name:       "blog",
		PageSize:   pageSize,
		Fields:     PostFields,
		Categories: PostCategories,
		Messages: Messages{
			ErrorTitle: "Failed to load posts",
			EmptyTitle: "No posts yet",
			Empty:      "Check back soon for new articles!",
		},
		Logger: logger,
	})
}

// NewCareers returns the careers collection.
func NewCareers(src Source[entity.Job], pageSize int, logger *slog.Logger) *Collection[entity.Job] {
	return New(src, Config[entity.Job]{
		Name:     "careers",
		PageSize: pageSize,
		Fields:   JobFields,
		Messages: Messages{
			ErrorTitle: "Failed to load jobs",
			EmptyTitle: "No openings at the moment",
			Empty:      "Check back soon for new opportunities!",
		},
		Logger: logger,
	})
}
