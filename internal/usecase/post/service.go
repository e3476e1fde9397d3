package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/repository"
	"tnsystems-site/internal/utils/text"
)

// ExcerptWords is the length of an excerpt derived from content.
const ExcerptWords = 55

// CreateInput holds the fields of a new post. Slug and Excerpt are derived
// when empty; Status defaults to publish.
type CreateInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	Author     string
	Categories []string
	MediaURL   string
	Link       string
	Status     string
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	ID         int64
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    *string
	Author     *string
	Categories []string
	MediaURL   *string
	Link       *string
	Status     *string
}

// ListQuery selects a page of posts.
type ListQuery struct {
	Params        pagination.Params
	Search        string
	Category      string
	Slug          string
	IncludeDrafts bool
}

// PaginatedResult is one page of posts with totals.
type PaginatedResult struct {
	Data       []*entity.Post
	Pagination pagination.Metadata
}

type Service struct {
	Repo repository.PostRepository
	// Now is overridable in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns one page of posts, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (*PaginatedResult, error) {
	filter := repository.PostFilter{
		Search:        strings.TrimSpace(q.Search),
		Category:      strings.TrimSpace(q.Category),
		Slug:          strings.TrimSpace(q.Slug),
		PublishedOnly: !q.IncludeDrafts,
	}

	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	offset := pagination.CalculateOffset(q.Params.Page, q.Params.Limit)
	posts, err := s.Repo.List(ctx, filter, offset, q.Params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &PaginatedResult{
		Data: posts,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       q.Params.Page,
			Limit:      q.Params.Limit,
			TotalPages: pagination.CalculateTotalPages(total, q.Params.Limit),
		},
	}, nil
}

// Get returns a post by ID. Drafts are reported as not found unless includeDrafts.
func (s *Service) Get(ctx context.Context, id int64, includeDrafts bool) (*entity.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidPostID
	}
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil || (!includeDrafts && !p.IsPublished()) {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// Create validates in and stores a new post.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Post, error) {
	now := s.now()
	p := &entity.Post{
		Title:      strings.TrimSpace(in.Title),
		Slug:       strings.TrimSpace(in.Slug),
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		Author:     strings.TrimSpace(in.Author),
		Categories: cleanCategories(in.Categories),
		MediaURL:   strings.TrimSpace(in.MediaURL),
		Link:       strings.TrimSpace(in.Link),
		Status:     in.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.prepare(ctx, p, 0); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of in to an existing post.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Post, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidPostID
	}
	p, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Author != nil {
		p.Author = strings.TrimSpace(*in.Author)
	}
	if in.Categories != nil {
		p.Categories = cleanCategories(in.Categories)
	}
	if in.MediaURL != nil {
		p.MediaURL = strings.TrimSpace(*in.MediaURL)
	}
	if in.Link != nil {
		p.Link = strings.TrimSpace(*in.Link)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	p.UpdatedAt = s.now()

	if err := s.prepare(ctx, p, p.ID); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidPostID
	}
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return ErrPostNotFound
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// prepare fills derived fields, validates p and checks that its slug is free.
// selfID is the ID of the post being updated, 0 on create.
func (s *Service) prepare(ctx context.Context, p *entity.Post, selfID int64) error {
	if p.Slug == "" {
		p.Slug = entity.Slugify(p.Title)
	}
	if strings.TrimSpace(p.Excerpt) == "" {
		p.Excerpt = text.TrimWords(p.Content, ExcerptWords)
	}
	if p.Status == "" {
		p.Status = entity.StatusPublish
	}

	var errs entity.FieldErrors
	if p.Title == "" {
		errs.Add("title", "is required")
	}
	if err := entity.ValidateSlug(p.Slug); err != nil {
		errs.Add("slug", "must contain only lowercase letters, digits and single hyphens")
	}
	if p.MediaURL != "" {
		if err := entity.ValidateLink("media_url", p.MediaURL); err != nil {
			errs.Add("media_url", "must be an http or https URL")
		}
	}
	if p.Link != "" {
		if err := entity.ValidateLink("link", p.Link); err != nil {
			errs.Add("link", "must be an http or https URL")
		}
	}
	if p.Status != entity.StatusPublish && p.Status != entity.StatusDraft {
		errs.Add("status", "must be publish or draft")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	existing, err := s.Repo.List(ctx, repository.PostFilter{Slug: p.Slug}, 0, 1)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if len(existing) > 0 && existing[0].ID != selfID {
		return ErrDuplicateSlug
	}
	return nil
}

func cleanCategories(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
