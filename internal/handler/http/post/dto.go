// Package post serves blog posts in the shape of the WordPress REST API
// (wp/v2/posts), including the _embedded author, featured media and terms.
package post

import (
	"context"
	"errors"
	"net/http"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/respond"
	postUC "tnsystems-site/internal/usecase/post"
)

// DateLayout is the WordPress "date" format: local time without zone.
const DateLayout = "2006-01-02T15:04:05"

// Service is the post use case as the handlers need it.
type Service interface {
	List(ctx context.Context, q postUC.ListQuery) (*postUC.PaginatedResult, error)
	Get(ctx context.Context, id int64, includeDrafts bool) (*entity.Post, error)
	Create(ctx context.Context, in postUC.CreateInput) (*entity.Post, error)
	Update(ctx context.Context, in postUC.UpdateInput) (*entity.Post, error)
	Delete(ctx context.Context, id int64) error
}

type Rendered struct {
	Rendered string `json:"rendered"`
}

type Author struct {
	Name string `json:"name"`
}

type Media struct {
	SourceURL string `json:"source_url"`
}

type Term struct {
	Name     string `json:"name"`
	Taxonomy string `json:"taxonomy"`
}

// Embedded holds the _embed expansions the site reads.
type Embedded struct {
	Author        []Author `json:"author,omitempty"`
	FeaturedMedia []Media  `json:"wp:featuredmedia,omitempty"`
	Term          [][]Term `json:"wp:term,omitempty"`
}

// DTO is a post as WordPress serialises it.
type DTO struct {
	ID       int64     `json:"id" example:"42"`
	Date     string    `json:"date" example:"2025-03-01T09:30:00"`
	DateGMT  string    `json:"date_gmt"`
	Modified string    `json:"modified"`
	Slug     string    `json:"slug" example:"cloud-migration-checklist"`
	Status   string    `json:"status" example:"publish"`
	Link     string    `json:"link,omitempty"`
	Title    Rendered  `json:"title"`
	Excerpt  Rendered  `json:"excerpt"`
	Content  Rendered  `json:"content"`
	Embedded *Embedded `json:"_embedded,omitempty"`
}

func toDTO(p *entity.Post, embed bool) DTO {
	d := DTO{
		ID:       p.ID,
		Date:     p.CreatedAt.Format(DateLayout),
		DateGMT:  p.CreatedAt.UTC().Format(DateLayout),
		Modified: p.UpdatedAt.Format(DateLayout),
		Slug:     p.Slug,
		Status:   p.Status,
		Link:     p.Link,
		Title:    Rendered{p.Title},
		Excerpt:  Rendered{p.Excerpt},
		Content:  Rendered{p.Content},
	}
	if p.UpdatedAt.IsZero() {
		d.Modified = d.Date
	}
	if !embed {
		return d
	}
	e := &Embedded{}
	if p.Author != "" {
		e.Author = []Author{{Name: p.Author}}
	}
	if p.MediaURL != "" {
		e.FeaturedMedia = []Media{{SourceURL: p.MediaURL}}
	}
	if len(p.Categories) > 0 {
		terms := make([]Term, 0, len(p.Categories))
		for _, c := range p.Categories {
			terms = append(terms, Term{Name: c, Taxonomy: "category"})
		}
		e.Term = [][]Term{terms}
	}
	d.Embedded = e
	return d
}

// wantsEmbed reports whether the client asked for _embedded.
func wantsEmbed(r *http.Request) bool {
	return r.URL.Query().Has("_embed")
}

// writeError maps use case errors to WordPress error responses.
func writeError(w http.ResponseWriter, err error) {
	var fields entity.FieldErrors
	switch {
	case errors.Is(err, postUC.ErrInvalidPostID), errors.Is(err, postUC.ErrPostNotFound):
		respond.WPError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
	case errors.Is(err, postUC.ErrDuplicateSlug):
		respond.WPError(w, http.StatusConflict, "rest_post_slug_exists", "A post with this slug already exists.")
	case errors.As(err, &fields):
		respond.JSON(w, http.StatusBadRequest, map[string]any{
			"code":           "rest_invalid_param",
			"message":        fields[0].Field + " " + fields[0].Message,
			"data":           map[string]int{"status": http.StatusBadRequest},
			"invalid_fields": fieldList(fields),
		})
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldList(fe entity.FieldErrors) []fieldError {
	out := make([]fieldError, 0, len(fe))
	for _, e := range fe {
		out = append(out, fieldError{Field: e.Field, Message: e.Message})
	}
	return out
}
