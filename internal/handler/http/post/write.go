package post

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tnsystems-site/internal/handler/http/auth"
	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/observability/logging"
	postUC "tnsystems-site/internal/usecase/post"
)

// writeRequest is the body of create and update. Absent fields are left
// unchanged on update.
type writeRequest struct {
	Title      *string  `json:"title" example:"Cloud migration checklist"`
	Slug       *string  `json:"slug" example:"cloud-migration-checklist"`
	Excerpt    *string  `json:"excerpt"`
	Content    *string  `json:"content" example:"<p>Plan the cut-over first.</p>"`
	Author     *string  `json:"author"`
	Categories []string `json:"categories" example:"Cloud,Guides"`
	MediaURL   *string  `json:"media_url"`
	Link       *string  `json:"link"`
	Status     *string  `json:"status" example:"publish"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decode(w http.ResponseWriter, r *http.Request) (writeRequest, bool) {
	var req writeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.WPError(w, http.StatusBadRequest, "rest_invalid_json", "Invalid JSON body passed.")
		return req, false
	}
	return req, true
}

type CreateHandler struct {
	Svc    Service
	Logger *slog.Logger
}

// ServeHTTP creates a post. The author defaults to the signed-in user.
// @Summary      Create post
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        post body writeRequest true "Post"
// @Success      201 {object} DTO
// @Failure      400 {object} respond.WPErrorBody
// @Failure      401 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      409 {object} respond.WPErrorBody
// @Router       /wp-json/wp/v2/posts [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	author := deref(req.Author)
	if author == "" {
		author, _, _ = auth.UserFromContext(r.Context())
	}

	p, err := h.Svc.Create(r.Context(), postUC.CreateInput{
		Title:      deref(req.Title),
		Slug:       deref(req.Slug),
		Excerpt:    deref(req.Excerpt),
		Content:    deref(req.Content),
		Author:     author,
		Categories: req.Categories,
		MediaURL:   deref(req.MediaURL),
		Link:       deref(req.Link),
		Status:     deref(req.Status),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	logging.WithRequestID(r.Context(), h.Logger).Info("post created",
		slog.Int64("post_id", p.ID),
		slog.String("slug", p.Slug))
	respond.JSON(w, http.StatusCreated, toDTO(p, true))
}

type UpdateHandler struct {
	Svc    Service
	Logger *slog.Logger
}

// ServeHTTP updates the fields present in the body.
// @Summary      Update post
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path int          true "Post ID"
// @Param        post body writeRequest true "Fields to change"
// @Success      200 {object} DTO
// @Failure      400 {object} respond.WPErrorBody
// @Failure      404 {object} respond.WPErrorBody
// @Router       /wp-json/wp/v2/posts/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.WPError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
		return
	}
	req, ok := decode(w, r)
	if !ok {
		return
	}
	p, err := h.Svc.Update(r.Context(), postUC.UpdateInput{
		ID:         id,
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Author:     req.Author,
		Categories: req.Categories,
		MediaURL:   req.MediaURL,
		Link:       req.Link,
		Status:     req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	logging.WithRequestID(r.Context(), h.Logger).Info("post updated", slog.Int64("post_id", p.ID))
	respond.JSON(w, http.StatusOK, toDTO(p, true))
}

type DeleteHandler struct {
	Svc    Service
	Logger *slog.Logger
}

// ServeHTTP deletes a post permanently.
// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Post ID"
// @Success      200 {object} map[string]any
// @Failure      404 {object} respond.WPErrorBody
// @Router       /wp-json/wp/v2/posts/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.WPError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	logging.WithRequestID(r.Context(), h.Logger).Info("post deleted", slog.Int64("post_id", id))
	respond.JSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}
