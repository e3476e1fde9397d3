package post

import (
	"net/http"

	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/respond"
)

type GetHandler struct{ Svc Service }

// ServeHTTP returns one published post.
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id     path  int    true  "Post ID"
// @Param        _embed query string false "Include _embedded author, media and terms"
// @Success      200 {object} DTO
// @Failure      404 {object} respond.WPErrorBody
// @Router       /wp-json/wp/v2/posts/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.WPError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
		return
	}
	p, err := h.Svc.Get(r.Context(), id, false)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(p, wantsEmbed(r)))
}
