package post

import (
	"log/slog"
	"net/http"
	"time"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/observability/logging"
	postUC "tnsystems-site/internal/usecase/post"
)

type ListHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists published posts.
// @Summary      List posts
// @Description  Published posts, newest first, with WordPress collection headers.
// @Tags         posts
// @Produce      json
// @Param        page        query int    false "Page number (1-based)" default(1) minimum(1)
// @Param        per_page    query int    false "Posts per page" default(20) minimum(1) maximum(100)
// @Param        search      query string false "Substring of title, excerpt or content"
// @Param        categories  query string false "Category name"
// @Param        slug        query string false "Exact slug"
// @Param        _embed      query string false "Include _embedded author, media and terms"
// @Success      200 {array} DTO
// @Header       200 {integer} X-WP-Total "Total matching posts"
// @Header       200 {integer} X-WP-TotalPages "Total pages"
// @Failure      400 {object} respond.WPErrorBody
// @Failure      500 {object} map[string]string
// @Router       /wp-json/wp/v2/posts [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", slog.String("error", err.Error()))
		pagination.ObserveFailure("posts", pagination.ReasonInvalid)
		respond.WPError(w, http.StatusBadRequest, "rest_invalid_param", err.Error())
		return
	}

	q := r.URL.Query()
	result, err := h.Svc.List(ctx, postUC.ListQuery{
		Params:   params,
		Search:   q.Get("search"),
		Category: q.Get("categories"),
		Slug:     q.Get("slug"),
	})
	if err != nil {
		logger.Error("failed to list posts",
			slog.Any("error", err),
			slog.Int("page", params.Page),
			slog.Int("per_page", params.Limit))
		pagination.ObserveFailure("posts", pagination.ReasonBackend)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	// WordPress rejects pages past the end.
	if params.Page > 1 && params.Page > result.Pagination.TotalPages {
		respond.WPError(w, http.StatusBadRequest, "rest_post_invalid_page_number",
			"The page number requested is larger than the number of pages available.")
		return
	}

	embed := wantsEmbed(r)
	dtos := make([]DTO, 0, len(result.Data))
	for _, p := range result.Data {
		dtos = append(dtos, toDTO(p, embed))
	}

	duration := time.Since(start)
	pagination.ObserveList("posts", params.Page, result.Pagination.Total, duration)
	logger.Debug("listed posts",
		slog.Int("page", params.Page),
		slog.Int("returned_count", len(dtos)),
		slog.Int64("duration_ms", duration.Milliseconds()))

	result.Pagination.WriteHeaders(w)
	respond.JSON(w, http.StatusOK, dtos)
}
