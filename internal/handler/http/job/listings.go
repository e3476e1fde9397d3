package job

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/observability/logging"
	jobUC "tnsystems-site/internal/usecase/job"
)

// MsgJobNotFound is the body of every 404 on a single listing.
const MsgJobNotFound = "Job not found."

type ListHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists published jobs newest first. Unparsable paging values
// fall back to defaults and per_page is capped silently.
// @Summary      List job openings
// @Tags         jobs
// @Produce      json
// @Param        page     query int false "Page number" default(1)
// @Param        per_page query int false "Jobs per page" default(20) maximum(100)
// @Success      200 {object} ListResponse
// @Failure      500 {object} map[string]string
// @Router       /wp-json/jobs/v1/listings [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.WithRequestID(r.Context(), h.Logger)
	params := pagination.ParseQueryParamsLenient(r, h.PaginationCfg)

	page, err := h.Svc.ListPublished(r.Context(), params)
	if err != nil {
		logger.Error("failed to list jobs", slog.Any("error", err))
		pagination.ObserveFailure("jobs", pagination.ReasonBackend)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := ListResponse{
		Jobs:        make([]DTO, 0, len(page.Jobs)),
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
	for _, j := range page.Jobs {
		resp.Jobs = append(resp.Jobs, toDTO(j, false))
	}

	pagination.ObserveList("jobs", params.Page, page.Total, time.Since(start))
	respond.JSON(w, http.StatusOK, resp)
}

type GetHandler struct{ Svc Service }

// ServeHTTP returns one published job.
// @Summary      Get job opening
// @Tags         jobs
// @Produce      json
// @Param        id path int true "Job ID"
// @Success      200 {object} DTO
// @Failure      404 {object} map[string]string "{\"error\":\"Job not found.\"}"
// @Router       /wp-json/jobs/v1/listings/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		notFound(w)
		return
	}
	j, err := h.Svc.GetPublished(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(j, false))
}

func notFound(w http.ResponseWriter) {
	respond.JSON(w, http.StatusNotFound, map[string]string{"error": MsgJobNotFound})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jobUC.ErrJobNotFound), errors.Is(err, jobUC.ErrInvalidJobID):
		notFound(w)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
