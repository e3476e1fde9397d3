package job

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/observability/logging"
	jobUC "tnsystems-site/internal/usecase/job"
)

// writeRequest is the full editable job. PUT replaces every field.
type writeRequest struct {
	Title            string     `json:"title" example:"Backend Engineer"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	JobType          string     `json:"job_type"`
	Department       string     `json:"department"`
	Experience       string     `json:"experience"`
	Salary           string     `json:"salary"`
	Positions        string     `json:"positions"`
	Responsibilities string     `json:"responsibilities"`
	Requirements     string     `json:"requirements"`
	Benefits         string     `json:"benefits"`
	Company          CompanyDTO `json:"company"`
	ApplicationEmail string     `json:"application_email"`
	ApplicationURL   string     `json:"application_url"`
	Status           string     `json:"status" example:"publish"`
	PostedOn         string     `json:"posted_on" example:"2025-03-01"`
}

func (req writeRequest) input() (jobUC.Input, error) {
	in := jobUC.Input{
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		JobType:          req.JobType,
		Department:       req.Department,
		Experience:       req.Experience,
		Salary:           req.Salary,
		Positions:        req.Positions,
		Responsibilities: req.Responsibilities,
		Requirements:     req.Requirements,
		Benefits:         req.Benefits,
		Company:          entity.Company{Name: req.Company.Name, Website: req.Company.Website, Logo: req.Company.Logo},
		ApplicationEmail: req.ApplicationEmail,
		ApplicationURL:   req.ApplicationURL,
		Status:           req.Status,
	}
	if req.PostedOn != "" {
		t, err := time.Parse(PostedOnLayout, req.PostedOn)
		if err != nil {
			return in, errors.New("posted_on must be in YYYY-MM-DD format")
		}
		in.PostedOn = t
	}
	return in, nil
}

func decodeInput(w http.ResponseWriter, r *http.Request) (jobUC.Input, bool) {
	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body."})
		return jobUC.Input{}, false
	}
	in, err := req.input()
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return jobUC.Input{}, false
	}
	return in, true
}

// writeAdminError adds field details to validation failures.
func writeAdminError(w http.ResponseWriter, err error) {
	var fields entity.FieldErrors
	if errors.As(err, &fields) {
		invalid := make([]map[string]string, 0, len(fields))
		for _, f := range fields {
			invalid = append(invalid, map[string]string{"field": f.Field, "message": f.Message})
		}
		respond.JSON(w, http.StatusBadRequest, map[string]any{
			"error":          fields[0].Field + " " + fields[0].Message,
			"invalid_fields": invalid,
		})
		return
	}
	writeError(w, err)
}

type CreateHandler struct {
	Svc    Service
	Logger *slog.Logger
}

// ServeHTTP creates a job opening. Status defaults to draft.
// @Summary      Create job opening
// @Tags         jobs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        job body writeRequest true "Job"
// @Success      201 {object} DTO
// @Failure      400 {object} map[string]any
// @Failure      401 {object} map[string]string
// @Router       /wp-json/jobs/v1/listings [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	j, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	logging.WithRequestID(r.Context(), h.Logger).Info("job created",
		slog.Int64("job_id", j.ID),
		slog.String("status", j.Status))
	respond.JSON(w, http.StatusCreated, toDTO(j, true))
}

type UpdateHandler struct {
	Svc    Service
	Logger *slog.Logger
}

// ServeHTTP replaces a job opening.
// @Summary      Update job opening
// @Tags         jobs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id  path int          true "Job ID"
// @Param        job body writeRequest true "Job"
// @Success      200 {object} DTO
// @Failure      400 {object} map[string]any
// @Failure      404 {object} map[string]string
// @Router       /wp-json/jobs/v1/listings/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		notFound(w)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	j, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	logging.WithRequestID(r.Context(), h.Logger).Info("job updated", slog.Int64("job_id", j.ID))
	respond.JSON(w, http.StatusOK, toDTO(j, true))
}

type DeleteHandler struct {
	Svc    Service
	Logger *slog.Logger
}

// ServeHTTP deletes a job opening. Stored applications are kept.
// @Summary      Delete job opening
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Job ID"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]string
// @Router       /wp-json/jobs/v1/listings/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		notFound(w)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	logging.WithRequestID(r.Context(), h.Logger).Info("job deleted", slog.Int64("job_id", id))
	respond.JSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

type ApplicationsHandler struct {
	Svc    ApplicationLister
	Logger *slog.Logger
}

// ServeHTTP lists applications, optionally for one job.
// @Summary      List job applications
// @Tags         jobs
// @Security     BearerAuth
// @Produce      json
// @Param        job_id query int false "Only applications for this job"
// @Success      200 {object} map[string]any
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /wp-json/jobs/v1/applications [get]
func (h ApplicationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var jobID int64
	if raw := r.URL.Query().Get("job_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid job_id"))
			return
		}
		jobID = id
	}

	apps, err := h.Svc.List(r.Context(), jobID)
	if err != nil {
		logging.WithRequestID(r.Context(), h.Logger).Error("failed to list applications", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]ApplicationDTO, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationDTO(a))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"applications": out, "total": len(out)})
}
