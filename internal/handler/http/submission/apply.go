package submission

import (
	"errors"
	"log/slog"
	"net/http"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/middleware"
	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/observability/logging"
	"tnsystems-site/internal/observability/metrics"
	applyUC "tnsystems-site/internal/usecase/apply"
)

// MsgInvalidJob is returned for unknown, unpublished and malformed job IDs.
const MsgInvalidJob = "Invalid or unpublished job."

// ApplyResponse is the body of an accepted application.
type ApplyResponse struct {
	Success       bool   `json:"success" example:"true"`
	Message       string `json:"message" example:"Application submitted successfully!"`
	ApplicationID int64  `json:"application_id" example:"41"`
	JobID         int64  `json:"job_id" example:"12"`
	Reference     string `json:"reference" example:"APP-01J9Z6W3T4B8Q2M5N7R1S0V9XY"`
}

// ApplyErrorResponse is the body of a rejected application.
type ApplyErrorResponse struct {
	Error         string       `json:"error"`
	Message       string       `json:"message,omitempty"`
	InvalidFields []FieldError `json:"invalid_fields,omitempty"`
}

type ApplyHandler struct {
	Svc    Applier
	IP     middleware.IPExtractor
	Logger *slog.Logger
}

// ServeHTTP stores an application for a published job.
// @Summary      Apply for a job
// @Description  Accepts JSON or form fields name, phone, email, cover_letter and resume_url.
// @Tags         jobs
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id path int true "Job ID"
// @Success      200 {object} ApplyResponse
// @Failure      400 {object} ApplyErrorResponse
// @Failure      404 {object} ApplyErrorResponse
// @Failure      429 {object} map[string]string
// @Router       /wp-json/jobs/v1/apply_job/{id} [post]
func (h ApplyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	jobID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		metrics.RecordSubmission(entity.NotifyApplication, resultRejected)
		respond.JSON(w, http.StatusNotFound, ApplyErrorResponse{Error: MsgInvalidJob})
		return
	}

	fields, err := readFields(r)
	if err != nil {
		metrics.RecordSubmission(entity.NotifyApplication, resultInvalid)
		respond.JSON(w, http.StatusBadRequest, ApplyErrorResponse{Error: applyUC.RequiredMessage, Message: applyUC.RequiredMessage})
		return
	}

	res, err := h.Svc.Submit(r.Context(), jobID, applyUC.Input{
		Name:        fields["name"],
		Phone:       fields["phone"],
		Email:       fields["email"],
		CoverLetter: fields["cover_letter"],
		ResumeURL:   fields["resume_url"],
		ApplicantIP: clientIP(h.IP, r),
	})
	if err != nil {
		var invalid entity.FieldErrors
		switch {
		case errors.Is(err, applyUC.ErrJobNotPublished), errors.Is(err, applyUC.ErrInvalidJobID):
			metrics.RecordSubmission(entity.NotifyApplication, resultRejected)
			respond.JSON(w, http.StatusNotFound, ApplyErrorResponse{Error: MsgInvalidJob})
		case errors.As(err, &invalid):
			metrics.RecordSubmission(entity.NotifyApplication, resultInvalid)
			msg := applyUC.RequiredMessage
			if len(invalid) > 0 {
				msg = invalid[0].Message
			}
			respond.JSON(w, http.StatusBadRequest, ApplyErrorResponse{
				Error:         msg,
				Message:       msg,
				InvalidFields: fieldErrors(invalid),
			})
		default:
			metrics.RecordSubmission(entity.NotifyApplication, resultError)
			logger.Error("failed to store application", slog.Int64("job_id", jobID), slog.Any("error", err))
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	metrics.RecordSubmission(entity.NotifyApplication, resultAccepted)
	logger.Info("application received",
		slog.Int64("job_id", res.JobID),
		slog.Int64("application_id", res.ApplicationID),
		slog.String("reference", res.Reference))
	respond.JSON(w, http.StatusOK, ApplyResponse{
		Success:       true,
		Message:       res.Message,
		ApplicationID: res.ApplicationID,
		JobID:         res.JobID,
		Reference:     res.Reference,
	})
}
