package submission

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/observability/logging"
	"tnsystems-site/internal/observability/metrics"
	contactUC "tnsystems-site/internal/usecase/contact"
)

// WordPress style error codes of the contact endpoints.
const (
	CodeFormNotFound = "form_not_found"
	CodeNoData       = "no_data"

	MsgFormNotFound = "Contact Form 7 form not found."
)

// Admin listing bounds.
const (
	defaultSubmissionLimit = 50
	maxSubmissionLimit     = 200
)

// FeedbackResponse mirrors Contact Form 7's feedback body.
type FeedbackResponse struct {
	ContactFormID int64        `json:"contact_form_id" example:"535"`
	Status        string       `json:"status" example:"mail_sent"`
	Message       string       `json:"message" example:"Thank you for your message. It has been sent."`
	Reference     string       `json:"reference,omitempty" example:"MSG-01J9Z6W3T4B8Q2M5N7R1S0V9XY"`
	InvalidFields []FieldError `json:"invalid_fields,omitempty"`
}

type ContactHandler struct {
	Svc    ContactService
	Logger *slog.Logger
}

// ServeHTTP validates and stores a contact form message.
// @Summary      Submit contact form
// @Description  Accepts multipart, urlencoded or JSON fields. Field problems return 200 with status validation_failed.
// @Tags         contact
// @Accept       mpfd
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Produce      json
// @Param        form_id path int true "Form ID"
// @Success      200 {object} FeedbackResponse
// @Failure      400 {object} respond.WPErrorBody
// @Failure      404 {object} respond.WPErrorBody
// @Failure      429 {object} map[string]string
// @Router       /wp-json/contact-form-7/v1/contact-forms/{form_id}/feedback [post]
func (h ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	formID, err := pathutil.ParseID(r.PathValue("form_id"))
	if err != nil {
		metrics.RecordSubmission(entity.NotifyContact, resultRejected)
		respond.WPError(w, http.StatusNotFound, CodeFormNotFound, MsgFormNotFound)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		logger.Debug("unreadable contact body", slog.Any("error", err))
		fields = nil
	}

	fb, err := h.Svc.Submit(r.Context(), formID, fields)
	switch {
	case errors.Is(err, contactUC.ErrFormNotFound):
		metrics.RecordSubmission(entity.NotifyContact, resultRejected)
		respond.WPError(w, http.StatusNotFound, CodeFormNotFound, MsgFormNotFound)
		return
	case errors.Is(err, contactUC.ErrNoSubmissionData):
		metrics.RecordSubmission(entity.NotifyContact, resultInvalid)
		respond.WPError(w, http.StatusBadRequest, CodeNoData, contactUC.MsgNoData)
		return
	case err != nil:
		metrics.RecordSubmission(entity.NotifyContact, resultError)
		logger.Error("failed to store contact submission", slog.Int64("form_id", formID), slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	if fb.Status == contactUC.StatusMailSent {
		metrics.RecordSubmission(entity.NotifyContact, resultAccepted)
		logger.Info("contact message received",
			slog.Int64("form_id", formID),
			slog.String("reference", fb.Reference))
	} else {
		metrics.RecordSubmission(entity.NotifyContact, resultInvalid)
	}
	respond.JSON(w, http.StatusOK, FeedbackResponse{
		ContactFormID: formID,
		Status:        fb.Status,
		Message:       fb.Message,
		Reference:     fb.Reference,
		InvalidFields: fieldErrors(fb.InvalidFields),
	})
}

// SubmissionDTO is a stored contact message in the admin listing.
type SubmissionDTO struct {
	ID          int64             `json:"id"`
	FormID      int64             `json:"form_id"`
	Reference   string            `json:"reference"`
	Fields      map[string]string `json:"fields"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

type ListHandler struct {
	Svc    ContactService
	Logger *slog.Logger
}

// ServeHTTP lists stored contact messages, newest first.
// @Summary      List contact submissions
// @Tags         contact
// @Security     BearerAuth
// @Produce      json
// @Param        form_id query int false "Only this form"
// @Param        limit   query int false "Maximum rows (default 50, max 200)"
// @Success      200 {object} map[string]any
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /wp-json/contact-form-7/v1/submissions [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var formID int64
	if raw := q.Get("form_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid form_id"))
			return
		}
		formID = id
	}
	limit := defaultSubmissionLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		limit = min(n, maxSubmissionLimit)
	}

	subs, err := h.Svc.List(r.Context(), formID, limit)
	if err != nil {
		logging.WithRequestID(r.Context(), h.Logger).Error("failed to list contact submissions", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]SubmissionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, SubmissionDTO{
			ID:          s.ID,
			FormID:      s.FormID,
			Reference:   s.Reference,
			Fields:      s.Fields,
			SubmittedAt: s.SubmittedAt,
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"submissions": out, "total": len(out)})
}
