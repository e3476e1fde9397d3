package cmsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
)

// Fallback messages when the server gives none.
const (
	msgApplyFailed   = "Failed to submit application. Please try again."
	msgContactFailed = "There was an error trying to send your message. Please try again later."
)

// ApplicationRequest is the body of a job application.
type ApplicationRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	CoverLetter string `json:"cover_letter"`
	ResumeURL   string `json:"resume_url"`
}

// ApplicationReceipt is returned for an accepted application.
type ApplicationReceipt struct {
	Success       bool   `json:"success" validate:"eq=true"`
	Message       string `json:"message"`
	ApplicationID int64  `json:"application_id" validate:"required,gt=0"`
	JobID         int64  `json:"job_id" validate:"required,gt=0"`
	Reference     string `json:"reference"`
}

// ApplyJob submits an application for jobID. Rejections the applicant can act
// on (bad input, unpublished job) come back as *ValidationError.
func (c *Client) ApplyJob(ctx context.Context, jobID int64, req ApplicationRequest) (ApplicationReceipt, error) {
	endpoint, err := c.applyURL(jobID)
	if err != nil {
		return ApplicationReceipt{}, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return ApplicationReceipt{}, fmt.Errorf("encode application: %w", err)
	}

	res, err := c.do(ctx, http.MethodPost, endpoint, "application/json", body)
	if err != nil {
		return ApplicationReceipt{}, err
	}

	switch {
	case res.status >= 200 && res.status <= 299:
	case res.status == http.StatusBadRequest, res.status == http.StatusNotFound, res.status == http.StatusUnprocessableEntity:
		msg := serverMessage(res.body)
		if msg == "" {
			msg = msgApplyFailed
		}
		return ApplicationReceipt{}, &ValidationError{StatusCode: res.status, Message: msg, Fields: decodeFieldErrors(res.body)}
	default:
		return ApplicationReceipt{}, &HTTPError{StatusCode: res.status, URL: endpoint, Message: serverMessage(res.body)}
	}

	var receipt ApplicationReceipt
	if err := json.Unmarshal(res.body, &receipt); err != nil {
		return ApplicationReceipt{}, &ParseError{URL: endpoint, Err: err}
	}
	if err := c.validate.Struct(receipt); err != nil {
		return ApplicationReceipt{}, &ParseError{URL: endpoint, Err: err}
	}
	return receipt, nil
}

// Contact Form 7 feedback statuses.
const (
	ContactMailSent         = "mail_sent"
	ContactValidationFailed = "validation_failed"
)

// ContactResult is the feedback for an accepted contact submission.
type ContactResult struct {
	Status    string `json:"status" validate:"required"`
	Message   string `json:"message"`
	Reference string `json:"reference"`
}

type contactFeedback struct {
	ContactResult
	InvalidFields []FieldError `json:"invalid_fields"`
}

// SubmitContact posts form fields to the configured contact form as multipart
// form data. A validation_failed feedback is returned as *ValidationError with
// one entry per rejected field.
func (c *Client) SubmitContact(ctx context.Context, fields map[string]string) (ContactResult, error) {
	endpoint := c.cfg.ContactFormAPIURL

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if err := mw.WriteField(name, fields[name]); err != nil {
			return ContactResult{}, fmt.Errorf("encode field %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return ContactResult{}, fmt.Errorf("encode form: %w", err)
	}

	res, err := c.do(ctx, http.MethodPost, endpoint, mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return ContactResult{}, err
	}

	switch {
	case res.status >= 200 && res.status <= 299:
	case res.status == http.StatusBadRequest:
		msg := serverMessage(res.body)
		if msg == "" {
			msg = msgContactFailed
		}
		return ContactResult{}, &ValidationError{StatusCode: res.status, Message: msg, Fields: decodeFieldErrors(res.body)}
	default:
		return ContactResult{}, &HTTPError{StatusCode: res.status, URL: endpoint, Message: serverMessage(res.body)}
	}

	var fb contactFeedback
	if err := json.Unmarshal(res.body, &fb); err != nil {
		return ContactResult{}, &ParseError{URL: endpoint, Err: err}
	}
	if err := c.validate.Struct(fb.ContactResult); err != nil {
		return ContactResult{}, &ParseError{URL: endpoint, Err: err}
	}

	if fb.Status != ContactMailSent {
		msg := fb.Message
		if msg == "" {
			msg = msgContactFailed
		}
		return ContactResult{}, &ValidationError{StatusCode: res.status, Message: msg, Fields: fb.InvalidFields}
	}
	return fb.ContactResult, nil
}

func decodeFieldErrors(body []byte) []FieldError {
	var v struct {
		InvalidFields []FieldError `json:"invalid_fields"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	return v.InvalidFields
}
