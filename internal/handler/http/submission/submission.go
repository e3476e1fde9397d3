// Package submission serves the visitor write endpoints: job applications
// and Contact Form 7 feedback. Both are public and sit behind the per-IP
// rate limiter.
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/middleware"
	applyUC "tnsystems-site/internal/usecase/apply"
	contactUC "tnsystems-site/internal/usecase/contact"
)

// Submission outcomes recorded in submissions_total.
const (
	resultAccepted = "accepted"
	resultInvalid  = "invalid"
	resultRejected = "rejected"
	resultError    = "error"
)

// maxFormMemory bounds the in-memory part of a multipart body.
const maxFormMemory = 1 << 20

// unknownIP is stored when the client address cannot be resolved.
const unknownIP = "API"

// Applier is the application use case.
type Applier interface {
	Submit(ctx context.Context, jobID int64, in applyUC.Input) (*applyUC.Result, error)
}

// ContactService is the contact form use case.
type ContactService interface {
	Submit(ctx context.Context, formID int64, fields map[string]string) (*contactUC.Feedback, error)
	List(ctx context.Context, formID int64, limit int) ([]*entity.ContactSubmission, error)
}

// FieldError is one rejected field in a response body.
type FieldError struct {
	Field   string `json:"field" example:"your-email"`
	Message string `json:"message" example:"Please enter an email address."`
}

func fieldErrors(errs []*entity.ValidationError) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field, Message: e.Message})
	}
	return out
}

func clientIP(ipx middleware.IPExtractor, r *http.Request) string {
	if ipx == nil {
		return unknownIP
	}
	ip, err := ipx.ExtractIP(r)
	if err != nil || ip == "" {
		return unknownIP
	}
	return ip
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json"))
}

// readFields collects submitted values from a JSON object, a multipart form
// or an urlencoded form. Repeated form keys keep the first value.
func readFields(r *http.Request) (map[string]string, error) {
	if isJSON(r) {
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		fields := make(map[string]string, len(raw))
		for k, v := range raw {
			switch v := v.(type) {
			case nil:
			case string:
				fields[k] = v
			case json.Number:
				fields[k] = v.String()
			case bool:
				fields[k] = fmt.Sprint(v)
			case []any:
				parts := make([]string, 0, len(v))
				for _, p := range v {
					parts = append(parts, fmt.Sprint(p))
				}
				fields[k] = strings.Join(parts, ", ")
			}
		}
		return fields, nil
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	fields := make(map[string]string, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}
