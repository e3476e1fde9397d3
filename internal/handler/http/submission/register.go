package submission

import (
	"log/slog"
	"net/http"

	"tnsystems-site/internal/handler/http/auth"
	"tnsystems-site/internal/handler/http/middleware"
)

// Register mounts the application and contact routes. limiter may be nil.
func Register(mux *http.ServeMux, applier Applier, contact ContactService, limiter *middleware.RateLimiter, ipx middleware.IPExtractor, logger *slog.Logger) {
	limit := func(h http.Handler) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Middleware(h)
	}

	mux.Handle("POST /wp-json/jobs/v1/apply_job/{id}", limit(ApplyHandler{Svc: applier, IP: ipx, Logger: logger}))

	feedback := limit(ContactHandler{Svc: contact, Logger: logger})
	mux.Handle("POST /wp-json/contact-form-7/v1/contact-forms/{form_id}/feedback", feedback)
	mux.Handle("POST /wp-json/cf7-custom/v1/submit/{form_id}", feedback)

	mux.Handle("GET /wp-json/contact-form-7/v1/submissions", auth.Authz(ListHandler{Svc: contact, Logger: logger}))
}
