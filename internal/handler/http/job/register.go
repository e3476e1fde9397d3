package job

import (
	"log/slog"
	"net/http"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/handler/http/auth"
)

// Register mounts the jobs/v1 listing routes. The apply route lives with
// the other visitor submissions.
func Register(mux *http.ServeMux, svc Service, apps ApplicationLister, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /wp-json/jobs/v1/listings", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /wp-json/jobs/v1/listings/{id}", GetHandler{svc})

	mux.Handle("POST /wp-json/jobs/v1/listings", auth.Authz(CreateHandler{svc, logger}))
	mux.Handle("PUT /wp-json/jobs/v1/listings/{id}", auth.Authz(UpdateHandler{svc, logger}))
	mux.Handle("DELETE /wp-json/jobs/v1/listings/{id}", auth.Authz(DeleteHandler{svc, logger}))
	mux.Handle("GET /wp-json/jobs/v1/applications", auth.Authz(ApplicationsHandler{apps, logger}))
}
