package post

import (
	"log/slog"
	"net/http"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/handler/http/auth"
)

// Register mounts the wp/v2 posts routes. Reads are public; writes go
// through auth.Authz.
func Register(mux *http.ServeMux, svc Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /wp-json/wp/v2/posts", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /wp-json/wp/v2/posts/{id}", GetHandler{svc})

	mux.Handle("POST /wp-json/wp/v2/posts", auth.Authz(CreateHandler{svc, logger}))
	mux.Handle("PUT /wp-json/wp/v2/posts/{id}", auth.Authz(UpdateHandler{svc, logger}))
	mux.Handle("DELETE /wp-json/wp/v2/posts/{id}", auth.Authz(DeleteHandler{svc, logger}))
}
