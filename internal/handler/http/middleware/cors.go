package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
)

// CORSOptions are the browser-facing settings of the content API.
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int
	Logger         *slog.Logger
}

// CORS returns rs/cors middleware for the site frontends. Public reads and
// form submissions come from browsers; admin calls send a bearer token, so
// credentials (cookies) are never allowed.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-WP-Total", "X-WP-TotalPages", "Retry-After"},
		MaxAge:           opts.MaxAge,
		AllowCredentials: false,
	})
	if opts.Logger != nil {
		c.Log = slogPrinter{opts.Logger}
	}
	return c.Handler
}

// slogPrinter adapts slog to the Printf logger rs/cors expects.
type slogPrinter struct{ l *slog.Logger }

func (p slogPrinter) Printf(format string, args ...any) {
	p.l.Debug(fmt.Sprintf(format, args...), slog.String("component", "cors"))
}
