package http

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"tnsystems-site/internal/handler/http/requestid"
	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/handler/http/responsewriter"

	"go.opentelemetry.io/otel/trace"
)

const (
	maxAuthorizationHeader = 8 << 10
	maxPathLength          = 2 << 10
)

// Logging logs one line per request with its status, size, duration, request
// ID and, when tracing is on, the trace ID.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := responsewriter.Wrap(w)

			next.ServeHTTP(wrapped, r)

			attrs := []any{
				slog.String("request_id", requestid.FromContext(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", wrapped.Status()),
				slog.Int("bytes", wrapped.Size()),
				slog.Duration("duration", time.Since(start)),
			}
			if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.HasTraceID() {
				attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
			}

			level := slog.LevelInfo
			if wrapped.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "request completed", attrs...)
		})
	}
}

// Recover turns a panic into a 500 JSON response and logs the stack.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let net/http abort the connection as it would without us.
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				respond.SafeError(w, http.StatusInternalServerError, errors.New("internal error"))
				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequest rejects oversized Authorization headers (431) and paths (414)
// and caps the body at maxBodyBytes. Handlers see a read error past the cap.
func LimitRequest(maxBodyBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > maxAuthorizationHeader {
				respond.JSON(w, http.StatusRequestHeaderFieldsTooLarge, map[string]string{"error": "authorization header too large"})
				return
			}
			if len(r.URL.Path) > maxPathLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "URI too long"})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
