package cmsclient

import (
	"log/slog"
	"net/http"
	"time"

	"tnsystems-site/internal/handler/http/requestid"
)

// loggingRoundTripper logs every outbound call and forwards the caller's
// request ID so server logs can be correlated.
type loggingRoundTripper struct {
	inner  http.RoundTripper
	logger *slog.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if id := requestid.FromContext(req.Context()); id != "" && req.Header.Get(requestid.RequestIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(requestid.RequestIDHeader, id)
	}

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		l.logger.Warn("cms request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, err
	}

	l.logger.Debug("cms request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration))
	return resp, nil
}

// NewHTTPClient returns an http.Client with request logging.
// A zero timeout defaults to 10 seconds.
func NewHTTPClient(timeout time.Duration, logger *slog.Logger) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport, logger: logger},
	}
}
