package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"tnsystems-site/internal/handler/http/requestid"
)

// RateLimitError is a 429 answer from a webhook.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is a non-429 4xx answer. It is never retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string { return e.Message }

// ServerError is a 5xx answer.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

func isRetryableError(err error) bool {
	var clientErr *ClientError
	var rateLimitErr *RateLimitError
	return !errors.As(err, &clientErr) && !errors.As(err, &rateLimitErr)
}

// RetryPolicy bounds webhook delivery attempts. Server and network errors back
// off linearly (BaseDelay, 2*BaseDelay, ...); 429 waits for the announced delay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy is two attempts, five seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, BaseDelay: 5 * time.Second}
}

// webhook is the transport shared by the Discord and Slack notifiers.
type webhook struct {
	name        string
	url         string
	client      *http.Client
	pace        *rate.Limiter
	retry       RetryPolicy
	retryAfter  func(resp *http.Response, body []byte) time.Duration
	maxBodyRead int64
}

// deliver paces, posts payload and retries according to w.retry.
func (w *webhook) deliver(ctx context.Context, kind string, payload any) error {
	reqID := requestid.FromContext(ctx)
	logger := slog.With(
		slog.String("request_id", reqID),
		slog.String("channel", w.name),
		slog.String("kind", kind))

	if err := w.pace.Wait(ctx); err != nil {
		return fmt.Errorf("wait for %s send slot: %w", w.name, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	attempts := max(w.retry.MaxAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = w.post(ctx, reqID, body)
		if lastErr == nil {
			logger.Info("notification delivered", slog.Int("attempt", attempt))
			return nil
		}

		var wait time.Duration
		var rl *RateLimitError
		switch {
		case errors.As(lastErr, &rl):
			wait = rl.RetryAfter
			logger.Warn("webhook rate limited, backing off",
				slog.Duration("retry_after", wait), slog.Int("attempt", attempt))
		case !isRetryableError(lastErr):
			logger.Error("notification rejected", slog.Any("error", lastErr), slog.Int("attempt", attempt))
			return lastErr
		default:
			wait = w.retry.BaseDelay * time.Duration(attempt)
			logger.Warn("webhook request failed, retrying",
				slog.Any("error", lastErr), slog.Int("attempt", attempt), slog.Duration("delay", wait))
		}
		if attempt == attempts {
			break
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("context canceled during backoff: %w", ctx.Err())
		}
	}

	return fmt.Errorf("%s notification failed after %d attempts: %w", w.name, attempts, lastErr)
}

func (w *webhook) post(ctx context.Context, reqID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if reqID != "" {
		req.Header.Set(requestid.RequestIDHeader, reqID)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	limit := w.maxBodyRead
	if limit <= 0 {
		limit = 64 << 10
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, limit))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Message: w.name + " rate limit exceeded", RetryAfter: w.retryAfter(resp, respBody)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("%s API client error: %s", w.name, respBody)}
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("%s API server error: %s", w.name, respBody)}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, respBody)
}

// retryAfterHeader reads Retry-After in seconds, defaulting to fallback.
func retryAfterHeader(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// truncate cuts s to at most maxRunes runes including suffix.
func truncate(s string, maxRunes int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	keep := max(maxRunes-len([]rune(suffix)), 0)
	return string(runes[:keep]) + suffix
}
