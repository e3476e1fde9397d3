// Package retry re-runs operations that failed with a transient error,
// waiting an exponentially growing, jittered delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Policy bounds the attempts and the wait between them.
type Policy struct {
	Attempts int
	Base     time.Duration
	Cap      time.Duration
	Factor   float64
	// Jitter adds up to this fraction of the delay at random.
	Jitter float64
}

// FeedPolicy is used for upstream RSS feeds.
func FeedPolicy() Policy {
	return Policy{Attempts: 5, Base: time.Second, Cap: 30 * time.Second, Factor: 2, Jitter: 0.1}
}

// Delay is the wait after failed attempt n (1-based), before jitter.
func (p Policy) Delay(n int) time.Duration {
	d := float64(p.Base)
	for i := 1; i < n; i++ {
		d *= p.Factor
		if p.Cap > 0 && d >= float64(p.Cap) {
			return p.Cap
		}
	}
	if p.Cap > 0 && d > float64(p.Cap) {
		return p.Cap
	}
	return time.Duration(d)
}

func (p Policy) jittered(n int) time.Duration {
	d := p.Delay(n)
	if p.Jitter <= 0 || d <= 0 {
		return d
	}
	// #nosec G404 -- jitter does not need a cryptographic source
	return d + time.Duration(rand.Float64()*min(p.Jitter, 1)*float64(d))
}

// Do calls fn until it succeeds, fails with an error Retryable rejects, runs
// out of attempts or ctx ends. The last error is wrapped in the result.
func Do(ctx context.Context, p Policy, logger *slog.Logger, fn func() error) error {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := max(p.Attempts, 1)
	var err error
	for n := 1; n <= attempts; n++ {
		if err = fn(); err == nil {
			if n > 1 {
				logger.Info("operation succeeded after retry", slog.Int("attempt", n))
			}
			return nil
		}
		if !Retryable(err) {
			return err
		}
		if n == attempts {
			break
		}
		wait := p.jittered(n)
		logger.Warn("operation failed, retrying",
			slog.Int("attempt", n),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}

// StatusError is an unexpected HTTP status from an upstream server.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Temporary reports whether the server may answer differently later:
// 5xx, 429 and 408.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout
}

// Retryable reports whether err looks transient. Context errors never are.
func Retryable(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT), errors.Is(err, syscall.ENETUNREACH):
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
