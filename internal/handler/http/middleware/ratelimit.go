package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tnsystems-site/internal/handler/http/pathutil"
	"tnsystems-site/internal/handler/http/respond"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LimitedMessage is the body of a 429 response.
const LimitedMessage = "Too many submissions. Please wait a moment and try again."

var rateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected with 429 by the submission rate limiter",
	},
	[]string{"path"},
)

// RateLimiter is a sliding window limiter keyed by client IP.
type RateLimiter struct {
	limit       int
	window      time.Duration
	ipExtractor IPExtractor
	now         func() time.Time

	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewRateLimiter allows limit requests per window for each client IP.
//
//	limiter := NewRateLimiter(10, time.Minute, &RemoteAddrExtractor{})
//	mux.Handle("POST /wp-json/jobs/v1/apply_job/{id}", limiter.Middleware(applyHandler))
func NewRateLimiter(limit int, window time.Duration, ipExtractor IPExtractor) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		window:      window,
		ipExtractor: ipExtractor,
		now:         time.Now,
		requests:    make(map[string][]time.Time),
	}
}

// Middleware rejects requests over the limit with 429, a Retry-After header
// and a JSON error body.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed, using RemoteAddr",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			ip = r.RemoteAddr
		}

		allowed, retryAfter := rl.allow(ip)
		if !allowed {
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Int("limit", rl.limit),
				slog.Duration("window", rl.window))
			rateLimitedTotal.WithLabelValues(pathutil.NormalizePath(r.URL.Path)).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": LimitedMessage})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow records a request for ip when it fits the window. When it does not,
// the second result is the time until the oldest request leaves the window.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := pruneBefore(rl.requests[ip], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0].Sub(cutoff)
	}
	rl.requests[ip] = append(valid, now)
	return true, 0
}

// CleanupExpired drops IPs whose requests all left the window and returns
// the number of IPs still tracked.
func (rl *RateLimiter) CleanupExpired() int {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, ts := range rl.requests {
		if valid := pruneBefore(ts, cutoff); len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
	return len(rl.requests)
}

// StartCleanup runs CleanupExpired every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active := rl.CleanupExpired()
			slog.Debug("rate limiter cleanup completed", slog.Int("active_ips", active))
		}
	}
}

func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append([]time.Time(nil), ts[i:]...)
}
