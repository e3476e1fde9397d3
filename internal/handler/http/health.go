// Package http holds the content API's shared HTTP pieces: health probes,
// request logging, panic recovery, body limits and Prometheus metrics.
// Resource handlers live in the post, job and submission subpackages.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tnsystems-site/internal/handler/http/respond"
	"tnsystems-site/internal/usecase/notify"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Check is one named probe. Only a Critical check that comes back unhealthy
// turns the endpoint into a 503; anything else at most degrades it.
type Check struct {
	Name     string
	Critical bool
	Run      func(ctx context.Context) CheckStatus
}

// HealthHandler runs all checks concurrently under a five second budget.
type HealthHandler struct {
	Version string
	Checks  []Check
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]CheckStatus, len(h.Checks))
		overall = statusHealthy
	)
	var g errgroup.Group
	for _, c := range h.Checks {
		g.Go(func() error {
			res := c.Run(ctx)
			mu.Lock()
			defer mu.Unlock()
			results[c.Name] = res
			switch {
			case res.Status == statusUnhealthy && c.Critical:
				overall = statusUnhealthy
			case res.Status != statusHealthy && overall == statusHealthy:
				overall = statusDegraded
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(h.Checks) == 0 {
		overall = statusUnhealthy
	}
	code := http.StatusOK
	if overall == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    results,
		Version:   h.Version,
	})
}

// DatabaseCheck pings db and reports pool usage. A pool above 80% of
// MaxOpenConns, or without a limit at all, is degraded.
func DatabaseCheck(db *sql.DB) Check {
	return Check{Name: "database", Critical: true, Run: func(ctx context.Context) CheckStatus {
		if db == nil {
			return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
		}
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("health: database ping failed", slog.String("error", respond.SanitizeError(err)))
			return CheckStatus{Status: statusUnhealthy, Message: "database unreachable"}
		}

		st := db.Stats()
		details := map[string]any{
			"max_open_connections": st.MaxOpenConnections,
			"open_connections":     st.OpenConnections,
			"in_use":               st.InUse,
			"idle":                 st.Idle,
			"wait_count":           st.WaitCount,
			"wait_duration_ms":     st.WaitDuration.Milliseconds(),
		}
		if st.MaxOpenConnections == 0 {
			return CheckStatus{Status: statusDegraded, Message: "connection pool has no upper bound", Details: details}
		}
		used := float64(st.InUse) / float64(st.MaxOpenConnections) * 100
		details["utilization_percent"] = used
		if used >= 80 {
			return CheckStatus{Status: statusDegraded, Message: "connection pool utilization above 80%", Details: details}
		}
		return CheckStatus{Status: statusHealthy, Details: details}
	}}
}

// BreakerCheck reports an open circuit breaker as degraded.
func BreakerCheck(name string, b interface{ IsOpen() bool }) Check {
	return Check{Name: name, Run: func(context.Context) CheckStatus {
		if b.IsOpen() {
			return CheckStatus{Status: statusDegraded, Message: "circuit breaker is open"}
		}
		return CheckStatus{Status: statusHealthy}
	}}
}

// ChannelsCheck degrades when an enabled notification channel is paused.
func ChannelsCheck(r interface {
	ChannelHealth() []notify.ChannelHealthStatus
}) Check {
	return Check{Name: "notifications", Run: func(context.Context) CheckStatus {
		return checkChannels(r.ChannelHealth())
	}}
}

func checkChannels(channels []notify.ChannelHealthStatus) CheckStatus {
	check := CheckStatus{Status: statusHealthy, Details: map[string]any{"channels": channels}}
	for _, c := range channels {
		if c.Enabled && c.CircuitBreakerOpen {
			check.Status = statusDegraded
			check.Message = "notification channel " + c.Name + " is paused after repeated failures"
			break
		}
	}
	return check
}

// ReadyHandler answers readiness probes: 200 once the database answers a ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ready"))
}

type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("alive"))
}
