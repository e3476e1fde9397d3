package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeIssued  = "issued"
	outcomeDenied  = "denied"
	outcomeInvalid = "invalid"
	outcomeError   = "error"

	decisionAllow   = "allow"
	decisionForbid  = "forbid"
	decisionNoToken = "unauthenticated"
)

var (
	tokenRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_auth_token_requests_total",
		Help: "POST /auth/token calls by resolved role and outcome",
	}, []string{"role", "outcome"})

	tokenLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "site_auth_token_duration_seconds",
		Help:    "Time to check credentials and sign a token",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"outcome"})

	authzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_authz_decisions_total",
		Help: "Admin route authorization decisions by role, method and decision",
	}, []string{"role", "method", "decision"})

	authzLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "site_authz_check_duration_seconds",
		Help:    "Bearer token parsing plus role lookup on admin routes",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
	})
)

func observeToken(role, outcome string, started time.Time) {
	if role == "" {
		role = "unknown"
	}
	tokenRequests.WithLabelValues(role, outcome).Inc()
	tokenLatency.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

func observeAuthz(role, method, decision string, started time.Time) {
	if role == "" {
		role = "none"
	}
	authzDecisions.WithLabelValues(role, method, decision).Inc()
	authzLatency.Observe(time.Since(started).Seconds())
}
