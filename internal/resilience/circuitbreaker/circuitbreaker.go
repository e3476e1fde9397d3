// Package circuitbreaker guards outbound calls (the CMS API, upstream feeds,
// post pages and the database) with sony/gobreaker. Every breaker exports its
// state as a Prometheus gauge.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	stateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Breaker state: 0 closed, 1 half-open, 2 open",
	}, []string{"name"})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_transitions_total",
		Help: "Breaker state changes by target state",
	}, []string{"name", "to"})
)

// Config tunes one breaker.
type Config struct {
	Name string
	// HalfOpenRequests may pass while the breaker probes for recovery.
	HalfOpenRequests uint32
	// Window clears the closed-state counts periodically. Zero never clears.
	Window time.Duration
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration
	// The breaker trips once MinRequests calls were seen in the window and
	// at least TripRatio of them failed.
	MinRequests uint32
	TripRatio   float64
}

// FeedFetchConfig is used for upstream RSS feeds.
func FeedFetchConfig() Config {
	return Config{Name: "feed-fetch", HalfOpenRequests: 5, Window: time.Minute, Cooldown: 2 * time.Minute, MinRequests: 10, TripRatio: 0.7}
}

// PageFetchConfig is used when the importer downloads full post pages.
// Sites that keep failing are left alone for ten minutes.
func PageFetchConfig() Config {
	return Config{Name: "page-fetch", HalfOpenRequests: 3, Window: time.Minute, Cooldown: 10 * time.Minute, MinRequests: 5, TripRatio: 0.8}
}

// DBConfig opens only when every call in the window failed.
func DBConfig() Config {
	return Config{Name: "database", HalfOpenRequests: 3, Window: time.Minute, Cooldown: 30 * time.Second, MinRequests: 5, TripRatio: 1}
}

// CircuitBreaker is a named gobreaker instance.
type CircuitBreaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
}

// New builds a breaker from cfg. Cancelled contexts never count as failures.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Window,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests > 0 && c.Requests >= cfg.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.TripRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			stateGauge.WithLabelValues(name).Set(float64(to))
			transitionsTotal.WithLabelValues(name, to.String()).Inc()
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	stateGauge.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(settings), name: cfg.Name}
}

// Name is the configured breaker name.
func (b *CircuitBreaker) Name() string { return b.name }

// State is the current gobreaker state.
func (b *CircuitBreaker) State() gobreaker.State { return b.cb.State() }

// IsOpen reports whether calls are currently rejected.
func (b *CircuitBreaker) IsOpen() bool { return b.cb.State() == gobreaker.StateOpen }

// Do runs fn through b. While the breaker is open it returns
// gobreaker.ErrOpenState without calling fn.
func Do[T any](b *CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
