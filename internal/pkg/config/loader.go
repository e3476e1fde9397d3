// Package config resolves worker settings from the environment with
// validation and fail-open fallbacks.
//
// A malformed or out-of-range value never stops a worker from starting.
// The default is used instead, the problem is logged and counted, and the
// fallback gauge stays raised until the next clean load.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of resolving one setting.
type Result[T any] struct {
	Value T
	// FromEnv reports whether Value came from the environment.
	FromEnv bool
	// Fallback is set when the environment value was rejected.
	Fallback bool
	Warning  string
}

// Load reads key, parses and validates it, and falls back to def on any
// failure. An unset or blank variable resolves to def without a warning.
// validate may be nil.
func Load[T any](key string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return Result[T]{Value: def}
	}
	v, err := parse(raw)
	if err != nil {
		return Result[T]{
			Value:    def,
			Fallback: true,
			Warning:  fmt.Sprintf("%s: cannot parse %q: %v", key, raw, err),
		}
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return Result[T]{
				Value:    def,
				Fallback: true,
				Warning:  fmt.Sprintf("%s: %v", key, err),
			}
		}
	}
	return Result[T]{Value: v, FromEnv: true}
}

// LoadString resolves a string setting.
func LoadString(key, def string, validate func(string) error) Result[string] {
	return Load(key, def, func(s string) (string, error) { return s, nil }, validate)
}

// LoadInt resolves an integer setting.
func LoadInt(key string, def int, validate func(int) error) Result[int] {
	return Load(key, def, strconv.Atoi, validate)
}

// LoadDuration resolves a Go duration string such as "90s" or "10m".
func LoadDuration(key string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(key, def, time.ParseDuration, validate)
}

// LoadBool accepts the forms understood by strconv.ParseBool.
func LoadBool(key string, def bool) Result[bool] {
	return Load(key, def, strconv.ParseBool, nil)
}

// LoadList resolves a comma separated list, dropping blank entries.
func LoadList(key string, def []string, validate func([]string) error) Result[[]string] {
	return Load(key, def, splitList, validate)
}

func splitList(raw string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

// Tracker collects fallbacks while a configuration struct is being built.
type Tracker struct {
	logger    *slog.Logger
	metrics   *ConfigMetrics
	fallbacks []string
}

// NewTracker returns a Tracker. Either argument may be nil.
func NewTracker(logger *slog.Logger, metrics *ConfigMetrics) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger, metrics: metrics}
}

// Track unwraps r, logging and counting a rejected value under field.
func Track[T any](t *Tracker, field string, r Result[T]) T {
	if r.Fallback {
		t.fallbacks = append(t.fallbacks, field)
		t.logger.Warn("config fallback applied",
			slog.String("field", field),
			slog.String("reason", r.Warning),
			slog.Any("default", r.Value))
		if t.metrics != nil {
			t.metrics.RecordValidationError(field)
			t.metrics.RecordFallback(field)
		}
	}
	return r.Value
}

// Fallbacks lists the fields that fell back, in the order they were tracked.
func (t *Tracker) Fallbacks() []string {
	return t.fallbacks
}

// Done stamps the load time and publishes whether any fallback is active.
func (t *Tracker) Done() {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordLoadTimestamp()
	t.metrics.SetFallbackActive(len(t.fallbacks) > 0)
}
