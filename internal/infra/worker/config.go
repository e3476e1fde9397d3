// Package worker holds the import worker's configuration, metrics and
// health endpoints.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"tnsystems-site/internal/pkg/config"
)

const (
	DefaultImportSchedule      = "*/30 * * * *"
	DefaultTimezone            = "Asia/Kolkata"
	DefaultImportFeed          = "https://tnsystems.in/feed/"
	DefaultImportTimeout       = 10 * time.Minute
	DefaultNotifyMaxConcurrent = 10
	DefaultHealthPort          = 9091
	DefaultMetricsPort         = 9090
)

// WorkerConfig controls the scheduled content import.
type WorkerConfig struct {
	// ImportSchedule is a five-field cron expression evaluated in Timezone.
	ImportSchedule string
	Timezone       string
	// Feeds are the upstream WordPress RSS feeds to import from.
	Feeds               []string
	ImportTimeout       time.Duration
	NotifyMaxConcurrent int
	HealthPort          int
	MetricsPort         int
}

// Location resolves Timezone. Validation during load guarantees success,
// UTC covers a hand-built config.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate is strict, unlike LoadConfigFromEnv which falls back per field.
func (c *WorkerConfig) Validate() error {
	if err := config.ValidateCronSchedule(c.ImportSchedule); err != nil {
		return err
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		return err
	}
	if len(c.Feeds) == 0 {
		return fmt.Errorf("at least one import feed is required")
	}
	if err := config.ValidateFeedURLs(c.Feeds); err != nil {
		return err
	}
	if err := importTimeoutRange(c.ImportTimeout); err != nil {
		return fmt.Errorf("import timeout: %w", err)
	}
	if err := concurrencyRange(c.NotifyMaxConcurrent); err != nil {
		return fmt.Errorf("notify max concurrent: %w", err)
	}
	if err := portRange(c.HealthPort); err != nil {
		return fmt.Errorf("health port: %w", err)
	}
	if err := portRange(c.MetricsPort); err != nil {
		return fmt.Errorf("metrics port: %w", err)
	}
	return nil
}

var (
	importTimeoutRange = config.DurationRange(time.Minute, time.Hour)
	concurrencyRange   = config.IntRange(1, 50)
	portRange          = config.IntRange(1024, 65535)
)

// LoadConfigFromEnv reads the worker settings. Invalid values fall back to
// their defaults and are reported through logger and metrics; the returned
// config always validates.
//
//	IMPORT_SCHEDULE        default */30 * * * *
//	WORKER_TIMEZONE        default Asia/Kolkata
//	IMPORT_FEEDS           comma separated feed URLs
//	IMPORT_TIMEOUT         default 10m, 1m to 1h
//	NOTIFY_MAX_CONCURRENT  default 10, 1 to 50
//	WORKER_HEALTH_PORT     default 9091
//	METRICS_PORT           default 9090
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}
	t := config.NewTracker(logger, cm)
	cfg := &WorkerConfig{
		ImportSchedule:      config.Track(t, "import_schedule", config.LoadString("IMPORT_SCHEDULE", DefaultImportSchedule, config.ValidateCronSchedule)),
		Timezone:            config.Track(t, "timezone", config.LoadString("WORKER_TIMEZONE", DefaultTimezone, config.ValidateTimezone)),
		Feeds:               config.Track(t, "import_feeds", config.LoadList("IMPORT_FEEDS", []string{DefaultImportFeed}, config.ValidateFeedURLs)),
		ImportTimeout:       config.Track(t, "import_timeout", config.LoadDuration("IMPORT_TIMEOUT", DefaultImportTimeout, importTimeoutRange)),
		NotifyMaxConcurrent: config.Track(t, "notify_max_concurrent", config.LoadInt("NOTIFY_MAX_CONCURRENT", DefaultNotifyMaxConcurrent, concurrencyRange)),
		HealthPort:          config.Track(t, "health_port", config.LoadInt("WORKER_HEALTH_PORT", DefaultHealthPort, portRange)),
		MetricsPort:         config.Track(t, "metrics_port", config.LoadInt("METRICS_PORT", DefaultMetricsPort, portRange)),
	}
	t.Done()
	return cfg
}
