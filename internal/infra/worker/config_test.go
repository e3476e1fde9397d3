package worker

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"IMPORT_SCHEDULE", "WORKER_TIMEZONE", "IMPORT_FEEDS", "IMPORT_TIMEOUT", "NOTIFY_MAX_CONCURRENT", "WORKER_HEALTH_PORT", "METRICS_PORT"} {
		t.Setenv(k, "")
	}

	got := LoadConfigFromEnv(discard(), nil)

	want := &WorkerConfig{
		ImportSchedule:      "*/30 * * * *",
		Timezone:            "Asia/Kolkata",
		Feeds:               []string{"https://tnsystems.in/feed/"},
		ImportTimeout:       10 * time.Minute,
		NotifyMaxConcurrent: 10,
		HealthPort:          9091,
		MetricsPort:         9090,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, got.Validate())
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("IMPORT_SCHEDULE", "0 * * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("IMPORT_FEEDS", "https://tnsystems.in/feed/, https://tnsystems.in/careers/feed/")
	t.Setenv("IMPORT_TIMEOUT", "5m")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "4")
	t.Setenv("WORKER_HEALTH_PORT", "8081")
	t.Setenv("METRICS_PORT", "8082")

	got := LoadConfigFromEnv(discard(), nil)

	assert.Equal(t, "0 * * * *", got.ImportSchedule)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, []string{"https://tnsystems.in/feed/", "https://tnsystems.in/careers/feed/"}, got.Feeds)
	assert.Equal(t, 5*time.Minute, got.ImportTimeout)
	assert.Equal(t, 4, got.NotifyMaxConcurrent)
	assert.Equal(t, 8081, got.HealthPort)
	assert.Equal(t, 8082, got.MetricsPort)
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("IMPORT_SCHEDULE", "every half hour")
	t.Setenv("WORKER_TIMEZONE", "Nowhere/City")
	t.Setenv("IMPORT_FEEDS", "file:///etc/passwd")
	t.Setenv("IMPORT_TIMEOUT", "5s")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "500")
	t.Setenv("WORKER_HEALTH_PORT", "80")
	t.Setenv("METRICS_PORT", "")

	m := NewWorkerMetrics(prometheus.NewRegistry())
	got := LoadConfigFromEnv(discard(), m)

	assert.Equal(t, DefaultImportSchedule, got.ImportSchedule)
	assert.Equal(t, DefaultTimezone, got.Timezone)
	assert.Equal(t, []string{DefaultImportFeed}, got.Feeds)
	assert.Equal(t, DefaultImportTimeout, got.ImportTimeout)
	assert.Equal(t, DefaultNotifyMaxConcurrent, got.NotifyMaxConcurrent)
	assert.Equal(t, DefaultHealthPort, got.HealthPort)
	require.NoError(t, got.Validate())

	for _, field := range []string{"import_schedule", "timezone", "import_feeds", "import_timeout", "notify_max_concurrent", "health_port"} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues(field)), field)
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("metrics_port")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
}

func TestWorkerConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() WorkerConfig {
		return WorkerConfig{
			ImportSchedule:      DefaultImportSchedule,
			Timezone:            DefaultTimezone,
			Feeds:               []string{DefaultImportFeed},
			ImportTimeout:       DefaultImportTimeout,
			NotifyMaxConcurrent: DefaultNotifyMaxConcurrent,
			HealthPort:          DefaultHealthPort,
			MetricsPort:         DefaultMetricsPort,
		}
	}

	tests := []struct {
		name   string
		mutate func(*WorkerConfig)
	}{
		{"bad schedule", func(c *WorkerConfig) { c.ImportSchedule = "@daily" }},
		{"bad timezone", func(c *WorkerConfig) { c.Timezone = "Moon/Base" }},
		{"no feeds", func(c *WorkerConfig) { c.Feeds = nil }},
		{"bad feed", func(c *WorkerConfig) { c.Feeds = []string{"tnsystems.in/feed"} }},
		{"timeout too long", func(c *WorkerConfig) { c.ImportTimeout = 2 * time.Hour }},
		{"zero concurrency", func(c *WorkerConfig) { c.NotifyMaxConcurrent = 0 }},
		{"privileged port", func(c *WorkerConfig) { c.HealthPort = 443 }},
		{"metrics port", func(c *WorkerConfig) { c.MetricsPort = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			require.NoError(t, c.Validate())
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestWorkerConfig_LocationFallsBackToUTC(t *testing.T) {
	t.Parallel()
	c := &WorkerConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, c.Location())
}
