package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDuration(t *testing.T) {
	tests := []struct {
		name         string
		env          string
		want         time.Duration
		wantFallback bool
		wantFromEnv  bool
	}{
		{"unset uses default", "", time.Minute, false, false},
		{"valid", "90s", 90 * time.Second, false, true},
		{"unparseable", "soon", time.Minute, true, false},
		{"out of range", "2h", time.Minute, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_IMPORT_TIMEOUT", tt.env)
			got := LoadDuration("TEST_IMPORT_TIMEOUT", time.Minute, DurationRange(time.Second, time.Hour))
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.wantFallback, got.Fallback)
			assert.Equal(t, tt.wantFromEnv, got.FromEnv)
			if tt.wantFallback {
				assert.Contains(t, got.Warning, "TEST_IMPORT_TIMEOUT")
			}
		})
	}
}

func TestLoadInt(t *testing.T) {
	t.Setenv("TEST_PARALLELISM", "12")
	assert.Equal(t, 12, LoadInt("TEST_PARALLELISM", 3, IntRange(1, 32)).Value)

	t.Setenv("TEST_PARALLELISM", "0")
	got := LoadInt("TEST_PARALLELISM", 3, IntRange(1, 32))
	assert.Equal(t, 3, got.Value)
	assert.True(t, got.Fallback)
}

func TestLoadBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "yes")
	got := LoadBool("TEST_FLAG", true)
	assert.True(t, got.Value)
	assert.True(t, got.Fallback)

	t.Setenv("TEST_FLAG", "false")
	assert.False(t, LoadBool("TEST_FLAG", true).Value)
}

func TestLoadList(t *testing.T) {
	def := []string{"https://tnsystems.in/feed/"}

	t.Setenv("TEST_FEEDS", " https://a.example/feed/ ,, https://b.example/feed/ ")
	got := LoadList("TEST_FEEDS", def, ValidateFeedURLs)
	if diff := cmp.Diff([]string{"https://a.example/feed/", "https://b.example/feed/"}, got.Value); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("TEST_FEEDS", "https://a.example/feed/,ftp://b.example/feed")
	got = LoadList("TEST_FEEDS", def, ValidateFeedURLs)
	assert.True(t, got.Fallback)
	assert.Equal(t, def, got.Value)

	t.Setenv("TEST_FEEDS", " , ")
	assert.True(t, LoadList("TEST_FEEDS", def, nil).Fallback)
}

func TestValidateCronSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"*/30 * * * *", false},
		{"30 5 * * 1-5", false},
		{"@hourly", true},
		{"* * *", true},
		{"61 * * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			t.Parallel()
			err := ValidateCronSchedule(tt.schedule)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateTimezone("Asia/Kolkata"))
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
}

func TestTracker(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConfigMetrics("test", reg)
	tr := NewTracker(nil, m)

	t.Setenv("TEST_SCHEDULE", "never")
	schedule := Track(tr, "schedule", LoadString("TEST_SCHEDULE", "*/30 * * * *", ValidateCronSchedule))
	port := Track(tr, "port", LoadInt("TEST_UNSET_PORT", 9091, nil))
	tr.Done()

	assert.Equal(t, "*/30 * * * *", schedule)
	assert.Equal(t, 9091, port)
	require.Equal(t, []string{"schedule"}, tr.Fallbacks())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), 0.0)
}

func TestTracker_CleanLoadClearsGauge(t *testing.T) {
	m := NewConfigMetrics("clean", prometheus.NewRegistry())
	m.SetFallbackActive(true)

	tr := NewTracker(nil, m)
	Track(tr, "port", LoadInt("TEST_UNSET_PORT", 9091, nil))
	tr.Done()

	assert.Empty(t, tr.Fallbacks())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbackActive))
}
