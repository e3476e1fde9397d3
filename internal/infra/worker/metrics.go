package worker

import (
	"time"

	"tnsystems-site/internal/pkg/config"
	"tnsystems-site/internal/usecase/importer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job run statuses.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

type WorkerMetrics struct {
	*config.ConfigMetrics

	ImportRunsTotal          *prometheus.CounterVec
	ImportDurationSeconds    prometheus.Histogram
	ImportFeedsTotal         prometheus.Counter
	ImportItemsTotal         *prometheus.CounterVec
	ImportLastSuccessSeconds prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics on reg.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),
		ImportRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_import_runs_total",
			Help: "Import runs by status (started/success/failure)",
		}, []string{"status"}),
		ImportDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_import_duration_seconds",
			Help:    "Duration of import runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),
		ImportFeedsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_import_feeds_processed_total",
			Help: "Feeds processed across all import runs",
		}),
		ImportItemsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_import_items_total",
			Help: "Feed items by outcome (inserted/duplicated/failed)",
		}, []string{"outcome"}),
		ImportLastSuccessSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_import_last_success_timestamp",
			Help: "Unix timestamp of the last successful import run",
		}),
	}
}

func (m *WorkerMetrics) RecordRun(status string) {
	m.ImportRunsTotal.WithLabelValues(status).Inc()
}

func (m *WorkerMetrics) RecordDuration(d time.Duration) {
	m.ImportDurationSeconds.Observe(d.Seconds())
}

// RecordStats adds a finished run's counters and stamps the success time.
func (m *WorkerMetrics) RecordStats(s *importer.Stats) {
	m.ImportFeedsTotal.Add(float64(s.Feeds))
	m.ImportItemsTotal.WithLabelValues("inserted").Add(float64(s.Inserted))
	m.ImportItemsTotal.WithLabelValues("duplicated").Add(float64(s.Duplicated))
	m.ImportItemsTotal.WithLabelValues("failed").Add(float64(s.Failed))
	m.ImportLastSuccessSeconds.SetToCurrentTime()
}
