package worker

import (
	"testing"
	"time"

	"tnsystems-site/internal/usecase/importer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWorkerMetrics_RecordStats(t *testing.T) {
	t.Parallel()

	m := NewWorkerMetrics(prometheus.NewRegistry())
	m.RecordRun(StatusStarted)
	m.RecordRun(StatusSuccess)
	m.RecordDuration(3 * time.Second)
	m.RecordStats(&importer.Stats{Feeds: 2, FeedItems: 9, Inserted: 4, Duplicated: 4, Failed: 1})
	m.RecordStats(&importer.Stats{Feeds: 2, Inserted: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportRunsTotal.WithLabelValues(StatusStarted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportRunsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ImportRunsTotal.WithLabelValues(StatusFailure)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ImportFeedsTotal))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ImportItemsTotal.WithLabelValues("inserted")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ImportItemsTotal.WithLabelValues("duplicated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportItemsTotal.WithLabelValues("failed")))
	assert.Greater(t, testutil.ToFloat64(m.ImportLastSuccessSeconds), 0.0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.ImportDurationSeconds))
}

func TestNewWorkerMetrics_SeparateRegistries(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() {
		NewWorkerMetrics(prometheus.NewRegistry())
		NewWorkerMetrics(prometheus.NewRegistry())
	})
}
