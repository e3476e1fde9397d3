package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workerPkg "tnsystems-site/internal/infra/worker"
	"tnsystems-site/internal/usecase/importer"
)

type stubRunner struct {
	stats *importer.Stats
	err   error
	ctx   context.Context
}

func (s *stubRunner) Run(ctx context.Context) (*importer.Stats, error) {
	s.ctx = ctx
	return s.stats, s.err
}

func quietLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

func readyBody(t *testing.T, h *workerPkg.HealthServer) string {
	t.Helper()
	h.SetReady(true)
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	return rec.Body.String()
}

func TestRunImportJob_Success(t *testing.T) {
	t.Parallel()

	metrics := workerPkg.NewWorkerMetrics(prometheus.NewRegistry())
	health := workerPkg.NewHealthServer(":0", quietLogger(io.Discard))
	runner := &stubRunner{stats: &importer.Stats{Feeds: 1, FeedItems: 3, Inserted: 2, Duplicated: 1}}

	runImportJob(context.Background(), quietLogger(io.Discard), runner, time.Minute, metrics, health)

	deadline, ok := runner.ctx.Deadline()
	require.True(t, ok, "import must run with a deadline")
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ImportRunsTotal.WithLabelValues(workerPkg.StatusSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ImportItemsTotal.WithLabelValues("inserted")))
	assert.Contains(t, readyBody(t, health), `"success":true`)
}

func TestRunImportJob_FailureMasksSecrets(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	metrics := workerPkg.NewWorkerMetrics(prometheus.NewRegistry())
	health := workerPkg.NewHealthServer(":0", quietLogger(io.Discard))
	runner := &stubRunner{err: errors.New("dial postgres://site:hunter2@db:5432/site: refused")}

	runImportJob(context.Background(), quietLogger(&logs), runner, time.Minute, metrics, health)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ImportRunsTotal.WithLabelValues(workerPkg.StatusFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ImportLastSuccessSeconds))
	assert.NotContains(t, logs.String(), "hunter2")
	body := readyBody(t, health)
	assert.Contains(t, body, `"success":false`)
	assert.NotContains(t, body, "hunter2")
}

func TestWaitForMigrations(t *testing.T) {
	t.Parallel()

	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	mock.ExpectExec("SELECT 1 FROM posts").WillReturnError(errors.New(`relation "posts" does not exist`))
	mock.ExpectExec("SELECT 1 FROM posts").WillReturnResult(sqlmock.NewResult(0, 0))

	err = waitForMigrations(context.Background(), quietLogger(io.Discard), database, 3, time.Millisecond)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForMigrations_GivesUp(t *testing.T) {
	t.Parallel()

	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	for i := 0; i < 2; i++ {
		mock.ExpectExec("SELECT 1 FROM posts").WillReturnError(errors.New("not yet"))
	}

	err = waitForMigrations(context.Background(), quietLogger(io.Discard), database, 2, time.Millisecond)
	assert.EqualError(t, err, "not yet")
}
