package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/respond"
	pgRepo "tnsystems-site/internal/infra/adapter/persistence/postgres"
	"tnsystems-site/internal/infra/db"
	"tnsystems-site/internal/infra/feed"
	"tnsystems-site/internal/infra/fetcher"
	workerPkg "tnsystems-site/internal/infra/worker"
	"tnsystems-site/internal/observability/logging"
	obsmetrics "tnsystems-site/internal/observability/metrics"
	"tnsystems-site/internal/observability/tracing"
	"tnsystems-site/internal/resilience/circuitbreaker"
	"tnsystems-site/internal/usecase/importer"
	"tnsystems-site/internal/usecase/notify"
	postUC "tnsystems-site/internal/usecase/post"
	envconfig "tnsystems-site/pkg/config"
)

// importRunner is satisfied by *importer.Service.
type importRunner interface {
	Run(ctx context.Context) (*importer.Stats, error)
}

func main() {
	_ = godotenv.Load()
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Init(tracing.Config{
		ServiceName: "tnsystems-site-worker",
		Version:     envconfig.GetEnvString("VERSION", "dev"),
		SampleRatio: envconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1),
	})

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := obsmetrics.RegisterDBStats(prometheus.DefaultRegisterer, database, "site"); err != nil {
		logger.Warn("database pool metrics unavailable", slog.Any("error", err))
	}

	metrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics)
	logger.Info("worker configuration loaded",
		slog.String("import_schedule", cfg.ImportSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Int("feeds", len(cfg.Feeds)),
		slog.Duration("import_timeout", cfg.ImportTimeout),
		slog.Int("notify_max_concurrent", cfg.NotifyMaxConcurrent),
		slog.Int("health_port", cfg.HealthPort))

	notifySvc := notify.NewService(notify.ChannelsFromEnv(logger), notify.Options{
		MaxConcurrent: cfg.NotifyMaxConcurrent,
		Logger:        logger,
	})

	metricsServer := startMetricsServer(logger, cfg.MetricsPort, notifySvc)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	svc := setupImportService(logger, database, cfg, notifySvc)

	c := cron.New(cron.WithLocation(cfg.Location()))
	if _, err := c.AddFunc(cfg.ImportSchedule, func() {
		runImportJob(ctx, logger, svc, cfg.ImportTimeout, metrics, healthServer)
	}); err != nil {
		logger.Error("failed to schedule import", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.ImportSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutdown signal received")
	healthServer.SetReady(false)

	// Stop waits for a running import; its context is already cancelled.
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := notifySvc.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notification shutdown incomplete", slog.Any("error", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", slog.Any("error", err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

// initDatabase opens the pool and waits for the API to apply migrations.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx, os.Getenv("DATABASE_URL"), db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := waitForMigrations(ctx, logger, database, 10, 3*time.Second); err != nil {
		logger.Error("migrations did not complete in time", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB, attempts int, interval time.Duration) error {
	const probe = "SELECT 1 FROM posts LIMIT 1"
	var err error
	for i := 0; i < attempts; i++ {
		if _, err = database.ExecContext(ctx, probe); err == nil {
			return nil
		}
		logger.Info("waiting for migrations", slog.Int("attempt", i+1), slog.Duration("retry_in", interval))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return err
}

func setupImportService(logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig, notifier importer.Notifier) *importer.Service {
	posts := pgRepo.NewPostRepo(circuitbreaker.WrapDB(database))

	contentCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("content fetch configuration invalid, keeping feed content as is", slog.Any("error", err))
		contentCfg = fetcher.DefaultConfig()
		contentCfg.Enabled = false
	}

	importCfg := importer.DefaultConfig()
	var content importer.ContentFetcher
	if contentCfg.Enabled {
		content = fetcher.NewReadabilityFetcher(contentCfg)
		importCfg.Parallelism = contentCfg.Parallelism
		importCfg.Threshold = contentCfg.Threshold
		logger.Info("content fetching enabled",
			slog.Int("threshold", contentCfg.Threshold),
			slog.Int("parallelism", contentCfg.Parallelism),
			slog.Duration("timeout", contentCfg.Timeout))
	}

	return &importer.Service{
		Feeds:          reachableFeeds(logger, cfg.Feeds),
		Fetcher:        feed.NewRSSFetcher(newFeedClient()),
		ContentFetcher: content,
		Posts:          posts,
		Creator:        &postUC.Service{Repo: posts},
		Notifier:       notifier,
		Config:         importCfg,
		Logger:         logger,
	}
}

// reachableFeeds drops feeds whose host resolves into a private network.
func reachableFeeds(logger *slog.Logger, feeds []string) []string {
	out := make([]string, 0, len(feeds))
	for _, f := range feeds {
		if err := entity.ValidateURL(f); err != nil {
			logger.Warn("import feed rejected", slog.String("feed", f), slog.Any("error", err))
			continue
		}
		out = append(out, f)
	}
	return out
}

// newFeedClient enforces TLS 1.2+ for upstream feeds.
func newFeedClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
}

// runImportJob runs one import bounded by timeout. Failures are logged with
// secrets masked and never stop the scheduler.
func runImportJob(parent context.Context, logger *slog.Logger, svc importRunner, timeout time.Duration, metrics *workerPkg.WorkerMetrics, health *workerPkg.HealthServer) {
	start := time.Now()
	metrics.RecordRun(workerPkg.StatusStarted)
	logger.Info("import started")

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	ctx, span := tracing.GetTracer().Start(ctx, "worker.import")
	defer span.End()

	stats, err := svc.Run(ctx)
	metrics.RecordDuration(time.Since(start))
	if err != nil {
		msg := respond.SanitizeError(err)
		span.SetStatus(codes.Error, msg)
		logger.Error("import failed", slog.String("error", msg))
		metrics.RecordRun(workerPkg.StatusFailure)
		health.ReportRun(workerPkg.RunReport{FinishedAt: time.Now(), Error: msg})
		return
	}

	span.SetAttributes(
		attribute.Int("import.feeds", stats.Feeds),
		attribute.Int64("import.inserted", stats.Inserted),
		attribute.Int64("import.duplicated", stats.Duplicated),
	)
	metrics.RecordRun(workerPkg.StatusSuccess)
	metrics.RecordStats(stats)
	health.ReportRun(workerPkg.RunReport{FinishedAt: time.Now(), Success: true, Inserted: stats.Inserted})
	logger.Info("import completed",
		slog.Int("feeds", stats.Feeds),
		slog.Int64("feed_items", stats.FeedItems),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
}
