package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"tnsystems-site/internal/common/pagination"
	sitecfg "tnsystems-site/internal/config"
	pgRepo "tnsystems-site/internal/infra/adapter/persistence/postgres"
	"tnsystems-site/internal/infra/db"
	"tnsystems-site/internal/observability/logging"
	"tnsystems-site/internal/observability/metrics"
	"tnsystems-site/internal/observability/tracing"
	"tnsystems-site/internal/resilience/circuitbreaker"
	envconfig "tnsystems-site/pkg/config"
	"tnsystems-site/pkg/security/csp"

	applyUC "tnsystems-site/internal/usecase/apply"
	contactUC "tnsystems-site/internal/usecase/contact"
	jobUC "tnsystems-site/internal/usecase/job"
	"tnsystems-site/internal/usecase/notify"
	postUC "tnsystems-site/internal/usecase/post"

	hhttp "tnsystems-site/internal/handler/http"
	hauth "tnsystems-site/internal/handler/http/auth"
	hjob "tnsystems-site/internal/handler/http/job"
	"tnsystems-site/internal/handler/http/middleware"
	hpost "tnsystems-site/internal/handler/http/post"
	"tnsystems-site/internal/handler/http/requestid"
	hsubmission "tnsystems-site/internal/handler/http/submission"
	authservice "tnsystems-site/internal/service/auth"

	_ "tnsystems-site/docs" // swagger docs
)

// @title           TN Systems Content API
// @version         1.0
// @description     Posts, job listings, job applications and contact form submissions
// @description     for the TN Systems site, served in WordPress REST shapes.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT from /auth/token, sent as "Bearer {token}".

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := initLogger()
	security := loadSecurityConfig(logger)
	validateAdminCredentials(logger)
	hauth.ValidateEditorCredentials(logger)
	validateJWTSecret(logger, security)

	version := getVersion()
	shutdownTracing := tracing.Init(tracing.Config{
		ServiceName: "tnsystems-api",
		Version:     version,
		SampleRatio: envconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1),
	})

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, database, security, version)
	runServer(logger, components, version)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// loadSecurityConfig reads SECURITY_CONFIG (a YAML file) when set.
func loadSecurityConfig(logger *slog.Logger) *sitecfg.SecurityConfig {
	cfg, err := sitecfg.LoadSecurityConfig(os.Getenv("SECURITY_CONFIG"))
	if err != nil {
		logger.Error("failed to load security configuration", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// validateAdminCredentials refuses to start with empty or weak admin credentials.
func validateAdminCredentials(logger *slog.Logger) {
	if err := hauth.ValidateAdminCredentials(); err != nil {
		logger.Error("admin credentials validation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// validateJWTSecret enforces a 256-bit secret. When the security file names
// another variable, its value is copied to JWT_SECRET, which Authz reads.
func validateJWTSecret(logger *slog.Logger, security *sitecfg.SecurityConfig) {
	name := security.Security.JWT.SecretEnv
	secret := os.Getenv(name)
	if secret == "" {
		logger.Error("JWT secret must be set", slog.String("env", name))
		os.Exit(1)
	}
	if len(secret) < 32 {
		logger.Error("JWT secret must be at least 32 characters (256 bits)", slog.String("env", name))
		os.Exit(1)
	}
	if slices.Contains([]string{"secret", "password", "changeme", "default"}, secret) {
		logger.Error("JWT secret must not be a common weak value", slog.String("env", name))
		os.Exit(1)
	}
	if name != hauth.JWTSecretEnv {
		if err := os.Setenv(hauth.JWTSecretEnv, secret); err != nil {
			logger.Error("failed to export JWT secret", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

// initDatabase opens the pool and applies migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open(context.Background(), os.Getenv("DATABASE_URL"), db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(context.Background(), database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := metrics.RegisterDBStats(prometheus.DefaultRegisterer, database, "site"); err != nil {
		logger.Warn("database pool metrics unavailable", slog.Any("error", err))
	}
	return database
}

func getVersion() string {
	return envconfig.GetEnvString("VERSION", "dev")
}

// ServerComponents holds what runServer needs to serve and to clean up.
type ServerComponents struct {
	Handler           http.Handler
	Server            envconfig.ServerConfig
	Notify            notify.Service
	AuthLimiter       *middleware.RateLimiter
	SubmissionLimiter *middleware.RateLimiter
	CleanupInterval   time.Duration
}

// setupServer wires repositories, use cases and routes and wraps them in the
// middleware chain.
func setupServer(logger *slog.Logger, database *sql.DB, security *sitecfg.SecurityConfig, version string) *ServerComponents {
	serverCfg := envconfig.LoadServerConfig()

	limitCfg, err := envconfig.LoadSubmissionLimitConfig()
	if err != nil {
		logger.Error("failed to load submission rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}
	ipExtractor := middleware.NewIPExtractor(limitCfg.TrustProxy, limitCfg.TrustedProxies)
	if limitCfg.TrustProxy {
		logger.Info("client IPs: trusted proxy mode",
			slog.Int("trusted_proxies_count", len(limitCfg.TrustedProxies)))
	} else {
		logger.Info("client IPs: using RemoteAddr, proxy headers ignored")
	}

	var submissionLimiter *middleware.RateLimiter
	if limitCfg.Enabled {
		submissionLimiter = middleware.NewRateLimiter(limitCfg.Limit, limitCfg.Window, ipExtractor)
		logger.Info("submission rate limiting enabled",
			slog.Int("limit", limitCfg.Limit),
			slog.Duration("window", limitCfg.Window))
	} else {
		logger.Warn("submission rate limiting is DISABLED - not recommended for production")
	}
	// 5 token requests per minute per IP
	authLimiter := middleware.NewRateLimiter(5, time.Minute, ipExtractor)

	// Repositories query through the breaker.
	dbBreaker := circuitbreaker.WrapDB(database)

	notifySvc := notify.NewService(notify.ChannelsFromEnv(logger), notify.Options{
		MaxConcurrent: envconfig.GetEnvInt("NOTIFY_MAX_CONCURRENT", 10),
		Logger:        logger,
	})

	jobRepo := pgRepo.NewJobRepo(dbBreaker)
	postSvc := &postUC.Service{Repo: pgRepo.NewPostRepo(dbBreaker)}
	jobSvc := &jobUC.Service{Repo: jobRepo}
	applySvc := &applyUC.Service{
		Jobs:         jobRepo,
		Applications: pgRepo.NewApplicationRepo(dbBreaker),
		Notifier:     notifySvc,
	}
	contactSvc := &contactUC.Service{
		Forms:    contactUC.DefaultRegistry(),
		Repo:     pgRepo.NewContactRepo(dbBreaker),
		Notifier: notifySvc,
	}

	authProvider := hauth.NewEnvProvider(security.Security.Auth.MinPasswordLength, weakPasswords(security))
	authService := authservice.NewService(authProvider)
	logger.Info("auth provider ready", slog.String("provider", authProvider.Name()))

	paginationCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	mux.Handle("POST /auth/token", authLimiter.Middleware(hauth.TokenHandler(authService, security.TokenTTL())))
	mux.Handle("GET /health", &hhttp.HealthHandler{
		Version: version,
		Checks: []hhttp.Check{
			hhttp.DatabaseCheck(database),
			hhttp.BreakerCheck("database_circuit_breaker", dbBreaker),
			hhttp.ChannelsCheck(notifySvc),
		},
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	hpost.Register(mux, postSvc, paginationCfg, logger)
	hjob.Register(mux, jobSvc, applySvc, paginationCfg, logger)
	hsubmission.Register(mux, applySvc, contactSvc, submissionLimiter, ipExtractor, logger)

	return &ServerComponents{
		Handler:           applyMiddleware(logger, mux, serverCfg),
		Server:            serverCfg,
		Notify:            notifySvc,
		AuthLimiter:       authLimiter,
		SubmissionLimiter: submissionLimiter,
		CleanupInterval:   limitCfg.CleanupInterval,
	}
}

func weakPasswords(security *sitecfg.SecurityConfig) []string {
	if list := security.Security.Auth.WeakPasswords; len(list) > 0 {
		return list
	}
	return hauth.DefaultWeakPasswords
}

// applyMiddleware wraps the mux, outermost first:
// CORS → Request ID → Recovery → Security headers → Logging → Limits → Tracing → Metrics → Timeout.
func applyMiddleware(logger *slog.Logger, handler http.Handler, serverCfg envconfig.ServerConfig) http.Handler {
	corsCfg := envconfig.LoadCORSConfig()
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsCfg.AllowedOrigins),
		slog.Int("max_age", corsCfg.MaxAge))

	chain := handler
	chain = hhttp.Timeout(envconfig.GetEnvDuration("HTTP_HANDLER_TIMEOUT", 30*time.Second))(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.LimitRequest(serverCfg.MaxBodyBytes)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = csp.Middleware(csp.APIPolicy(), csp.Route{Prefix: "/swagger/", Policy: csp.DocsPolicy()})(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: corsCfg.AllowedOrigins,
		MaxAge:         corsCfg.MaxAge,
		Logger:         logger,
	})(chain)
	return chain
}

// runServer serves until SIGINT or SIGTERM, then drains requests and
// pending notifications.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go components.AuthLimiter.StartCleanup(ctx, components.CleanupInterval)
	if components.SubmissionLimiter != nil {
		go components.SubmissionLimiter.StartCleanup(ctx, components.CleanupInterval)
	}

	srv := &http.Server{
		Addr:              components.Server.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), components.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := components.Notify.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notifications not drained", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
