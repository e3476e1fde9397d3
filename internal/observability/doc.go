// Package observability groups the logging, metrics and tracing support shared
// by the API server, the import worker and the site CLI. The logging package
// builds slog loggers, metrics holds the Prometheus business counters and
// tracing sets up OpenTelemetry and its HTTP middleware.
//
//	logger := logging.NewLogger()
//	logger.Info("application started")
//	metrics.RecordSubmission("contact", "accepted")
package observability
