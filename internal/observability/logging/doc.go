// Package logging provides log/slog constructors and context helpers.
//
// Servers log JSON to stdout; the CLI logs text to stderr:
//
//	logger := logging.NewLogger()
//	cli := logging.NewTextLogger(os.Stderr, logging.ParseLevel(flagLevel))
//	logging.WithRequestID(ctx, logger).Info("processing request")
package logging
