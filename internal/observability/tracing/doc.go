// Package tracing wires OpenTelemetry into the content API.
//
// Init installs an SDK tracer provider and the W3C trace-context propagator;
// Middleware opens one server span per request and echoes the trace ID in
// X-Trace-Id so a support request can be matched to server logs.
//
//	shutdown := tracing.Init(tracing.Config{ServiceName: "tnsystems-api", Version: version})
//	defer shutdown(context.Background())
package tracing
