package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "tnsystems-site"

// Config selects the service identity and sampling ratio.
type Config struct {
	ServiceName string
	Version     string
	// SampleRatio in [0,1]; values outside that range mean "sample everything".
	SampleRatio float64
}

// Init installs a global tracer provider. Spans are sampled parent-first so
// an upstream sampling decision carried in traceparent is honoured. The
// returned function flushes and stops the provider.
func Init(cfg Config) func(context.Context) error {
	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}

// GetTracer returns the tracer of the current global provider.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "import.feed")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
