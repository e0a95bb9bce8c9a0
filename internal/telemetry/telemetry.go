// Package telemetry configures the OpenTelemetry tracer provider used by the
// service layer.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config controls tracer provider construction
type Config struct {
	Enabled     bool
	ServiceName string
	SampleRatio float64
}

// ShutdownFunc flushes and stops the tracer provider
type ShutdownFunc func(ctx context.Context) error

// Setup builds a tracer provider and installs it, with W3C trace context
// propagation, as the global provider.
// When tracing is disabled the provider never samples, so spans cost a
// context allocation and nothing more.
func Setup(cfg Config, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, ShutdownFunc) {
	tp := NewProvider(cfg, opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp, tp.Shutdown
}

// NewProvider builds a tracer provider without touching global state.
// Extra options (span processors, exporters) are applied last.
func NewProvider(cfg Config, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	sampler := sdktrace.NeverSample()
	if cfg.Enabled {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	base := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sampler),
		sdktrace.WithResource(res),
	}
	return sdktrace.NewTracerProvider(append(base, opts...)...)
}
