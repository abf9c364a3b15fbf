// Package telemetry configures OpenTelemetry tracing and names the spans and
// SLIs the services emit.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TracerName is the instrumentation scope used by the core services.
const TracerName = "github.com/samirrijal/fieldproof"

// Span names.
const (
	SpanLocationAcquire = "location.acquire"
	SpanCapture         = "capture.photo"
	SpanMapView         = "map.view"
)

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP95      = "api.latency.p95"
	MetricLocationLatencyP95 = "location.acquire.p95"

	// Quality
	MetricFixAccuracy     = "location.accuracy_meters"
	MetricFallbackRatio   = "location.fallback_ratio"
	MetricUnlocatedPhotos = "capture.unlocated_ratio"
)

// InitTracer installs a global tracer provider exporting OTLP over gRPC to
// addr. The returned func flushes and stops the exporter.
func InitTracer(ctx context.Context, serviceName, addr string) (func(), error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(addr),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Warn("tracer shutdown", "error", err)
		}
	}, nil
}
