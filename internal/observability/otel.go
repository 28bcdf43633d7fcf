// Package observability wires OpenTelemetry tracing for the HTTP layer:
// exporter and provider setup at startup, and span annotation when the error
// translator emits an error response.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"google.golang.org/grpc/credentials"

	"github.com/tbourn/go-api-errors/internal/config"
)

// Span attribute keys set by RecordAPIError.
const (
	AttrErrorCode   = attribute.Key("api.error.code")
	AttrErrorStatus = attribute.Key("api.error.status_code")
)

// SetupOTel installs a global tracer provider exporting over OTLP/gRPC and
// returns its shutdown function. When tracing is disabled the global no-op
// provider is left in place and the returned shutdown does nothing.
//
// Spans created by otelgin for each request carry the error annotations added
// by RecordAPIError.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, version string) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}
	exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("observability: otlp exporter: %w", err)
	}

	tp, err := newTracerProvider(ctx, exp, cfg, version)
	if err != nil {
		_ = exp.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// newTracerProvider batches spans to exp, tagged with the service name and
// version, sampling cfg.SampleRatio of root traces.
func newTracerProvider(ctx context.Context, exp sdktrace.SpanExporter, cfg config.OTELConfig, version string) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("observability: resource: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	), nil
}

// RecordAPIError annotates the span in ctx with the error response being
// sent. 5xx responses mark the span as failed and record cause when present;
// 4xx responses are client errors and leave the span status unset.
func RecordAPIError(ctx context.Context, code string, status int, cause error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(AttrErrorCode.String(code), AttrErrorStatus.Int(status))
	if status < 500 {
		return
	}
	if cause != nil {
		span.RecordError(cause)
	}
	span.SetStatus(codes.Error, code)
}
