package apm

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// TraceProvider is a started tracing backend that can be shut down.
type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }

// NewEmptyTraceProvider returns a no-op provider for when tracing is disabled.
func NewEmptyTraceProvider() TraceProvider {
	return emptyTraceProvider{}
}

// ExporterOptions selects and configures the span exporter.
type ExporterOptions struct {
	exporter sdktrace.SpanExporter
	name     string
	err      error
}

// ExporterOption selects a span exporter backend.
type ExporterOption func(*ExporterOptions)

// WithConsole exports pretty-printed spans to stdout. For development.
func WithConsole() ExporterOption {
	return func(o *ExporterOptions) {
		o.exporter, o.err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		o.name = "console"
	}
}

// WithZipkin exports spans to a Zipkin collector.
func WithZipkin(url string) ExporterOption {
	return func(o *ExporterOptions) {
		o.exporter, o.err = zipkin.New(url)
		o.name = "zipkin"
	}
}

// WithOTLPGRPC exports spans over OTLP gRPC.
func WithOTLPGRPC(endpoint string, headers map[string]string) ExporterOption {
	return func(o *ExporterOptions) {
		o.exporter, o.err = otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpointURL(endpoint),
			otlptracegrpc.WithHeaders(headers),
		)
		o.name = "otlp-grpc"
	}
}

// WithOTLPHTTP exports spans over OTLP HTTP.
func WithOTLPHTTP(endpoint string, headers map[string]string) ExporterOption {
	return func(o *ExporterOptions) {
		o.exporter, o.err = otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpointURL(endpoint),
			otlptracehttp.WithHeaders(headers),
		)
		o.name = "otlp-http"
	}
}

// NewTraceProvider builds a tracer provider with the selected exporter and
// installs it globally with W3C trace context propagation.
func NewTraceProvider(serviceName string, option ExporterOption) (TraceProvider, error) {
	opts := &ExporterOptions{}
	option(opts)
	if opts.err != nil {
		return nil, fmt.Errorf("creating %s exporter: %w", opts.name, opts.err)
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		))
	if err != nil {
		return nil, fmt.Errorf("building trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(opts.exporter),
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	return &traceProvider{tp}, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.tp.Shutdown(ctx)
}
