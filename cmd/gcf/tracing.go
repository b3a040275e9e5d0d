package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gcf/internal/version"
)

var (
	traceSpans     bool
	tracerProvider *sdktrace.TracerProvider
)

// tracingEnabled reports whether --trace was given or the standard
// OTEL_TRACES_EXPORTER variable asks for console output.
func tracingEnabled() bool {
	return traceSpans || os.Getenv("OTEL_TRACES_EXPORTER") == "console"
}

// setupTracing installs an SDK tracer provider that writes finished spans to
// w as JSON. Without tracing enabled the global no-op provider stays.
func setupTracing(w io.Writer) error {
	if !tracingEnabled() {
		return nil
	}
	shutdownTracing()
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return fmt.Errorf("creating trace exporter: %w", err)
	}
	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "gcf"),
			attribute.String("service.version", version.Version),
		)),
	)
	otel.SetTracerProvider(tracerProvider)
	return nil
}

// shutdownTracing flushes pending spans and restores the no-op provider.
func shutdownTracing() {
	if tracerProvider == nil {
		return
	}
	_ = tracerProvider.Shutdown(context.Background())
	tracerProvider = nil
	otel.SetTracerProvider(noop.NewTracerProvider())
}
