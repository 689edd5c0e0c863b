package superflow

import (
	"github.com/viant/afs"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/FFI-no/superflow/graph"
	"github.com/FFI-no/superflow/tracing"
)

// Option configures a Service at construction time.
type Option func(s *Service)

// WithHandleExceptions sets whether a Runtime built by this Service
// recovers a panicking proxel (the default, true) or lets the panic
// propagate and crash the process - the same trade-off graph.Graph.Start
// exposes directly.
func WithHandleExceptions(handle bool) Option {
	return func(s *Service) { s.handleExceptions = handle }
}

// WithCrashReporter overrides graph.DefaultCrashReporter for every Runtime
// this Service builds.
func WithCrashReporter(reporter graph.CrashReporter) Option {
	return func(s *Service) { s.crashReporter = reporter }
}

// WithAFS overrides the afs.Service LoadGraph downloads graph documents
// through, e.g. to restrict reachable schemes or inject an authenticated
// client.
func WithAFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithTracing configures OpenTelemetry tracing for the process. If
// outputFile is empty the stdout exporter is used; otherwise traces are
// written to the given file path. Safe to call multiple times, with the same
// first-call-wins rule as tracing.Init.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) { _ = tracing.Init(serviceName, serviceVersion, outputFile) }
}

// WithTracingExporter is WithTracing for a caller-supplied SpanExporter,
// enabling integrations other than the built-in stdout exporter (OTLP,
// Jaeger, Zipkin, ...).
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) { _ = tracing.InitWithExporter(serviceName, serviceVersion, exporter) }
}
