// Package tracing wires proxel lifecycle and graph start/stop into
// OpenTelemetry: a span per graph start/stop and per proxel Start call
// (StartSpan/EndSpan, used by graph.Graph and proxel.StartTraced), plus a
// span event per proxel state transition (RecordStateTransition, used by
// proxel.Base.SetState) so a trace viewer shows Running/Crashed/NotConnected
// etc. nested under the proxel.start span that produced them.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Init configures OpenTelemetry with the stdout exporter backed by either
// os.Stdout or outputFile. Safe to call multiple times - the first call that
// reaches provider installation decides the outcome; later calls install
// nothing and return that first call's error.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	return installProvider(serviceName, serviceVersion, exporter)
}

// InitWithExporter configures OpenTelemetry using exporter, enabling
// integrations other than the built-in stdout exporter (OTLP, Jaeger,
// Zipkin, ...). Safe to call multiple times, with the same first-call-wins
// rule as Init.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	return installProvider(serviceName, serviceVersion, exporter)
}

var (
	providerOnce sync.Once
	providerErr  error
)

func installProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}

	providerOnce.Do(func() {
		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				attribute.String("service.name", serviceName),
				attribute.String("service.version", serviceVersion),
			),
		)
		if err != nil {
			providerErr = err
			return
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		)

		otel.SetTracerProvider(tp)
	})

	return providerErr
}

// Span wraps go.opentelemetry.io/otel/trace.Span so callers don't need to
// import the upstream package directly.
type Span struct {
	span trace.Span
}

// WithAttributes attaches attrs to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		otelAttrs = append(otelAttrs, attribute.String(k, v))
	}
	s.span.SetAttributes(otelAttrs...)
	return s
}

// SetStatus records an error status on the span, or OK if err is nil.
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
}

// StartSpan starts a child span named name. kind maps onto the matching
// trace.SpanKind ("SERVER", "CLIENT", "PRODUCER", "CONSUMER"); anything
// else (including the graph/proxel lifecycle spans' own "INTERNAL") gets
// trace.SpanKindInternal.
func StartSpan(ctx context.Context, name, kind string) (context.Context, *Span) {
	tracer := otel.Tracer("github.com/FFI-no/superflow")

	var spanKind trace.SpanKind
	switch kind {
	case "SERVER":
		spanKind = trace.SpanKindServer
	case "CLIENT":
		spanKind = trace.SpanKindClient
	case "PRODUCER":
		spanKind = trace.SpanKindProducer
	case "CONSUMER":
		spanKind = trace.SpanKindConsumer
	default:
		spanKind = trace.SpanKindInternal
	}

	parentSpan := trace.SpanFromContext(ctx)
	ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(spanKind))

	if parentSpan != nil {
		if sc := parentSpan.SpanContext(); sc.IsValid() {
			span.SetAttributes(
				attribute.String("parent.trace_id", sc.TraceID().String()),
				attribute.String("parent.span_id", sc.SpanID().String()),
			)
		}
	}

	return ctx, &Span{span: span}
}

// EndSpan finalises sp and records status depending on err.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	sp.SetStatus(err)
	sp.span.End()
}

// RecordStateTransition adds a "proxel.state" event to the span active in
// ctx, tagged with the proxel's new State. proxel.Base.SetState calls this
// on every transition, so a trace viewer shows Running/Crashed/NotConnected
// etc. nested under whatever span StartTraced opened for that Start call.
// A no-op if ctx carries no recording span (SetState called outside Start,
// as unit tests routinely do).
func RecordStateTransition(ctx context.Context, state string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("proxel.state", trace.WithAttributes(
		attribute.String("proxel.state", state),
	))
}
