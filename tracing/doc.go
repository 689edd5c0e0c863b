// Package tracing integrates OpenTelemetry with the runtime to provide
// distributed tracing information for proxel lifecycle transitions and graph
// start/stop, and a port.Instrumentation adapter for per-port counters. All
// instrumentation is kept in a separate package so that applications which do
// not require tracing can exclude it from their build.
package tracing
