// Package progress defines primitives for reporting and aggregating the
// aggregated proxel-state counts of a running graph.Graph. It abstracts away
// the underlying communication mechanism so callers can consume progress
// updates uniformly regardless of whether they are delivered via a
// registered callback or a point-in-time snapshot.
package progress
