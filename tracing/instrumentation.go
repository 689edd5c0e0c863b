package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FFI-no/superflow/port"
)

// Instrumentation is the OpenTelemetry-backed port.Instrumentation
// implementation. A nil *Instrumentation is not usable; use
// NewInstrumentation. Pass the result (or leave nil) to any port
// constructor's instr argument.
type Instrumentation struct {
	transactions metric.Int64Counter
	connections  metric.Int64UpDownCounter
}

var _ port.Instrumentation = (*Instrumentation)(nil)

// NewInstrumentation creates a port.Instrumentation recorder backed by an
// OTel meter named meterName (typically the module path).
func NewInstrumentation(meterName string) (*Instrumentation, error) {
	meter := otel.Meter(meterName)

	transactions, err := meter.Int64Counter(
		"superflow.port.transactions",
		metric.WithDescription("Successful send/receive/request/respond/get operations per port."),
	)
	if err != nil {
		return nil, err
	}

	connections, err := meter.Int64UpDownCounter(
		"superflow.port.connections",
		metric.WithDescription("Current connection count per port."),
	)
	if err != nil {
		return nil, err
	}

	return &Instrumentation{transactions: transactions, connections: connections}, nil
}

// Transaction records one successful operation on the named port.
func (i *Instrumentation) Transaction(portID port.ID, portKind string) {
	i.transactions.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("port.id", portID.String()),
			attribute.String("port.kind", portKind),
		),
	)
}

// Connections reports count as a delta against an up-down counter scoped to
// this port's attributes; since every Connections call for a given port
// reports its full current count rather than a true delta, dashboards should
// read the counter's last value per port.id, not its running sum across
// ports.
func (i *Instrumentation) Connections(portID port.ID, portKind string, count int) {
	i.connections.Add(context.Background(), int64(count),
		metric.WithAttributes(
			attribute.String("port.id", portID.String()),
			attribute.String("port.kind", portKind),
		),
	)
}
