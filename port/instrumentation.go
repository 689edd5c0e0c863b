package port

import "sync/atomic"

// Instrumentation is the optional hook every port kind uses to mirror its
// plain in-memory counters into an external telemetry system. A nil
// Instrumentation is always safe to use - ports are fully functional without
// one, matching viant-fluxor's "nil reporter means silent" convention in
// runtime/orchestrator and service/processor. The tracing package supplies
// the concrete OpenTelemetry-backed implementation.
type Instrumentation interface {
	// Transaction records one successful send/receive/request/respond/get on
	// the named port.
	Transaction(portID ID, portKind string)
	// Connections records the current connection count of the named port.
	Connections(portID ID, portKind string, count int)
}

type base struct {
	id           ID
	kind         string
	instr        Instrumentation
	transactions atomic.Uint64
}

func newBase(kind string, instr Instrumentation) base {
	return base{id: NewID(), kind: kind, instr: instr}
}

// Identity implements Peer.
func (b *base) Identity() ID { return b.id }

// incrTransaction bumps the plain counter and mirrors it into the optional
// Instrumentation hook.
func (b *base) incrTransaction() uint64 {
	n := b.transactions.Add(1)
	if b.instr != nil {
		b.instr.Transaction(b.id, b.kind)
	}
	return n
}

func (b *base) transactionCount() uint64 {
	return b.transactions.Load()
}

func (b *base) recordConnections(count int) {
	if b.instr != nil {
		b.instr.Connections(b.id, b.kind, count)
	}
}
