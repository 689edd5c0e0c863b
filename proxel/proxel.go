package proxel

import (
	"context"
	"sync/atomic"

	"github.com/FFI-no/superflow/port"
	"github.com/FFI-no/superflow/support"
	"github.com/FFI-no/superflow/tracing"
)

// Proxel is the runtime's processing-element abstraction, grounded on
// proxel.h: a named port map plus a start/stop lifecycle. Start is expected
// to run until Stop is called; Stop must be safe to call at any time
// (including before Start, or more than once) and must unblock a running
// Start in bounded time.
type Proxel interface {
	// Start prepares the proxel for processing and runs until Stop is
	// called. It is invoked on its own goroutine by Graph.
	Start(ctx context.Context)
	// Stop requests Start to return. Idempotent and safe to call
	// concurrently with Start.
	Stop()
	// GetPort returns the named port, or ErrNotFound.
	GetPort(name string) (port.Port, error)
	// GetPorts returns every named port.
	GetPorts() map[string]port.Port
	// Status returns the proxel's current status snapshot.
	Status() Status
}

// Base implements the bookkeeping every concrete Proxel needs: the named
// port map, mutable state/info fields, and the span-wrapped Start hook Graph
// uses to drive tracing. Concrete proxels embed Base and implement their own
// Start/Stop business logic, calling SetState/SetInfo as they progress
// through states - the same shape as the original C++ protected
// setState/setStatusInfo/registerPorts.
type Base struct {
	ports map[string]port.Port

	state atomic.Int64
	info  *support.Mutexed[string]
}

// NewBase creates a Base with the given named ports already registered.
func NewBase(ports map[string]port.Port) Base {
	b := Base{ports: ports, info: support.NewMutexed("")}
	b.state.Store(int64(Undefined))
	return b
}

// RegisterPorts adds to (or replaces entries in) the port map. Intended to
// be called once, during a concrete proxel's constructor.
func (b *Base) RegisterPorts(ports map[string]port.Port) {
	for name, p := range ports {
		b.ports[name] = p
	}
}

// SetState updates the proxel's coarse-grained state and, if ctx carries a
// recording span (set up by StartTraced), records the transition against it
// via tracing.RecordStateTransition.
func (b *Base) SetState(ctx context.Context, state State) {
	b.state.Store(int64(state))
	tracing.RecordStateTransition(ctx, state.String())
}

// SetInfo updates the proxel's free-form status info string.
func (b *Base) SetInfo(info string) {
	b.info.Store(info)
}

// GetPort implements Proxel.
func (b *Base) GetPort(name string) (port.Port, error) {
	p, ok := b.ports[name]
	if !ok {
		return nil, notFoundError(name)
	}
	return p, nil
}

// GetPorts implements Proxel.
func (b *Base) GetPorts() map[string]port.Port {
	out := make(map[string]port.Port, len(b.ports))
	for name, p := range b.ports {
		out[name] = p
	}
	return out
}

// Status implements Proxel, snapshotting the state/info pair plus every
// named port's own Status.
func (b *Base) Status() Status {
	ports := make(map[string]port.Status, len(b.ports))
	for name, p := range b.ports {
		ports[name] = p.Status()
	}
	return Status{
		State: State(b.state.Load()),
		Info:  b.info.Load(),
		Ports: ports,
	}
}

// StartTraced wraps a concrete proxel's start-up work in an OTel span named
// "proxel.start <id>", mirroring tracing.StartSpan/EndSpan usage elsewhere
// in the runtime. graph.Graph's worker calls this around each proxel's Start,
// so the ctx a proxel's Start receives already carries that span.
func StartTraced(ctx context.Context, id string, work func(ctx context.Context)) {
	ctx, span := tracing.StartSpan(ctx, "proxel.start "+id, "INTERNAL")
	defer tracing.EndSpan(span, nil)
	work(ctx)
}
