package superflow

import (
	"context"

	"github.com/FFI-no/superflow/graph"
	"github.com/FFI-no/superflow/proxel"
)

// Runtime wraps one built graph.Graph with the Start/Shutdown convenience a
// caller wants around the lower-level Graph API.
type Runtime struct {
	graph            *graph.Graph
	handleExceptions bool
	crashReporter    graph.CrashReporter
}

// Start launches every proxel in the graph, each on its own goroutine.
// Returns superflowerr.ErrAlreadyRunning if already started.
func (r *Runtime) Start(ctx context.Context) error {
	return r.graph.Start(ctx, r.handleExceptions, r.crashReporter)
}

// Shutdown stops every proxel and waits for its worker goroutine to
// return. A no-op if the Runtime was never started.
func (r *Runtime) Shutdown(context.Context) error {
	r.graph.Stop()
	return nil
}

// Status returns the current Status of every proxel in the graph.
func (r *Runtime) Status() proxel.StatusMap {
	return r.graph.Status()
}

// Connect wires lhsPort of the lhs proxel to rhsPort of the rhs proxel
// after the graph has already been built - useful for wiring a capability
// port (an InterfaceHost to an InterfaceClient, say) assembled outside the
// declarative GraphSpec.
func (r *Runtime) Connect(lhs, lhsPort, rhs, rhsPort string) error {
	return r.graph.Connect(lhs, lhsPort, rhs, rhsPort)
}

// Get retrieves the proxel registered under id, asserted to type Sub.
func Get[Sub any](r *Runtime, id string) (Sub, error) {
	return graph.Get[Sub](r.graph, id)
}
