package port

import (
	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
)

// Future is a handle to one in-flight asynchronous request, resolved by
// RequestAsync. It is the Go stand-in for the original C++
// std::future<ReturnValue>.
type Future[Resp any] struct {
	result chan futureResult[Resp]
}

type futureResult[Resp any] struct {
	value Resp
	err   error
}

func newFuture[Resp any]() *Future[Resp] {
	return &Future[Resp]{result: make(chan futureResult[Resp], 1)}
}

func (f *Future[Resp]) resolve(v Resp, err error) {
	f.result <- futureResult[Resp]{value: v, err: err}
}

// Wait blocks until the request completes and returns its result or error.
func (f *Future[Resp]) Wait() (Resp, error) {
	r := <-f.result
	return r.value, r.err
}

// MultiRequesterPort fans a request out to every connected responder.
// Request calls each synchronously, in connection order, and returns their
// results; RequestAsync spawns one goroutine per responder and returns a
// Future per call, each independently resolvable.
type MultiRequesterPort[Req, Resp any] struct {
	base
	registry *ConnectionRegistry
}

// NewMultiRequesterPort creates a MultiRequesterPort.
func NewMultiRequesterPort[Req, Resp any](instr Instrumentation) *MultiRequesterPort[Req, Resp] {
	return &MultiRequesterPort[Req, Resp]{
		base:     newBase("multi_requester", instr),
		registry: NewConnectionRegistry(policy.Multi),
	}
}

// Connect wires this port to a responder-shaped peer.
func (m *MultiRequesterPort[Req, Resp]) Connect(peer any) error {
	r, ok := peer.(Responder[Req, Resp])
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	err := m.registry.Connect(m, r)
	m.recordConnections(m.registry.Count())
	return err
}

// Disconnect severs every connection. Infallible and idempotent.
func (m *MultiRequesterPort[Req, Resp]) Disconnect() {
	m.registry.Disconnect(m)
	m.recordConnections(0)
}

// DisconnectOne severs the connection to a single responder, if present.
func (m *MultiRequesterPort[Req, Resp]) DisconnectOne(peerID ID) {
	m.registry.DisconnectOne(m, peerID)
	m.recordConnections(m.registry.Count())
}

// IsConnected reports whether at least one responder is connected.
func (m *MultiRequesterPort[Req, Resp]) IsConnected() bool {
	return m.registry.IsConnected()
}

// Status returns the port's connection/transaction snapshot.
func (m *MultiRequesterPort[Req, Resp]) Status() Status {
	return Status{Connections: m.registry.Count(), Transactions: m.transactionCount()}
}

func (m *MultiRequesterPort[Req, Resp]) addPeer(peer Peer) error {
	if _, ok := peer.(Responder[Req, Resp]); !ok {
		return superflowerr.ErrTypeMismatch
	}
	err := m.registry.addPeer(peer)
	m.recordConnections(m.registry.Count())
	return err
}

func (m *MultiRequesterPort[Req, Resp]) removePeer(id ID) {
	m.registry.removePeer(id)
	m.recordConnections(m.registry.Count())
}

func (m *MultiRequesterPort[Req, Resp]) responders() []Responder[Req, Resp] {
	peers := m.registry.Peers()
	out := make([]Responder[Req, Resp], 0, len(peers))
	for _, p := range peers {
		if r, ok := p.(Responder[Req, Resp]); ok {
			out = append(out, r)
		}
	}
	return out
}

// Request calls every connected responder synchronously, in connection
// order, and returns their results. Fails fast on the first error.
func (m *MultiRequesterPort[Req, Resp]) Request(req Req) ([]Resp, error) {
	responders := m.responders()
	out := make([]Resp, 0, len(responders))
	for _, r := range responders {
		resp, err := r.respond(req)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	m.incrTransaction()
	return out, nil
}

// RequestAsync spawns one goroutine per connected responder and returns a
// Future per call, in connection order. Each Future is independently
// resolvable; one responder's failure does not affect the others.
func (m *MultiRequesterPort[Req, Resp]) RequestAsync(req Req) []*Future[Resp] {
	responders := m.responders()
	futures := make([]*Future[Resp], len(responders))
	for i, r := range responders {
		f := newFuture[Resp]()
		futures[i] = f
		go func(r Responder[Req, Resp]) {
			resp, err := r.respond(req)
			f.resolve(resp, err)
		}(r)
	}
	m.incrTransaction()
	return futures
}
