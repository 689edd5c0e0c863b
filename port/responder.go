package port

import (
	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
)

// ResponderPort holds a user-supplied callback and serves it to any number
// of connected requesters (ConnectionRegistry<Multi>), matching the
// original's "one responder may serve many requesters".
type ResponderPort[Req, Resp any] struct {
	base
	registry *ConnectionRegistry
	callback func(Req) (Resp, error)
}

// NewResponderPort creates a ResponderPort invoking cb for every Respond
// call.
func NewResponderPort[Req, Resp any](cb func(Req) (Resp, error), instr Instrumentation) *ResponderPort[Req, Resp] {
	return &ResponderPort[Req, Resp]{
		base:     newBase("responder", instr),
		registry: NewConnectionRegistry(policy.Multi),
		callback: cb,
	}
}

// respond implements Responder[Req,Resp]: invoke the callback, increment
// the transaction counter, and return its result.
func (r *ResponderPort[Req, Resp]) respond(req Req) (Resp, error) {
	resp, err := r.callback(req)
	if err == nil {
		r.incrTransaction()
	}
	return resp, err
}

// Respond is the same call, exposed publicly for a responder owner that
// wants to invoke its own callback directly (e.g. from a test).
func (r *ResponderPort[Req, Resp]) Respond(req Req) (Resp, error) {
	return r.respond(req)
}

// Connect wires this responder to a requester-shaped peer.
func (r *ResponderPort[Req, Resp]) Connect(peer any) error {
	p, ok := peer.(Peer)
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	err := r.registry.Connect(r, p)
	r.recordConnections(r.registry.Count())
	return err
}

// Disconnect severs every connection. Infallible and idempotent.
func (r *ResponderPort[Req, Resp]) Disconnect() {
	r.registry.Disconnect(r)
	r.recordConnections(0)
}

// DisconnectOne severs the connection to a single requester, if present -
// the only way to drop one misbehaving requester without cutting off every
// other requester sharing this responder.
func (r *ResponderPort[Req, Resp]) DisconnectOne(peerID ID) {
	r.registry.DisconnectOne(r, peerID)
	r.recordConnections(r.registry.Count())
}

// IsConnected reports whether at least one requester is connected.
func (r *ResponderPort[Req, Resp]) IsConnected() bool {
	return r.registry.IsConnected()
}

// Status returns the port's connection/transaction snapshot.
func (r *ResponderPort[Req, Resp]) Status() Status {
	return Status{Connections: r.registry.Count(), Transactions: r.transactionCount()}
}

func (r *ResponderPort[Req, Resp]) addPeer(peer Peer) error {
	err := r.registry.addPeer(peer)
	r.recordConnections(r.registry.Count())
	return err
}

func (r *ResponderPort[Req, Resp]) removePeer(id ID) {
	r.registry.removePeer(id)
	r.recordConnections(r.registry.Count())
}
