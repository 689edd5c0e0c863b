package port

import (
	"sync"

	"github.com/FFI-no/superflow/superflowerr"
)

// Responder is the callee half of a synchronous request/response pair: a
// RequesterPort[Req,Resp] can connect to anything implementing
// Responder[Req,Resp], or - via a registered variant - anything implementing
// Responder[Req,U] for some related U paired with a convert func(U) Resp.
//
// Request/Args are modelled as a single Req value rather than the original C++
// variadic R(Args...) signature: Go generics do not support a variadic type
// parameter list, and bundling arguments into one struct is the idiomatic Go
// equivalent (callers needing several arguments define a small Req struct).
type Responder[Req, Resp any] interface {
	Peer
	respond(req Req) (Resp, error)
}

type requesterBinder[Req, Resp any] func(peer any) (invoke func(Req) (Resp, error), responder Peer, matched bool)

// RequesterPort is the client side of a synchronous request/response pair.
// It accepts at most one connected responder (hardcoded Single cardinality,
// matching the original, which does not route this through
// ConnectionRegistry either).
type RequesterPort[Req, Resp any] struct {
	base

	mu           sync.Mutex
	variants     []requesterBinder[Req, Resp]
	responderID  ID
	responder    Peer
	invoke       func(Req) (Resp, error)
}

// NewRequesterPort creates a RequesterPort accepting exactly
// Responder[Req,Resp] peers. Use WithRequesterVariant to additionally accept
// related response types.
func NewRequesterPort[Req, Resp any](instr Instrumentation) *RequesterPort[Req, Resp] {
	return &RequesterPort[Req, Resp]{base: newBase("requester", instr)}
}

// WithRequesterVariant registers U as an acceptable responder response type:
// when Connect is given a peer implementing Responder[Req,U], responses are
// passed through convert before being returned from Request.
func WithRequesterVariant[Req, Resp, U any](p *RequesterPort[Req, Resp], convert func(U) Resp) {
	p.variants = append(p.variants, func(peer any) (func(Req) (Resp, error), Peer, bool) {
		r, ok := peer.(Responder[Req, U])
		if !ok {
			return nil, nil, false
		}
		return func(req Req) (Resp, error) {
			u, err := r.respond(req)
			if err != nil {
				var zero Resp
				return zero, err
			}
			return convert(u), nil
		}, r, true
	})
}

// Connect resolves peer as a Responder[Req,Resp] (or an accepted variant).
// Connecting the same responder twice is idempotent; connecting a second,
// distinct responder fails with ErrCardinalityViolation; an incompatible
// peer fails with ErrTypeMismatch.
func (p *RequesterPort[Req, Resp]) Connect(peer any) error {
	var invoke func(Req) (Resp, error)
	var responderPeer Peer

	if r, ok := peer.(Responder[Req, Resp]); ok {
		invoke = func(req Req) (Resp, error) { return r.respond(req) }
		responderPeer = r
	} else {
		matched := false
		for _, try := range p.variants {
			if inv, r, ok := try(peer); ok {
				invoke, responderPeer, matched = inv, r, true
				break
			}
		}
		if !matched {
			return superflowerr.ErrTypeMismatch
		}
	}

	return p.connectResponder(responderPeer.Identity(), invoke, responderPeer)
}

func (p *RequesterPort[Req, Resp]) connectResponder(id ID, invoke func(Req) (Resp, error), peer Peer) error {
	p.mu.Lock()
	if p.responderID == id && id != "" {
		p.mu.Unlock()
		return nil
	}
	if p.responderID != "" {
		p.mu.Unlock()
		return superflowerr.ErrCardinalityViolation
	}
	p.responderID, p.invoke, p.responder = id, invoke, peer
	p.mu.Unlock()
	p.recordConnections(1)

	if err := peer.addPeer(p); err != nil {
		p.mu.Lock()
		p.responderID, p.invoke, p.responder = "", nil, nil
		p.mu.Unlock()
		p.recordConnections(0)
		return err
	}
	return nil
}

// addPeer implements Peer, used when a responder initiates the connection
// via Graph.Connect(responderPort, requesterPort).
func (p *RequesterPort[Req, Resp]) addPeer(peer Peer) error {
	r, ok := peer.(Responder[Req, Resp])
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	return p.connectResponder(r.Identity(), func(req Req) (Resp, error) { return r.respond(req) }, r)
}

// removePeer implements Peer.
func (p *RequesterPort[Req, Resp]) removePeer(id ID) {
	p.mu.Lock()
	if p.responderID != id {
		p.mu.Unlock()
		return
	}
	p.responderID, p.invoke, p.responder = "", nil, nil
	p.mu.Unlock()
	p.recordConnections(0)
}

// Disconnect severs the connection to the responder, if any. Infallible and
// idempotent.
func (p *RequesterPort[Req, Resp]) Disconnect() {
	p.mu.Lock()
	peer := p.responder
	p.responderID, p.invoke, p.responder = "", nil, nil
	p.mu.Unlock()
	p.recordConnections(0)
	if peer != nil {
		peer.removePeer(p.id)
	}
}

// IsConnected reports whether a responder is connected.
func (p *RequesterPort[Req, Resp]) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.responderID != ""
}

// Status returns the port's connection/transaction snapshot.
func (p *RequesterPort[Req, Resp]) Status() Status {
	p.mu.Lock()
	connected := p.responderID != ""
	p.mu.Unlock()
	n := 0
	if connected {
		n = 1
	}
	return Status{Connections: n, Transactions: p.transactionCount()}
}

// Request invokes the connected responder's callback on the calling
// goroutine and returns its result. Fails with ErrNotConnected if no
// responder is connected.
func (p *RequesterPort[Req, Resp]) Request(req Req) (Resp, error) {
	p.mu.Lock()
	invoke := p.invoke
	p.mu.Unlock()

	if invoke == nil {
		var zero Resp
		return zero, superflowerr.ErrNotConnected
	}
	resp, err := invoke(req)
	if err == nil {
		p.incrTransaction()
	}
	return resp, err
}
