package port

import (
	"sync"

	"github.com/FFI-no/superflow/superflowerr"
)

// binder attempts to adapt an arbitrary peer value into a Consumer[T]-shaped
// delivery closure. It is the Go stand-in for the original C++ variant
// conversion chain (design note 2): each registered variant contributes one
// binder, tried in registration order until one matches the peer's dynamic
// type.
type binder[T any] func(peer any) (deliver func(T, ID), peerID ID, matched bool)

// ProducerPort is the many-consumer fan-out push port. Connect resolves the
// peer either as an exact Consumer[T] or, failing that, via a registered
// variant conversion (WithVariant); an incompatible peer fails with
// ErrTypeMismatch. send/Send delivers to every peer present at call start,
// in connection order, and is not safe against concurrent Connect/Disconnect
// (section 5: "callers must serialise topology changes with sends").
//
// ProducerPort keeps its own peer map instead of going through
// ConnectionRegistry, because its Connect performs variant-type resolution
// that ConnectionRegistry's plain Peer contract does not need to know about.
type ProducerPort[T any] struct {
	base

	mu        sync.Mutex
	variants  []binder[T]
	consumers map[ID]func(T, ID)
	order     []ID
	peers     map[ID]Peer
}

// NewProducerPort creates a ProducerPort accepting exactly Consumer[T] peers.
// Use WithVariant to additionally accept related types.
func NewProducerPort[T any](instr Instrumentation) *ProducerPort[T] {
	return &ProducerPort[T]{
		base:      newBase("producer", instr),
		consumers: map[ID]func(T, ID){},
		peers:     map[ID]Peer{},
	}
}

// WithVariant registers U as an acceptable peer type: when Connect is given
// a peer implementing Consumer[U], values are delivered through convert
// before being handed to the peer. Call before the port is connected to
// anything; it is not safe to register variants concurrently with Connect.
func WithVariant[T, U any](p *ProducerPort[T], convert func(T) U) {
	p.variants = append(p.variants, func(peer any) (func(T, ID), ID, bool) {
		c, ok := peer.(Consumer[U])
		if !ok {
			return nil, "", false
		}
		return func(v T, src ID) { c.Receive(convert(v), src) }, c.Identity(), true
	})
}

// Connect resolves peer as a Consumer[T] (or an accepted variant) and
// registers it as a delivery target. Idempotent for an already-connected
// peer; fails with ErrTypeMismatch if peer matches neither T nor any
// registered variant.
func (p *ProducerPort[T]) Connect(peer any) error {
	var deliver func(T, ID)
	var peerID ID
	var asPeer Peer

	if c, ok := peer.(Consumer[T]); ok {
		deliver = func(v T, src ID) { c.Receive(v, src) }
		peerID = c.Identity()
		asPeer = c
	} else {
		matched := false
		for _, try := range p.variants {
			if d, id, ok := try(peer); ok {
				deliver, peerID, matched = d, id, true
				asPeer, _ = peer.(Peer)
				break
			}
		}
		if !matched {
			return superflowerr.ErrTypeMismatch
		}
	}

	p.mu.Lock()
	if _, exists := p.consumers[peerID]; exists {
		p.mu.Unlock()
		return nil
	}
	p.consumers[peerID] = deliver
	p.order = append(p.order, peerID)
	if asPeer != nil {
		p.peers[peerID] = asPeer
	}
	count := len(p.order)
	p.mu.Unlock()
	p.recordConnections(count)

	if asPeer != nil {
		if err := asPeer.addPeer(p); err != nil {
			p.mu.Lock()
			delete(p.consumers, peerID)
			delete(p.peers, peerID)
			p.removeFromOrder(peerID)
			count = len(p.order)
			p.mu.Unlock()
			p.recordConnections(count)
			return err
		}
	}
	return nil
}

func (p *ProducerPort[T]) removeFromOrder(id ID) {
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// Disconnect severs every connection. Infallible and idempotent.
func (p *ProducerPort[T]) Disconnect() {
	p.mu.Lock()
	former := p.peers
	p.consumers = map[ID]func(T, ID){}
	p.peers = map[ID]Peer{}
	p.order = nil
	p.mu.Unlock()
	p.recordConnections(0)

	for _, peer := range former {
		peer.removePeer(p.id)
	}
}

// DisconnectOne severs the connection to a single peer, if present.
func (p *ProducerPort[T]) DisconnectOne(peerID ID) {
	p.mu.Lock()
	peer, ok := p.peers[peerID]
	if ok {
		delete(p.consumers, peerID)
		delete(p.peers, peerID)
		p.removeFromOrder(peerID)
	}
	count := len(p.order)
	p.mu.Unlock()
	p.recordConnections(count)
	if ok {
		peer.removePeer(p.id)
	}
}

// IsConnected reports whether at least one consumer is registered.
func (p *ProducerPort[T]) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.consumers) > 0
}

// Status returns the producer's connection/transaction snapshot.
func (p *ProducerPort[T]) Status() Status {
	p.mu.Lock()
	n := len(p.consumers)
	p.mu.Unlock()
	return Status{Connections: n, Transactions: p.transactionCount()}
}

// Send delivers v to every peer connected at the start of the call, in
// connection order, and increments the transaction counter once per call
// (not once per peer - matching the design's "every successful send...
// increments the appropriate side's counter").
func (p *ProducerPort[T]) Send(v T) {
	p.mu.Lock()
	order := append([]ID(nil), p.order...)
	deliverers := make([]func(T, ID), 0, len(order))
	for _, id := range order {
		deliverers = append(deliverers, p.consumers[id])
	}
	p.mu.Unlock()

	for _, deliver := range deliverers {
		deliver(v, p.id)
	}
	p.incrTransaction()
}

// addPeer implements Peer: a consumer connecting to us from its own Connect
// call (consumer.Connect(producer), which is also what Graph.Connect does
// when the consumer port is on the left) registers itself here as a delivery
// target. Only an exact Consumer[T] is accepted on this path; variants
// registered with WithVariant are not consulted.
func (p *ProducerPort[T]) addPeer(peer Peer) error {
	c, ok := peer.(Consumer[T])
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	p.mu.Lock()
	if _, exists := p.consumers[c.Identity()]; exists {
		p.mu.Unlock()
		return nil
	}
	p.consumers[c.Identity()] = func(v T, src ID) { c.Receive(v, src) }
	p.peers[c.Identity()] = peer
	p.order = append(p.order, c.Identity())
	count := len(p.order)
	p.mu.Unlock()
	p.recordConnections(count)
	return nil
}

// removePeer implements Peer.
func (p *ProducerPort[T]) removePeer(id ID) {
	p.mu.Lock()
	delete(p.consumers, id)
	delete(p.peers, id)
	p.removeFromOrder(id)
	count := len(p.order)
	p.mu.Unlock()
	p.recordConnections(count)
}
