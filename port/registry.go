package port

import (
	"sync"

	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
)

// Peer is the minimal shape a connection registry needs from whatever sits
// on the other end of a connection: a stable identity, and a one-sided way
// to add/remove an entry from its own bookkeeping. Connect/Disconnect below
// call these to keep both sides' registries in sync without the two sides
// recursively calling back into each other's public Connect/Disconnect -
// an explicit two-step handshake is easier to reason about correctly in Go
// than the original C++ symmetric recursive connect() calls, and produces the
// same observable invariants (see DESIGN.md, "ConnectionRegistry's handshake").
type Peer interface {
	Identity() ID
	addPeer(self Peer) error
	removePeer(id ID)
}

// ConnectionRegistry is the shared bookkeeping used by every port kind whose
// connection logic does not need custom type resolution (BufferedConsumer,
// MultiConsumer, CallbackConsumer, Responder, MultiRequester, InterfaceHost).
// ProducerPort and RequesterPort manage their own peer maps instead, because
// their Connect performs variant-type resolution (see producer.go,
// requester.go).
//
// The registry synchronises its own map but, matching section 5 of the
// design, that does not extend to concurrent data flow: connecting a port
// while it is actively sending or receiving is the caller's responsibility
// to serialise.
type ConnectionRegistry struct {
	mu          sync.Mutex
	cardinality policy.Connect
	peers       map[ID]Peer
	order       []ID
}

// NewConnectionRegistry creates a registry enforcing the given cardinality.
func NewConnectionRegistry(cardinality policy.Connect) *ConnectionRegistry {
	return &ConnectionRegistry{cardinality: cardinality, peers: map[ID]Peer{}}
}

// Connect registers other symmetrically: self records other, then other is
// asked to record self back via other.addPeer(self). If that fails, self's
// registration is rolled back and the error is returned. Connecting the same
// pair twice is a no-op. On a Single-cardinality registry, connecting a
// second, distinct peer fails with ErrCardinalityViolation and nothing
// observable changes.
func (r *ConnectionRegistry) Connect(self Peer, other Peer) error {
	r.mu.Lock()
	if _, ok := r.peers[other.Identity()]; ok {
		r.mu.Unlock()
		return nil
	}
	if r.cardinality == policy.Single && len(r.peers) > 0 {
		r.mu.Unlock()
		return superflowerr.ErrCardinalityViolation
	}
	r.peers[other.Identity()] = other
	r.order = append(r.order, other.Identity())
	r.mu.Unlock()

	if err := other.addPeer(self); err != nil {
		r.mu.Lock()
		delete(r.peers, other.Identity())
		r.removeFromOrder(other.Identity())
		r.mu.Unlock()
		return err
	}
	return nil
}

// Disconnect severs every connection self holds, then notifies each former
// peer. Infallible and idempotent.
func (r *ConnectionRegistry) Disconnect(self Peer) {
	r.mu.Lock()
	former := r.peers
	r.peers = map[ID]Peer{}
	r.order = nil
	r.mu.Unlock()

	for _, peer := range former {
		peer.removePeer(self.Identity())
	}
}

// DisconnectOne severs the connection to a single peer, then notifies it.
// A no-op (and infallible) if peerID is not currently connected.
func (r *ConnectionRegistry) DisconnectOne(self Peer, peerID ID) {
	r.mu.Lock()
	peer, ok := r.peers[peerID]
	if ok {
		delete(r.peers, peerID)
		r.removeFromOrder(peerID)
	}
	r.mu.Unlock()

	if ok {
		peer.removePeer(self.Identity())
	}
}

// addPeer registers a peer on this side only, without calling back into it.
// Used when the call arrives *from* the peer's Connect, so only this side's
// bookkeeping needs updating.
func (r *ConnectionRegistry) addPeer(peer Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[peer.Identity()]; ok {
		return nil
	}
	if r.cardinality == policy.Single && len(r.peers) > 0 {
		return superflowerr.ErrCardinalityViolation
	}
	r.peers[peer.Identity()] = peer
	r.order = append(r.order, peer.Identity())
	return nil
}

// removePeer unregisters a single peer on this side only (no callback).
func (r *ConnectionRegistry) removePeer(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, id)
	r.removeFromOrder(id)
}

func (r *ConnectionRegistry) removeFromOrder(id ID) {
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// IsConnected reports whether at least one peer is registered.
func (r *ConnectionRegistry) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers) > 0
}

// Count returns the number of currently connected peers.
func (r *ConnectionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

// Peers returns connected peers in connection (insertion) order.
func (r *ConnectionRegistry) Peers() []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Peer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.peers[id])
	}
	return out
}

// PeerIDs returns connected peer identities in connection order.
func (r *ConnectionRegistry) PeerIDs() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}
