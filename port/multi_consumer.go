package port

import (
	"sort"

	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/queue"
	"github.com/FFI-no/superflow/superflowerr"
)

// MultiConsumerPort wraps a queue.Keyed[ID,T] (keyed by source port
// identity) and a queue.MultiReader[ID,T]. Connect adds a sub-queue for the
// peer's identity; Disconnect removes it. GetNext's snapshot is returned as
// a map keyed by source port.ID; callers that need a deterministic
// iteration order should use Sources(), which returns the connected peer
// identities sorted (see design note: "keep it deterministic... by source
// identity ordering").
type MultiConsumerPort[T any] struct {
	base
	registry *ConnectionRegistry
	queue    *queue.Keyed[ID, T]
	reader   *queue.MultiReader[ID, T]
}

// NewMultiConsumerPort creates a port whose per-source sub-queues hold up to
// capacity values each.
func NewMultiConsumerPort[T any](capacity int, mode policy.GetMode, instr Instrumentation) *MultiConsumerPort[T] {
	return &MultiConsumerPort[T]{
		base:     newBase("multi_consumer", instr),
		registry: NewConnectionRegistry(policy.Multi),
		queue:    queue.NewKeyed[ID, T](capacity),
		reader:   queue.NewMultiReader[ID, T](mode),
	}
}

// Connect wires this consumer to a producer-shaped peer, registering a
// sub-queue for its identity.
func (c *MultiConsumerPort[T]) Connect(peer any) error {
	p, ok := peer.(Peer)
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	if err := c.registry.Connect(c, p); err != nil {
		return err
	}
	c.queue.AddKey(p.Identity())
	c.recordConnections(c.registry.Count())
	return nil
}

// Receive enqueues v on src's sub-queue.
func (c *MultiConsumerPort[T]) Receive(v T, src ID) {
	_ = c.queue.Push(src, v)
}

// GetNext pulls the next snapshot through the configured read mode.
func (c *MultiConsumerPort[T]) GetNext() (map[ID]T, error) {
	snap, err := c.reader.Get(c.queue)
	if err == nil {
		c.incrTransaction()
	}
	return snap, err
}

// HasNext reports whether a subsequent GetNext would return without
// blocking.
func (c *MultiConsumerPort[T]) HasNext() bool {
	return c.reader.HasNext(c.queue)
}

// Sources returns the connected peer identities in a deterministic,
// lexicographic order.
func (c *MultiConsumerPort[T]) Sources() []ID {
	ids := c.queue.Keys()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Deactivate terminates the underlying multi-queue.
func (c *MultiConsumerPort[T]) Deactivate() {
	c.queue.Terminate()
}

// Disconnect severs every connection, removing every sub-queue.
func (c *MultiConsumerPort[T]) Disconnect() {
	for _, id := range c.registry.PeerIDs() {
		c.queue.RemoveKey(id)
	}
	c.registry.Disconnect(c)
	c.recordConnections(0)
}

// DisconnectOne severs the connection to a single peer and removes its
// sub-queue.
func (c *MultiConsumerPort[T]) DisconnectOne(peerID ID) {
	c.registry.DisconnectOne(c, peerID)
	c.queue.RemoveKey(peerID)
	c.recordConnections(c.registry.Count())
}

// IsConnected reports whether at least one peer is connected.
func (c *MultiConsumerPort[T]) IsConnected() bool {
	return c.registry.IsConnected()
}

// Status returns the port's connection/transaction snapshot.
func (c *MultiConsumerPort[T]) Status() Status {
	return Status{Connections: c.registry.Count(), Transactions: c.transactionCount()}
}

func (c *MultiConsumerPort[T]) addPeer(peer Peer) error {
	if err := c.registry.addPeer(peer); err != nil {
		return err
	}
	c.queue.AddKey(peer.Identity())
	c.recordConnections(c.registry.Count())
	return nil
}

func (c *MultiConsumerPort[T]) removePeer(id ID) {
	c.registry.removePeer(id)
	c.queue.RemoveKey(id)
	c.recordConnections(c.registry.Count())
}
