package port

import (
	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
)

// Callback is invoked synchronously, on the producer's own goroutine, for
// every value a CallbackConsumerPort receives.
type Callback[T any] func(v T)

// CallbackConsumerPort invokes a user-supplied callback synchronously for
// every received value instead of buffering it. Grounded on viant-fluxor's
// service/event.Service synchronous listener dispatch.
type CallbackConsumerPort[T any] struct {
	base
	registry *ConnectionRegistry
	callback Callback[T]
}

// NewCallbackConsumerPort creates a port that invokes cb for every received
// value.
func NewCallbackConsumerPort[T any](connect policy.Connect, cb Callback[T], instr Instrumentation) *CallbackConsumerPort[T] {
	return &CallbackConsumerPort[T]{
		base:     newBase("callback_consumer", instr),
		registry: NewConnectionRegistry(connect),
		callback: cb,
	}
}

// Connect wires this consumer to a producer-shaped peer.
func (c *CallbackConsumerPort[T]) Connect(peer any) error {
	p, ok := peer.(Peer)
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	err := c.registry.Connect(c, p)
	c.recordConnections(c.registry.Count())
	return err
}

// Receive invokes the callback synchronously and increments the transaction
// counter.
func (c *CallbackConsumerPort[T]) Receive(v T, _ ID) {
	c.callback(v)
	c.incrTransaction()
}

// Disconnect severs every connection. Infallible and idempotent.
func (c *CallbackConsumerPort[T]) Disconnect() {
	c.registry.Disconnect(c)
	c.recordConnections(0)
}

// DisconnectOne severs the connection to a single peer, if present.
func (c *CallbackConsumerPort[T]) DisconnectOne(peerID ID) {
	c.registry.DisconnectOne(c, peerID)
	c.recordConnections(c.registry.Count())
}

// IsConnected reports whether at least one peer is connected.
func (c *CallbackConsumerPort[T]) IsConnected() bool {
	return c.registry.IsConnected()
}

// Status returns the port's connection/transaction snapshot.
func (c *CallbackConsumerPort[T]) Status() Status {
	return Status{Connections: c.registry.Count(), Transactions: c.transactionCount()}
}

func (c *CallbackConsumerPort[T]) addPeer(peer Peer) error {
	err := c.registry.addPeer(peer)
	c.recordConnections(c.registry.Count())
	return err
}

func (c *CallbackConsumerPort[T]) removePeer(id ID) {
	c.registry.removePeer(id)
	c.recordConnections(c.registry.Count())
}
