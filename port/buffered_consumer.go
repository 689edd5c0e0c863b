package port

import (
	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/queue"
	"github.com/FFI-no/superflow/superflowerr"
)

// BufferedConsumerPort wraps a queue.Bounded[T] and a queue.Reader[T] behind
// the single-producer consumer Port API: Receive enqueues (dropping or
// blocking per the overflow policy, and silently swallowing ErrTerminated -
// "the buffer is gone" is not the sender's problem), GetNext pulls through
// the reader, Deactivate terminates the buffer so blocked/future GetNext
// calls fail fast.
type BufferedConsumerPort[T any] struct {
	base
	registry *ConnectionRegistry
	buffer   *queue.Bounded[T]
	reader   *queue.Reader[T]
}

// NewBufferedConsumerPort creates a port buffering up to capacity values
// with the given overflow policy, connect cardinality, and read mode.
func NewBufferedConsumerPort[T any](capacity int, connect policy.Connect, mode policy.GetMode, overflow policy.Overflow, instr Instrumentation) *BufferedConsumerPort[T] {
	return &BufferedConsumerPort[T]{
		base:     newBase("buffered_consumer", instr),
		registry: NewConnectionRegistry(connect),
		buffer:   queue.NewBounded[T](capacity, overflow),
		reader:   queue.NewReader[T](mode),
	}
}

// Connect wires this consumer to a producer-shaped peer (anything
// implementing Peer, typically a *ProducerPort[T]). Variant resolution, if
// needed, should be driven from the producer's own Connect instead - see
// producer.go.
func (c *BufferedConsumerPort[T]) Connect(peer any) error {
	p, ok := peer.(Peer)
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	err := c.registry.Connect(c, p)
	c.recordConnections(c.registry.Count())
	return err
}

// Receive enqueues v. A terminated buffer silently drops the value, per the
// design's "receive() catches and swallows a terminated buffer" rule.
func (c *BufferedConsumerPort[T]) Receive(v T, _ ID) {
	if err := c.buffer.Push(v); err != nil {
		return
	}
}

// GetNext pulls the next value through the configured read mode. A
// terminated, exhausted buffer fails with ErrTerminated, which consumer
// loops should treat as end-of-stream.
func (c *BufferedConsumerPort[T]) GetNext() (T, error) {
	v, err := c.reader.Get(c.buffer)
	if err == nil {
		c.incrTransaction()
	}
	return v, err
}

// HasNext reports whether a subsequent GetNext would return without
// blocking.
func (c *BufferedConsumerPort[T]) HasNext() bool {
	return c.reader.HasNext(c.buffer)
}

// Deactivate terminates the underlying buffer, unblocking any current or
// future GetNext call with ErrTerminated.
func (c *BufferedConsumerPort[T]) Deactivate() {
	c.buffer.Terminate()
}

// Clear drops buffered contents and any cached (Latched) reader value,
// without terminating the buffer.
func (c *BufferedConsumerPort[T]) Clear() {
	c.buffer.Clear()
	c.reader.Clear()
}

// Active reports whether the buffer has not been terminated - the "operator
// bool" equivalent from the original design.
func (c *BufferedConsumerPort[T]) Active() bool {
	return !c.buffer.IsTerminated()
}

// Disconnect severs every connection. Infallible and idempotent.
func (c *BufferedConsumerPort[T]) Disconnect() {
	c.registry.Disconnect(c)
	c.recordConnections(0)
}

// DisconnectOne severs the connection to a single peer, if present.
func (c *BufferedConsumerPort[T]) DisconnectOne(peerID ID) {
	c.registry.DisconnectOne(c, peerID)
	c.recordConnections(c.registry.Count())
}

// IsConnected reports whether at least one peer is connected.
func (c *BufferedConsumerPort[T]) IsConnected() bool {
	return c.registry.IsConnected()
}

// Status returns the port's connection/transaction snapshot.
func (c *BufferedConsumerPort[T]) Status() Status {
	return Status{Connections: c.registry.Count(), Transactions: c.transactionCount()}
}

func (c *BufferedConsumerPort[T]) addPeer(peer Peer) error {
	err := c.registry.addPeer(peer)
	c.recordConnections(c.registry.Count())
	return err
}

func (c *BufferedConsumerPort[T]) removePeer(id ID) {
	c.registry.removePeer(id)
	c.recordConnections(c.registry.Count())
}
