package port

import (
	"sync"

	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
)

// Capability is implemented by an InterfaceHost[I]: it exposes a value of I
// (typically an interface type) to anything that connects to it. Unlike the
// data-flow ports, nothing is queued or buffered here - a client that
// connects simply asks the host for a direct reference to its
// implementation, on every call, the way the original interface_port.h's
// Client::get() forwards through to Host::get() instead of caching the
// capability at connect time.
type Capability[I any] interface {
	Peer
	Capability() (I, bool)
}

// InterfaceHost shares an implementation of I with any number of connected
// InterfaceClient[I] ports. It is the Go analogue of the original C++
// interface_port host side, used to hand a concrete capability (e.g. a
// secret-resolution service) across a graph without routing every call
// through a request/response queue.
type InterfaceHost[I any] struct {
	base
	registry *ConnectionRegistry
	impl     I
}

// NewInterfaceHost creates a host exposing impl.
func NewInterfaceHost[I any](impl I, instr Instrumentation) *InterfaceHost[I] {
	return &InterfaceHost[I]{
		base:     newBase("interface_host", instr),
		registry: NewConnectionRegistry(policy.Multi),
		impl:     impl,
	}
}

// Capability returns the shared implementation, incrementing the host's own
// transaction counter on every call that finds at least one client
// connected, and failing if none is - mirroring the original Host::get(),
// which every Client::get() call forwards through to.
func (h *InterfaceHost[I]) Capability() (I, bool) {
	if !h.registry.IsConnected() {
		var zero I
		return zero, false
	}
	h.incrTransaction()
	return h.impl, true
}

// Connect wires this host to a client-shaped peer.
func (h *InterfaceHost[I]) Connect(peer any) error {
	p, ok := peer.(Peer)
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	err := h.registry.Connect(h, p)
	h.recordConnections(h.registry.Count())
	return err
}

// Disconnect severs every connection. Infallible and idempotent.
func (h *InterfaceHost[I]) Disconnect() {
	h.registry.Disconnect(h)
	h.recordConnections(0)
}

// DisconnectOne severs the connection to a single client, if present - the
// only way to drop one misbehaving client without cutting off every other
// client sharing this host's capability.
func (h *InterfaceHost[I]) DisconnectOne(peerID ID) {
	h.registry.DisconnectOne(h, peerID)
	h.recordConnections(h.registry.Count())
}

// IsConnected reports whether at least one client is connected.
func (h *InterfaceHost[I]) IsConnected() bool {
	return h.registry.IsConnected()
}

// Status returns the port's connection/transaction snapshot.
func (h *InterfaceHost[I]) Status() Status {
	return Status{Connections: h.registry.Count(), Transactions: h.transactionCount()}
}

func (h *InterfaceHost[I]) addPeer(peer Peer) error {
	err := h.registry.addPeer(peer)
	h.recordConnections(h.registry.Count())
	return err
}

func (h *InterfaceHost[I]) removePeer(id ID) {
	h.registry.removePeer(id)
	h.recordConnections(h.registry.Count())
}

// InterfaceClient retrieves a capability of type I from exactly one
// connected InterfaceHost[I] (hardcoded Single cardinality, like
// RequesterPort). Unlike the data-flow ports, nothing is cached at connect
// time: Get forwards through to the host's own Capability() on every call,
// the way the original Client::get() forwards to Host::get(), so both
// sides' transaction counters move together on every successful Get.
type InterfaceClient[I any] struct {
	base

	mu     sync.Mutex
	hostID ID
	host   Capability[I]
}

// NewInterfaceClient creates a client with no host connected.
func NewInterfaceClient[I any](instr Instrumentation) *InterfaceClient[I] {
	return &InterfaceClient[I]{base: newBase("interface_client", instr)}
}

// Connect resolves peer as a Capability[I]. Connecting the same host twice
// is idempotent; connecting a second, distinct host fails with
// ErrCardinalityViolation; an incompatible peer fails with ErrTypeMismatch.
func (c *InterfaceClient[I]) Connect(peer any) error {
	h, ok := peer.(Capability[I])
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	return c.connectHost(h)
}

func (c *InterfaceClient[I]) connectHost(h Capability[I]) error {
	id := h.Identity()
	c.mu.Lock()
	if c.hostID == id && id != "" {
		c.mu.Unlock()
		return nil
	}
	if c.hostID != "" {
		c.mu.Unlock()
		return superflowerr.ErrCardinalityViolation
	}
	c.hostID, c.host = id, h
	c.mu.Unlock()
	c.recordConnections(1)

	if err := h.addPeer(c); err != nil {
		c.mu.Lock()
		c.hostID, c.host = "", nil
		c.mu.Unlock()
		c.recordConnections(0)
		return err
	}
	return nil
}

// addPeer implements Peer, used when a host initiates the connection via
// Graph.Connect(hostPort, clientPort).
func (c *InterfaceClient[I]) addPeer(peer Peer) error {
	h, ok := peer.(Capability[I])
	if !ok {
		return superflowerr.ErrTypeMismatch
	}
	return c.connectHost(h)
}

// removePeer implements Peer.
func (c *InterfaceClient[I]) removePeer(id ID) {
	c.mu.Lock()
	if c.hostID != id {
		c.mu.Unlock()
		return
	}
	c.hostID, c.host = "", nil
	c.mu.Unlock()
	c.recordConnections(0)
}

// Disconnect severs the connection to the host, if any. Infallible and
// idempotent.
func (c *InterfaceClient[I]) Disconnect() {
	c.mu.Lock()
	peer := c.host
	c.hostID, c.host = "", nil
	c.mu.Unlock()
	c.recordConnections(0)
	if peer != nil {
		peer.removePeer(c.id)
	}
}

// IsConnected reports whether a host is connected.
func (c *InterfaceClient[I]) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hostID != ""
}

// Status returns the port's connection/transaction snapshot.
func (c *InterfaceClient[I]) Status() Status {
	c.mu.Lock()
	connected := c.hostID != ""
	c.mu.Unlock()
	n := 0
	if connected {
		n = 1
	}
	return Status{Connections: n, Transactions: c.transactionCount()}
}

// Get forwards through to the connected host's Capability(), incrementing
// this client's own transaction counter (and, inside Capability(), the
// host's) on success. ok is false if no host is connected, or if the host
// itself reports not connected.
func (c *InterfaceClient[I]) Get() (I, bool) {
	c.mu.Lock()
	host := c.host
	c.mu.Unlock()
	if host == nil {
		var zero I
		return zero, false
	}
	impl, ok := host.Capability()
	if !ok {
		var zero I
		return zero, false
	}
	c.incrTransaction()
	return impl, true
}
