// Package port implements the eight concrete port kinds (Producer,
// BufferedConsumer, MultiConsumer, CallbackConsumer, Requester, Responder,
// MultiRequester, InterfaceHost/Client), their shared ConnectionRegistry, and
// the stable identity type ports are keyed by.
package port

import "github.com/FFI-no/superflow/internal/idgen"

// ID is a stable identity for a live port, usable as a map key. Unlike the
// original C++ design (which uses the port's own pointer as its identity,
// see proxel.h/port.h), Go ports are modelled by value and by interface, so a
// raw Go pointer is not a reliable, comparable handle across the lifetime of
// a connection. ID follows design note 1: a uuid-backed handle generated
// once per port and carried alongside it, the same way internal/idgen
// backs viant-fluxor's execution/process identifiers.
type ID string

// NewID returns a freshly generated, globally unique port identity.
func NewID() ID {
	return ID(idgen.New())
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }
