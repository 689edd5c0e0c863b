// Package superflowerr defines the sentinel error values shared across the
// runtime's packages (queue, port, proxel, graph, builder) and a wrapper type
// that attaches proxel/port/factory context to them. Using sentinels lets
// callers detect conditions with errors.Is/As instead of string comparisons,
// the same approach viant-fluxor uses in service/dao/errors.go and
// service/executor/errors.go.
package superflowerr

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when a port is asked to connect to a peer
	// whose value type is not in its accepted set (its own type plus variants).
	ErrTypeMismatch = errors.New("superflow: type mismatch")

	// ErrCardinalityViolation is returned when a Single-cardinality port is
	// asked to accept a second, distinct peer.
	ErrCardinalityViolation = errors.New("superflow: cardinality violation")

	// ErrNotConnected is returned when an operation requires a connected peer
	// but none is present.
	ErrNotConnected = errors.New("superflow: not connected")

	// ErrNotFound is returned when a proxel id, port name, or factory type is
	// not present in the relevant registry.
	ErrNotFound = errors.New("superflow: not found")

	// ErrDuplicateID is returned when a proxel id is reused within a Graph or
	// a builder run.
	ErrDuplicateID = errors.New("superflow: duplicate id")

	// ErrBuildError is returned when a factory fails to construct a proxel.
	ErrBuildError = errors.New("superflow: build error")

	// ErrConnectionArityMismatch is returned when replication/fan-out
	// expansion produces incompatible side sizes for a connection.
	ErrConnectionArityMismatch = errors.New("superflow: connection arity mismatch")

	// ErrAlreadyRunning is returned by Graph.Start when the graph is already
	// running.
	ErrAlreadyRunning = errors.New("superflow: graph already running")

	// ErrNotRunning is returned by graph lifecycle operations that require a
	// running graph.
	ErrNotRunning = errors.New("superflow: graph not running")

	// ErrTerminated is returned by an operation performed on a terminated
	// queue or port.
	ErrTerminated = errors.New("superflow: terminated")

	// ErrWrongType is returned when a typed graph lookup does not match the
	// requested subtype.
	ErrWrongType = errors.New("superflow: wrong type")
)

// Error wraps a sentinel with the proxel id, port name and/or factory type
// that the failure occurred in, so messages are useful for configuration
// debugging (section 7 of the design: "human-readable messages name the
// offending proxel id, port name, and factory type").
type Error struct {
	Err         error
	ProxelID    string
	PortName    string
	FactoryType string
	Detail      string
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.ProxelID != "" {
		msg = fmt.Sprintf("%s: proxel %q", msg, e.ProxelID)
	}
	if e.PortName != "" {
		msg = fmt.Sprintf("%s: port %q", msg, e.PortName)
	}
	if e.FactoryType != "" {
		msg = fmt.Sprintf("%s: factory %q", msg, e.FactoryType)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches context to a sentinel error. Any of proxelID/portName/
// factoryType/detail may be left empty.
func Wrap(err error, proxelID, portName, factoryType, detail string) *Error {
	return &Error{Err: err, ProxelID: proxelID, PortName: portName, FactoryType: factoryType, Detail: detail}
}
