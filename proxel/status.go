// Package proxel defines the Proxel abstraction (a processing element owning
// a named port map and a start/stop lifecycle) and its Base helper, grounded
// on the original C++ proxel.h/proxel_status.h plus viant-fluxor's
// service/processor.Service lifecycle conventions.
package proxel

import "github.com/FFI-no/superflow/port"

// State is a proxel's coarse-grained lifecycle/health state.
type State int

// The ten states, in the same order as the original C++ ProxelStatus::State.
const (
	Undefined State = iota
	AwaitingInput
	AwaitingRequest
	AwaitingResponse
	Crashed
	NotConnected
	Paused
	Running
	Unavailable
	Warning
)

// String renders a State the way the original C++ operator<<(ostream&, State)
// does, for human-readable status output.
func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "NO INPUT"
	case AwaitingRequest:
		return "NO REQUEST"
	case AwaitingResponse:
		return "NO RESPONSE"
	case Crashed:
		return "CRASHED"
	case NotConnected:
		return "NOT CONNECTED"
	case Paused:
		return "PAUSED"
	case Running:
		return "RUNNING"
	case Unavailable:
		return "UNAVAILABLE"
	case Warning:
		return "WARNING"
	default:
		return "UNDEFINED"
	}
}

// Status is a proxel's full status snapshot: its State, a free-form info
// string, and the Status of each of its named ports.
type Status struct {
	State State
	Info  string
	Ports map[string]port.Status
}

// StatusMap is keyed by proxel id, as returned by Graph.Status.
type StatusMap map[string]Status
