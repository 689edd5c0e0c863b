package port

// Status is the per-port statistics snapshot: how many peers are currently
// connected and how many successful transactions (send/receive/request/
// respond/get) have been observed.
type Status struct {
	Connections int
	Transactions uint64
}

// Undefined is the sentinel Status for "not tracked" - e.g. a port kind that
// does not maintain a connection count.
var Undefined = Status{Connections: -1}

// Port is the behaviour every concrete port kind in this package implements.
// Kind-specific operations (Send, GetNext, Request, Respond, Get, ...) are
// declared on the concrete types since their signatures are generic over T
// and, for Requester/Responder/MultiRequester, over the whole function
// shape R(Args...), which Go generics cannot express as a single common
// interface method.
type Port interface {
	// Disconnect severs every connection this port currently holds. It never
	// fails and is idempotent.
	Disconnect()

	// IsConnected reports whether the port currently has at least one peer.
	IsConnected() bool

	// Status returns the port's current connection/transaction snapshot.
	Status() Status
}
