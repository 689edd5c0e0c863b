// Package policy collects the small enumerations that parameterise queue and
// port behaviour: how a bounded queue handles overflow, how many peers a
// connection registry allows, and how a consumer pulls values out of its
// buffer. They are declared as string-backed types, the same pattern the
// teacher uses for its own execution-mode enum (ModeAsk/ModeAuto/ModeDeny),
// so values are self-describing in logs and test failures without a String()
// switch statement.
package policy

// Overflow selects what a bounded queue does when Push is called while it is
// at capacity.
type Overflow string

const (
	// Leaky discards the oldest queued value to make room for the new one.
	Leaky Overflow = "leaky"
	// PushBlocking suspends the caller until space frees up or the queue is
	// terminated.
	PushBlocking Overflow = "push_blocking"
)

// Connect selects how many peers a ConnectionRegistry allows at once.
type Connect string

const (
	// Single allows at most one peer; a second, distinct peer is rejected.
	Single Connect = "single"
	// Multi allows any number of peers.
	Multi Connect = "multi"
)

// GetMode selects how a QueueReader pulls values from its underlying queue.
type GetMode string

const (
	// Blocking always pops the next value (or values, for a keyed queue),
	// suspending until one is available.
	Blocking GetMode = "blocking"
	// Latched returns a cached value immediately after the first pop,
	// refreshing the cache only when a new value is already pending.
	Latched GetMode = "latched"
	// ReadyOnly (keyed queues only) never blocks; it returns whatever is
	// immediately available, possibly an empty snapshot.
	ReadyOnly GetMode = "ready_only"
	// AtLeastOneNew (keyed queues only) blocks until at least one sub-queue
	// has produced something new since the last call, then merges it into a
	// cached snapshot.
	AtLeastOneNew GetMode = "at_least_one_new"
)
