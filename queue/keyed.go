package queue

import (
	"sync"

	"github.com/FFI-no/superflow/superflowerr"
	"github.com/FFI-no/superflow/termination"
)

// Keyed is a map from a producer identity K to its own bounded, always-Leaky
// sub-queue of T, plus the aggregate peek/pop operations a keyed
// MultiConsumerPort needs. There is a single overflow policy
// (drop-oldest) because the original multi_lock_queue.h never offers a
// PushBlocking variant for the keyed case - blocking one producer because
// another key's sub-queue is full would be surprising for an otherwise
// independent source.
type Keyed[K comparable, T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queues   map[K][]T
	capacity int
	term     *termination.Signal
}

// NewKeyed creates a Keyed multi-queue whose sub-queues each hold up to
// capacity values. It panics if capacity < 1.
func NewKeyed[K comparable, T any](capacity int) *Keyed[K, T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	k := &Keyed[K, T]{
		queues:   map[K][]T{},
		capacity: capacity,
		term:     termination.New(),
	}
	k.cond = sync.NewCond(&k.mu)
	return k
}

// AddKey registers key with an empty sub-queue. Idempotent: an existing
// sub-queue (and its contents) is left untouched.
func (k *Keyed[K, T]) AddKey(key K) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.queues[key]; !ok {
		k.queues[key] = make([]T, 0, k.capacity)
	}
}

// RemoveKey drops key's sub-queue along with any buffered contents.
func (k *Keyed[K, T]) RemoveKey(key K) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.queues, key)
	k.cond.Broadcast()
}

// NumQueues returns the number of registered keys.
func (k *Keyed[K, T]) NumQueues() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.queues)
}

// HasAny reports whether at least one sub-queue is non-empty.
func (k *Keyed[K, T]) HasAny() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.hasAnyLocked()
}

func (k *Keyed[K, T]) hasAnyLocked() bool {
	for _, q := range k.queues {
		if len(q) > 0 {
			return true
		}
	}
	return false
}

// HasAll reports whether every sub-queue is non-empty. With zero registered
// keys this is vacuously true.
func (k *Keyed[K, T]) HasAll() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.hasAllLocked()
}

func (k *Keyed[K, T]) hasAllLocked() bool {
	for _, q := range k.queues {
		if len(q) == 0 {
			return false
		}
	}
	return true
}

// Push enqueues v on key's sub-queue, registering key first if it has not
// been added yet (so a producer side that connects and immediately sends
// cannot race a not-yet-registered key).
func (k *Keyed[K, T]) Push(key K, v T) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.term.IsTerminated() {
		return superflowerr.ErrTerminated
	}

	q := k.queues[key]
	if len(q) >= k.capacity {
		q = q[1:]
	}
	k.queues[key] = append(q, v)
	k.cond.Broadcast()
	return nil
}

// Terminate transitions the multi-queue to terminated and wakes every
// blocked aggregate operation. Idempotent.
func (k *Keyed[K, T]) Terminate() {
	k.term.Terminate()
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cond.Broadcast()
}

// IsTerminated reports whether Terminate has been called.
func (k *Keyed[K, T]) IsTerminated() bool {
	return k.term.IsTerminated()
}

func (k *Keyed[K, T]) snapshotLocked(removeHead bool) map[K]T {
	out := make(map[K]T, len(k.queues))
	for key, q := range k.queues {
		if len(q) == 0 {
			continue
		}
		out[key] = q[0]
		if removeHead {
			k.queues[key] = q[1:]
		}
	}
	return out
}

// PeekReady returns the head of every currently non-empty sub-queue without
// removing anything. Never blocks, but still reports superflowerr.ErrTerminated
// once Terminate has been called, the same as every other aggregate op.
func (k *Keyed[K, T]) PeekReady() (map[K]T, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.term.IsTerminated() {
		return nil, superflowerr.ErrTerminated
	}
	return k.snapshotLocked(false), nil
}

// PopReady is PeekReady, additionally removing the returned heads. Never
// blocks, but still reports superflowerr.ErrTerminated once Terminate has
// been called, the same as every other aggregate op.
func (k *Keyed[K, T]) PopReady() (map[K]T, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.term.IsTerminated() {
		return nil, superflowerr.ErrTerminated
	}
	return k.snapshotLocked(true), nil
}

// PeekAtLeastOne blocks until some sub-queue is non-empty, then behaves like
// PeekReady.
func (k *Keyed[K, T]) PeekAtLeastOne() (map[K]T, error) {
	return k.waitThenSnapshot(false, (*Keyed[K, T]).hasAnyLocked)
}

// PopAtLeastOne blocks until some sub-queue is non-empty, then behaves like
// PopReady.
func (k *Keyed[K, T]) PopAtLeastOne() (map[K]T, error) {
	return k.waitThenSnapshot(true, (*Keyed[K, T]).hasAnyLocked)
}

// PeekAll blocks until every registered sub-queue is non-empty (vacuously
// true with zero keys), then returns the head of every sub-queue.
func (k *Keyed[K, T]) PeekAll() (map[K]T, error) {
	return k.waitThenSnapshot(false, (*Keyed[K, T]).hasAllLocked)
}

// PopAll blocks until every registered sub-queue is non-empty, then returns
// and removes the head of every sub-queue.
func (k *Keyed[K, T]) PopAll() (map[K]T, error) {
	return k.waitThenSnapshot(true, (*Keyed[K, T]).hasAllLocked)
}

func (k *Keyed[K, T]) waitThenSnapshot(removeHead bool, ready func(*Keyed[K, T]) bool) (map[K]T, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for !ready(k) && !k.term.IsTerminated() {
		k.cond.Wait()
	}
	if !ready(k) {
		return nil, superflowerr.ErrTerminated
	}
	return k.snapshotLocked(removeHead), nil
}

// Keys returns the registered keys. Callers that need a deterministic
// iteration order (e.g. port.MultiConsumerPort's status/snapshot ordering)
// sort the result themselves, since only they know a stable ordering for
// their particular key type (see MultiConsumerPort, which sorts by
// port.ID).
func (k *Keyed[K, T]) Keys() []K {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]K, 0, len(k.queues))
	for key := range k.queues {
		out = append(out, key)
	}
	return out
}
