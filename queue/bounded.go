// Package queue implements the two bounded FIFO primitives the rest of the
// runtime is built on: a single-key Bounded queue and a Keyed multi-queue
// keyed by producer identity, both cooperating with a termination.Signal so
// blocked readers/writers fail fast once a queue is torn down. The design is
// grounded on viant-fluxor's in-memory messaging queue
// (service/messaging/memory/queue.go), generalised from a single channel-
// backed buffer to a mutex+condvar implementation because the two overflow
// policies (drop-oldest and block-producer) and the keyed aggregate
// peek/pop operations in queue.Keyed are not expressible with a bare Go
// channel.
package queue

import (
	"sync"

	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
	"github.com/FFI-no/superflow/termination"
)

// Bounded is a single-producer-identity FIFO queue of fixed capacity with a
// configurable overflow policy. The zero value is not usable; construct one
// with NewBounded.
type Bounded[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []T
	capacity int
	overflow policy.Overflow
	term     *termination.Signal
}

// NewBounded creates a Bounded queue. It panics if capacity < 1, matching the
// constructor-time validation of the original lock_queue.h (size_t capacity
// that must be >= 1).
func NewBounded[T any](capacity int, overflow policy.Overflow) *Bounded[T] {
	if capacity < 1 {
		panic("queue: capacity must be >= 1")
	}
	q := &Bounded[T]{
		capacity: capacity,
		overflow: overflow,
		term:     termination.New(),
		items:    make([]T, 0, capacity),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push enqueues v. Once the queue is terminated, Push always fails with
// ErrTerminated. At capacity, a Leaky queue drops the oldest value to make
// room; a PushBlocking queue waits for a consumer to free a slot or for
// termination.
func (q *Bounded[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.term.IsTerminated() {
		return superflowerr.ErrTerminated
	}

	if len(q.items) >= q.capacity {
		switch q.overflow {
		case policy.PushBlocking:
			for len(q.items) >= q.capacity && !q.term.IsTerminated() {
				q.notFull.Wait()
			}
			if q.term.IsTerminated() {
				return superflowerr.ErrTerminated
			}
		default: // Leaky
			q.items = q.items[1:]
		}
	}

	q.items = append(q.items, v)
	q.notEmpty.Signal()
	if q.overflow == policy.Leaky {
		q.notFull.Signal()
	}
	return nil
}

// Pop waits until the queue is non-empty or terminated. A terminated, empty
// queue fails with ErrTerminated.
func (q *Bounded[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.term.IsTerminated() {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, superflowerr.ErrTerminated
	}

	v := q.items[0]
	q.items = q.items[1:]
	q.notFull.Signal()
	return v, nil
}

// Front returns the head of the queue without removing it. ok is false if
// the queue is empty.
func (q *Bounded[T]) Front() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return v, false
	}
	return q.items[0], true
}

// Size returns the current number of queued values.
func (q *Bounded[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsEmpty reports whether Size() == 0.
func (q *Bounded[T]) IsEmpty() bool {
	return q.Size() == 0
}

// Clear drops all queued contents without terminating the queue, freeing any
// PushBlocking waiters room to proceed.
func (q *Bounded[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
	q.notFull.Broadcast()
}

// Terminate transitions the queue to terminated and wakes every blocked
// Push/Pop. Idempotent.
func (q *Bounded[T]) Terminate() {
	q.term.Terminate()
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// IsTerminated reports whether Terminate has been called.
func (q *Bounded[T]) IsTerminated() bool {
	return q.term.IsTerminated()
}
