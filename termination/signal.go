// Package termination provides a single-writer/many-reader flag that
// transitions exactly once from active to terminated and wakes every
// waiter. queue.Bounded and queue.Keyed embed a Signal to decide when a
// blocked Push/Pop/Peek must fail instead of waiting forever, and
// support.SignalWaiter uses a Signal to turn OS signals into the same
// broadcast shape.
package termination

import "sync"

// Signal is safe for concurrent use. The zero value is usable directly and
// starts out active (not terminated).
type Signal struct {
	once sync.Once
	done chan struct{}
	init sync.Once
}

// New returns an active Signal ready for use. Using New is optional: the
// zero value works too, New just avoids the lazy-init path on first use.
func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

func (s *Signal) lazyInit() {
	s.init.Do(func() {
		if s.done == nil {
			s.done = make(chan struct{})
		}
	})
}

// Terminate transitions the signal to terminated and wakes every current and
// future waiter of Done/Wait. Idempotent.
func (s *Signal) Terminate() {
	s.lazyInit()
	s.once.Do(func() { close(s.done) })
}

// IsTerminated reports whether Terminate has been called. It never blocks.
func (s *Signal) IsTerminated() bool {
	s.lazyInit()
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once Terminate is called, suitable
// for use in a select alongside other channels.
func (s *Signal) Done() <-chan struct{} {
	s.lazyInit()
	return s.done
}

// Wait blocks until the signal is terminated.
func (s *Signal) Wait() {
	<-s.Done()
}
