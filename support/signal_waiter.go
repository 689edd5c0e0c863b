package support

import (
	"os"
	"os/signal"
	"sync"

	"github.com/FFI-no/superflow/termination"
)

// SignalWaiter translates a set of OS signals into a termination.Signal,
// grounded on utils/signal_waiter.h and utils/wait_for_signal.h. Unlike a
// package-level global (common in other signal-handling code), each
// SignalWaiter is constructed per use and owns its own signal.Notify
// registration, so tests can create and tear down as many as they like
// without interfering with each other (design note: "without any
// package-level mutable state").
type SignalWaiter struct {
	sig  *termination.Signal
	ch   chan os.Signal
	stop func()
	once sync.Once
}

// NewSignalWaiter starts listening for the given signals (e.g.
// os.Interrupt, syscall.SIGTERM) and returns a SignalWaiter whose
// termination.Signal fires the first time one of them arrives.
func NewSignalWaiter(signals ...os.Signal) *SignalWaiter {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	w := &SignalWaiter{
		sig: termination.New(),
		ch:  ch,
		stop: func() {
			signal.Stop(ch)
		},
	}
	go w.run()
	return w
}

func (w *SignalWaiter) run() {
	select {
	case <-w.ch:
		w.sig.Terminate()
	case <-w.sig.Done():
	}
}

// HasGottenSignal reports whether a registered signal has arrived.
func (w *SignalWaiter) HasGottenSignal() bool {
	return w.sig.IsTerminated()
}

// Done returns a channel closed once a registered signal arrives (or Close
// is called).
func (w *SignalWaiter) Done() <-chan struct{} {
	return w.sig.Done()
}

// Wait blocks until a registered signal arrives (or Close is called).
func (w *SignalWaiter) Wait() {
	w.sig.Wait()
}

// Close stops listening for signals and unblocks any waiter, whether or not
// a signal arrived, matching the original C++ "resolved on signal or
// destruction" future.
func (w *SignalWaiter) Close() {
	w.once.Do(func() {
		w.stop()
		w.sig.Terminate()
	})
}

// WaitForSignal is a free function blocking the calling goroutine until one
// of the given signals arrives, mirroring the original C++ waitForSignal free
// function built on top of SignalWaiter.
func WaitForSignal(signals ...os.Signal) {
	w := NewSignalWaiter(signals...)
	defer w.Close()
	w.Wait()
}
