// Package graph implements the runtime's processing-graph container:
// Graph owns a set of named proxels, runs each on its own worker goroutine,
// propagates crashes through a pluggable reporter instead of letting a
// panic take the whole process down, and exposes a live status snapshot -
// grounded on the original C++ graph.h/graph.cpp and on viant-fluxor's
// service/processor.Service worker-goroutine-per-unit-of-work convention.
package graph

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/FFI-no/superflow/port"
	"github.com/FFI-no/superflow/progress"
	"github.com/FFI-no/superflow/proxel"
	"github.com/FFI-no/superflow/superflowerr"
	"github.com/FFI-no/superflow/support"
	"github.com/FFI-no/superflow/tracing"
)

// connecter is implemented by every concrete port kind; Graph.Connect uses
// it without needing to know a port's value type.
type connecter interface {
	Connect(peer any) error
}

// CrashReporter is called, if non-nil, when a proxel's worker goroutine
// panics while the handleExceptions flag passed to Start is true. proxelID names the crashed proxel; err is the recovered panic
// converted to an error.
type CrashReporter func(proxelID string, err error)

// DefaultCrashReporter logs the crash with the standard library logger, the
// same fallback viant-fluxor's worker pool uses for unhandled processing
// errors (service/processor.worker.run).
func DefaultCrashReporter(proxelID string, err error) {
	log.Printf("proxel %q crashed: %v", proxelID, err)
}

// watchdogPeriod is how often Stop logs a "still waiting" diagnostic for a
// worker goroutine that has not yet returned, mirroring the original C++
// two-second Metronome in Graph::stop.
const watchdogPeriod = 2 * time.Second

type worker struct {
	proxel proxel.Proxel
	done   chan struct{}
}

// Graph owns a collection of named proxels and the worker goroutines that
// drive them.
type Graph struct {
	mu      sync.Mutex
	proxels map[string]proxel.Proxel
	workers map[string]*worker
	crashes map[string]error
	running bool
}

// New creates an empty Graph. Proxels are added with Add.
func New() *Graph {
	return &Graph{
		proxels: make(map[string]proxel.Proxel),
		workers: make(map[string]*worker),
		crashes: make(map[string]error),
	}
}

// Add registers a proxel under a unique id. Returns ErrDuplicateID if the id
// is already in use.
func (g *Graph) Add(id string, p proxel.Proxel) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.proxels[id]; ok {
		return superflowerr.Wrap(superflowerr.ErrDuplicateID, id, "", "", "")
	}
	g.proxels[id] = p
	return nil
}

// Get retrieves the proxel registered under id, asserted to type Sub. It
// returns ErrNotFound if the id is unknown, or ErrWrongType if the proxel
// does not implement Sub.
func Get[Sub any](g *Graph, id string) (Sub, error) {
	var zero Sub

	g.mu.Lock()
	p, ok := g.proxels[id]
	g.mu.Unlock()

	if !ok {
		return zero, superflowerr.Wrap(superflowerr.ErrNotFound, id, "", "", "")
	}

	sub, ok := p.(Sub)
	if !ok {
		return zero, superflowerr.Wrap(superflowerr.ErrWrongType, id, "", "", "proxel is not of the requested type")
	}
	return sub, nil
}

// Connect wires lhsPort of the lhs proxel to rhsPort of the rhs proxel,
// exactly as the original C++ Graph::connect: looks up both ports and calls
// Connect on the left-hand one with the right-hand one as peer.
func (g *Graph) Connect(lhs, lhsPort, rhs, rhsPort string) error {
	if lhs == rhs {
		return superflowerr.Wrap(superflowerr.ErrBuildError, lhs, lhsPort, "", "cannot connect a proxel to itself")
	}

	lp, err := g.getPort(lhs, lhsPort)
	if err != nil {
		return fmt.Errorf("connect %s.%s -> %s.%s: %w", lhs, lhsPort, rhs, rhsPort, err)
	}
	rp, err := g.getPort(rhs, rhsPort)
	if err != nil {
		return fmt.Errorf("connect %s.%s -> %s.%s: %w", lhs, lhsPort, rhs, rhsPort, err)
	}

	connectable, ok := lp.(connecter)
	if !ok {
		return superflowerr.Wrap(superflowerr.ErrTypeMismatch, lhs, lhsPort, "", "port does not support Connect")
	}
	if err := connectable.Connect(rp); err != nil {
		return fmt.Errorf("connect %s.%s -> %s.%s: %w", lhs, lhsPort, rhs, rhsPort, err)
	}
	return nil
}

func (g *Graph) getPort(proxelID, portName string) (port.Port, error) {
	g.mu.Lock()
	p, ok := g.proxels[proxelID]
	g.mu.Unlock()
	if !ok {
		return nil, superflowerr.Wrap(superflowerr.ErrNotFound, proxelID, portName, "", "")
	}
	return p.GetPort(portName)
}

// Start launches every registered proxel on its own worker goroutine. If
// handleExceptions is true, a panic inside a proxel's Start is recovered,
// recorded (surfaced afterwards through Status as proxel.Crashed), and
// passed to reporter (a nil reporter means crashes are not reported). If
// handleExceptions is false, a panic propagates and crashes the process, the
// same trade-off the original exposes via its handle_exceptions flag.
//
// Start returns ErrAlreadyRunning if the graph is already running.
func (g *Graph) Start(ctx context.Context, handleExceptions bool, reporter CrashReporter) error {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return superflowerr.ErrAlreadyRunning
	}
	g.running = true
	g.crashes = make(map[string]error)

	ctx, span := tracing.StartSpan(ctx, "graph.start", "INTERNAL")
	defer tracing.EndSpan(span, nil)

	for id, p := range g.proxels {
		w := &worker{proxel: p, done: make(chan struct{})}
		g.workers[id] = w
		go g.runWorker(ctx, id, w, handleExceptions, reporter)
	}
	g.mu.Unlock()
	return nil
}

// runWorker drives one proxel's Start/Stop lifecycle and, if a
// progress.Progress tracker is embedded in ctx (via progress.WithNewTracker),
// reports its contribution to the graph's aggregated Running/Stopped/Crashed
// counts. The progress bookkeeping defer never calls recover itself, so it
// never changes whether a panic propagates - only the crash-handling defer
// below does that, and only when handleExceptions is true.
func (g *Graph) runWorker(ctx context.Context, id string, w *worker, handleExceptions bool, reporter CrashReporter) {
	defer close(w.done)

	normalFinish := false
	defer func() {
		if normalFinish {
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Stopped: 1})
		} else {
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Crashed: 1})
		}
	}()
	progress.UpdateCtx(ctx, progress.Delta{Total: 1, Running: 1})

	if !handleExceptions {
		proxel.StartTraced(ctx, id, w.proxel.Start)
		normalFinish = true
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err := panicToError(r)
			g.mu.Lock()
			g.crashes[id] = err
			g.mu.Unlock()
			if reporter != nil {
				reporter(id, err)
			}
		}
	}()
	proxel.StartTraced(ctx, id, w.proxel.Start)
	normalFinish = true
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// Stop calls Stop on every proxel and waits for its worker goroutine to
// return, logging a diagnostic every two seconds for any still-joining
// worker - the original C++ Metronome-driven "still waiting" message. Stop is
// a no-op if the graph is not running.
func (g *Graph) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	proxels := make(map[string]proxel.Proxel, len(g.proxels))
	for id, p := range g.proxels {
		proxels[id] = p
	}
	workers := g.workers
	g.mu.Unlock()

	_, span := tracing.StartSpan(context.Background(), "graph.stop", "INTERNAL")
	defer tracing.EndSpan(span, nil)

	for _, p := range proxels {
		p.Stop()
	}

	for id, w := range workers {
		waitWorker(id, w)
	}

	g.mu.Lock()
	g.workers = make(map[string]*worker)
	g.running = false
	g.mu.Unlock()
}

func waitWorker(id string, w *worker) {
	wd := support.NewWatchdog(func(elapsed time.Duration) {
		log.Printf("still waiting for %q to finish after %s", id, elapsed.Round(time.Second))
	}, watchdogPeriod)
	defer wd.Stop()

	<-w.done
}

// Status returns the current Status of every registered proxel. A proxel
// whose worker crashed reports State proxel.Crashed with Info set to the
// panic's message, the same override the original applies from its crashes_
// map before falling back to the proxel's own getStatus().
func (g *Graph) Status() proxel.StatusMap {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(proxel.StatusMap, len(g.proxels))
	for id, p := range g.proxels {
		if err, crashed := g.crashes[id]; crashed {
			out[id] = proxel.Status{State: proxel.Crashed, Info: err.Error()}
			continue
		}
		out[id] = p.Status()
	}
	return out
}
