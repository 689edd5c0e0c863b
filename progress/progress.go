// Package progress provides a lightweight tracker that keeps aggregated
// proxel-state counters for a single graph.Graph run. The tracker instance
// lives in the Start context - any component that receives that context
// (graph.Graph's worker loop, a caller's own monitoring goroutine) can
// atomically update or read the counters via the context helpers, without a
// global registry.
package progress

import (
	"context"
	"sync"
	"time"
)

// Delta is an incremental counter change applied by graph.Graph's worker
// loop as proxels start, stop, or crash. Fields are signed so a single
// struct can express either an increment or a decrement.
type Delta struct {
	Total   int
	Running int
	Stopped int
	Crashed int
}

// Progress keeps aggregated proxel-state counters for one graph run. Safe
// for concurrent use.
type Progress struct {
	// Identification - informative only, filled when the tracker is created.
	GraphID   string
	StartedAt time.Time

	// Counters - modified via Update().
	TotalProxels   int
	RunningProxels int
	StoppedProxels int
	CrashedProxels int

	sync.Mutex
	onChange func(Progress)
}

// Update applies delta to the tracker. Safe to call from multiple
// goroutines. If an onChange callback has been registered it is invoked
// with a copy of the updated tracker outside the critical section, so the
// callback can do slow work (logging, a status line, a metrics push)
// without blocking the graph's worker loop.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()
	p.TotalProxels += d.Total
	p.RunningProxels += d.Running
	p.StoppedProxels += d.Stopped
	p.CrashedProxels += d.Crashed
	snapshot := *p
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return *p
}

// OnChange registers a callback invoked after every successful Update.
// Passing nil disables it. Only one callback is active at a time;
// subsequent calls overwrite the previous one.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a context
// derived from ctx, and returns both. onChange may be nil.
func WithNewTracker(ctx context.Context, graphID string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		GraphID:   graphID,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the Progress tracker embedded in ctx, if any.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot; ok is false when ctx
// carries no tracker.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx looks up the tracker in ctx, if any, and applies delta. It is a
// no-op if ctx carries no tracker - callers that never embedded one pay
// nothing for this.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
