package support

import (
	"fmt"
	"sync"
	"time"

	"github.com/FFI-no/superflow/internal/clock"
)

// ProxelTimer measures a proxel's workload: average processing time per
// Start/Stop pair and overall busyness (summed processing time divided by
// wall-clock time since the first Start), grounded on utils/proxel_timer.h.
// A zero-value ProxelTimer is usable. Timestamps come from clock.Now rather
// than time.Now directly, so a test can override clock.NowFunc to make
// AverageProcessingTime/AverageBusyness deterministic instead of sleeping.
type ProxelTimer struct {
	mu sync.Mutex

	firstStart    time.Time
	hasFirstStart bool

	started        time.Time
	running        bool
	runCount       uint64
	summedProcTime time.Duration
}

// Start marks the beginning of one unit of work.
func (t *ProxelTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := clock.Now()
	if !t.hasFirstStart {
		t.firstStart, t.hasFirstStart = now, true
	}
	t.started, t.running = now, true
}

// Stop marks the end of one unit of work and returns its elapsed duration.
func (t *ProxelTimer) Stop() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return 0
	}
	elapsed := clock.Now().Sub(t.started)
	t.running = false
	t.runCount++
	t.summedProcTime += elapsed
	return elapsed
}

// Peek returns the time elapsed since Start without stopping the timer. It
// returns 0 if the timer is not currently running.
func (t *ProxelTimer) Peek() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return 0
	}
	return clock.Now().Sub(t.started)
}

// AverageProcessingTime returns the mean duration of all completed
// Start/Stop pairs.
func (t *ProxelTimer) AverageProcessingTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runCount == 0 {
		return 0
	}
	return t.summedProcTime / time.Duration(t.runCount)
}

// AverageBusyness returns the ratio of summed processing time to wall-clock
// time since the first Start: 1 means the timer has been running
// continuously, 0 means it has never run.
func (t *ProxelTimer) AverageBusyness() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.hasFirstStart {
		return 0
	}
	total := clock.Now().Sub(t.firstStart)
	if total <= 0 {
		return 0
	}
	return float64(t.summedProcTime) / float64(total)
}

// RunCount returns how many times Stop has completed a Start/Stop pair.
func (t *ProxelTimer) RunCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runCount
}

// StatusInfo renders a one-line summary of average processing time and
// busyness, suitable for Proxel.setStatusInfo.
func (t *ProxelTimer) StatusInfo() string {
	return fmt.Sprintf("avg=%s busyness=%.2f", t.AverageProcessingTime(), t.AverageBusyness())
}
