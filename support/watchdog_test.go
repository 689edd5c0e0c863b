package support

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchdog_CallsFnPeriodicallySkippingFirstImmediateCall(t *testing.T) {
	var calls atomic.Int32
	w := NewWatchdog(func(time.Duration) { calls.Add(1) }, 20*time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	assert.EqualValues(t, 0, calls.Load(), "fn must not fire immediately")

	time.Sleep(60 * time.Millisecond)
	w.Stop()
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestWatchdog_StopIsIdempotent(t *testing.T) {
	w := NewWatchdog(func(time.Duration) {}, 10*time.Millisecond)
	w.Stop()
	assert.NotPanics(t, w.Stop)
}

func TestWatchdog_CheckSurfacesPanicFromFn(t *testing.T) {
	w := NewWatchdog(func(time.Duration) { panic("boom") }, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	w.Stop()
	assert.Error(t, w.Check())
}
