package support

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FFI-no/superflow/internal/clock"
)

func TestProxelTimer_AverageProcessingTimeAcrossRuns(t *testing.T) {
	var pt ProxelTimer

	pt.Start()
	time.Sleep(10 * time.Millisecond)
	pt.Stop()

	pt.Start()
	time.Sleep(20 * time.Millisecond)
	pt.Stop()

	assert.EqualValues(t, 2, pt.RunCount())
	assert.InDelta(t, 15*time.Millisecond, pt.AverageProcessingTime(), float64(10*time.Millisecond))
}

func TestProxelTimer_BusynessIsZeroBeforeFirstStart(t *testing.T) {
	var pt ProxelTimer
	assert.Equal(t, 0.0, pt.AverageBusyness())
}

func TestProxelTimer_PeekReflectsOngoingRunWithoutStopping(t *testing.T) {
	var pt ProxelTimer
	pt.Start()
	time.Sleep(10 * time.Millisecond)
	elapsed := pt.Peek()
	assert.Greater(t, elapsed, time.Duration(0))
	assert.EqualValues(t, 0, pt.RunCount())
}

func TestProxelTimer_StatusInfoIsNonEmpty(t *testing.T) {
	var pt ProxelTimer
	pt.Start()
	pt.Stop()
	assert.NotEmpty(t, pt.StatusInfo())
}

func TestProxelTimer_AverageProcessingTimeIsDeterministicUnderAFakeClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	defer func() { clock.NowFunc = time.Now }()
	clock.NowFunc = func() time.Time { return now }

	var pt ProxelTimer
	pt.Start()
	now = now.Add(10 * time.Millisecond)
	pt.Stop()

	pt.Start()
	now = now.Add(20 * time.Millisecond)
	pt.Stop()

	assert.EqualValues(t, 2, pt.RunCount())
	assert.Equal(t, 15*time.Millisecond, pt.AverageProcessingTime())
	assert.Equal(t, 1.0, pt.AverageBusyness())
}
