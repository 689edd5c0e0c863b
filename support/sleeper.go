package support

import (
	"sync"
	"time"
)

// Sleeper is a simple rate limiter, grounded on utils/sleeper.h: call
// SleepForRemainderOfPeriod in a processing loop and it blocks just long
// enough that successive calls are spaced at least one period apart,
// without accumulating drift from the work done between calls.
type Sleeper struct {
	mu       sync.Mutex
	period   time.Duration
	lastWoke time.Time
}

// NewSleeper creates a Sleeper with the given period.
func NewSleeper(period time.Duration) *Sleeper {
	return &Sleeper{period: period, lastWoke: time.Now()}
}

// SetPeriod changes the sleep period used by subsequent calls.
func (s *Sleeper) SetPeriod(period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = period
}

// SleepForRemainderOfPeriod sleeps until period has elapsed since the last
// call returned (or since the Sleeper was created, on the first call).
func (s *Sleeper) SleepForRemainderOfPeriod() {
	s.mu.Lock()
	period := s.period
	elapsed := time.Since(s.lastWoke)
	s.mu.Unlock()

	if remaining := period - elapsed; remaining > 0 {
		time.Sleep(remaining)
	}

	s.mu.Lock()
	s.lastWoke = time.Now()
	s.mu.Unlock()
}
