package support

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_OnlyLatestPushedValueIsDelivered(t *testing.T) {
	var got atomic.Int32
	var calls atomic.Int32
	th := NewThrottle[int](func(v int) {
		got.Store(int32(v))
		calls.Add(1)
	}, 30*time.Millisecond)
	defer th.Stop()

	require.NoError(t, th.Push(1))
	require.NoError(t, th.Push(2))
	require.NoError(t, th.Push(3))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(3), got.Load())
	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestThrottle_NoPendingValueMeansNoCallback(t *testing.T) {
	var calls atomic.Int32
	th := NewThrottle[int](func(int) { calls.Add(1) }, 20*time.Millisecond)
	defer th.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.EqualValues(t, 0, calls.Load())
}

func TestThrottle_CallbackPanicSurfacesOnNextPush(t *testing.T) {
	th := NewThrottle[int](func(int) { panic("boom") }, 15*time.Millisecond)
	defer th.Stop()

	require.NoError(t, th.Push(1))
	time.Sleep(40 * time.Millisecond)

	err := th.Push(2)
	assert.Error(t, err)
}
