package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FFI-no/superflow/superflowerr"
)

func TestKeyed_PeekPopReadyNeverBlocks(t *testing.T) {
	k := NewKeyed[string, int](4)
	k.AddKey("a")
	peeked, err := k.PeekReady()
	require.NoError(t, err)
	assert.Empty(t, peeked)
	popped, err := k.PopReady()
	require.NoError(t, err)
	assert.Empty(t, popped)
}

func TestKeyed_PeekPopReadyFailAfterTermination(t *testing.T) {
	k := NewKeyed[string, int](4)
	k.AddKey("a")
	require.NoError(t, k.Push("a", 1))
	k.Terminate()

	_, err := k.PeekReady()
	assert.ErrorIs(t, err, superflowerr.ErrTerminated)

	_, err = k.PopReady()
	assert.ErrorIs(t, err, superflowerr.ErrTerminated)
}

func TestKeyed_PeekAllVacuousWithZeroKeys(t *testing.T) {
	k := NewKeyed[string, int](4)
	snap, err := k.PeekAll()
	require.NoError(t, err)
	assert.Empty(t, snap)

	snap, err = k.PopAll()
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestKeyed_AddKeyIdempotentPreservesContents(t *testing.T) {
	k := NewKeyed[string, int](4)
	k.AddKey("a")
	require.NoError(t, k.Push("a", 1))
	k.AddKey("a")
	peeked, err := k.PeekReady()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, peeked)
}

func TestKeyed_RemoveKeyDropsContents(t *testing.T) {
	k := NewKeyed[string, int](4)
	k.AddKey("a")
	require.NoError(t, k.Push("a", 1))
	k.RemoveKey("a")
	assert.Equal(t, 0, k.NumQueues())
}

func TestKeyed_PopAllBlocksUntilEverySubQueueNonEmpty(t *testing.T) {
	k := NewKeyed[string, int](4)
	k.AddKey("a")
	k.AddKey("b")
	require.NoError(t, k.Push("a", 1))

	done := make(chan map[string]int, 1)
	go func() {
		snap, err := k.PopAll()
		require.NoError(t, err)
		done <- snap
	}()

	select {
	case <-done:
		t.Fatal("PopAll returned before every sub-queue had a value")
	case <-time.After(10 * time.Millisecond):
	}

	require.NoError(t, k.Push("b", 2))

	select {
	case snap := <-done:
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, snap)
	case <-time.After(time.Second):
		t.Fatal("PopAll did not unblock once every sub-queue had a value")
	}
}

// TestKeyed_TenProducersOneSnapshot reproduces scenario 4 of the
// design's testable properties at the Keyed level (the Latched merge
// semantics themselves live in QueueReader; here we only assert the
// multi-queue half: ten producers pushing the same value are all visible
// in one PopAll snapshot).
func TestKeyed_TenProducersOneSnapshot(t *testing.T) {
	k := NewKeyed[string, int](1)
	for i := 0; i < 10; i++ {
		k.AddKey(fmt.Sprintf("p%d", i))
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, k.Push(fmt.Sprintf("p%d", i), 42))
	}
	snap, err := k.PopAll()
	require.NoError(t, err)
	assert.Len(t, snap, 10)
	for _, v := range snap {
		assert.Equal(t, 42, v)
	}
}

func TestKeyed_TerminationWakesAggregateWaiters(t *testing.T) {
	k := NewKeyed[string, int](4)
	k.AddKey("a")
	errs := make(chan error, 1)
	go func() {
		_, err := k.PopAtLeastOne()
		errs <- err
	}()

	select {
	case <-errs:
		t.Fatal("PopAtLeastOne returned before data or termination")
	case <-time.After(10 * time.Millisecond):
	}

	k.Terminate()

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("PopAtLeastOne did not wake within bounded time")
	}
}
