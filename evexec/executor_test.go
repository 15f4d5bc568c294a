package evexec

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFuture struct {
	done atomic.Bool
	val  atomic.Value
	err  atomic.Value
}

func (f *fakeFuture) SetResultThreadSafe(v any) { f.val.Store(v); f.done.Store(true) }
func (f *fakeFuture) SetExceptionThreadSafe(err error) { f.err.Store(err); f.done.Store(true) }
func (f *fakeFuture) IsDone() bool { return f.done.Load() }

func TestExecutorOffload(t *testing.T) {
	var e = NewExecutor(nil, nil)
	var future = &fakeFuture{}
	e.RunInExecutor(ExecutionPair{
		Callable: func() (any, error) { return 5040, nil },
		Future:   future,
	})
	require.Eventually(t, future.IsDone, time.Second, time.Millisecond)
	assert.Equal(t, 5040, future.val.Load())
}

func TestClaimedExecutorReleaseDrains(t *testing.T) {
	var e = NewExecutor(nil, nil)
	var claimed = e.ClaimExecutor()
	var ran atomic.Bool
	claimed.Execute(ExecutionPair{Callable: func() (any, error) { ran.Store(true); return nil, nil }})
	claimed.Release()
	require.Eventually(t, ran.Load, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		_, _, claimed := e.Counts()
		return claimed == 0
	}, time.Second, time.Millisecond)
}

func TestNewExecutorTunedAppliesConfiguredTuning(t *testing.T) {
	var e = NewExecutorTuned(nil, nil, 2, 50*time.Millisecond, 3.0)
	assert.Equal(t, 2, e.keptExecutorCount)
	assert.Equal(t, 50*time.Millisecond, e.releaseInterval)
	assert.Equal(t, 3.0, e.releaseMultiplier)
}

// NotifyDrained fires once an item leaves the queue (mirroring the
// "QueueLength reaches zero" condition the old polling watcher looked
// for), not once that item's callable has actually returned. Pushing
// a second blocking item keeps the queue non-empty until the first
// item's callable unblocks and the worker pops the second one.
func TestExecutorThreadNotifyDrainedFiresOnceQueueEmpty(t *testing.T) {
	var thread = NewExecutorThread(nil)
	defer thread.Stop()
	var unblockFirst = make(chan struct{})
	var block = make(chan struct{})
	thread.Push(ExecutionPair{Callable: func() (any, error) { <-unblockFirst; return nil, nil }})
	thread.Push(ExecutionPair{Callable: func() (any, error) { <-block; return nil, nil }})
	defer close(block)
	var fired atomic.Bool
	thread.NotifyDrained(func() { fired.Store(true) })
	require.Eventually(t, func() bool { return thread.QueueLength() == 1 }, time.Second, time.Millisecond)
	assert.False(t, fired.Load())
	close(unblockFirst)
	require.Eventually(t, fired.Load, time.Second, time.Millisecond)
}

func TestSyncQueueCancelWakesWaiter(t *testing.T) {
	var q = NewSyncQueue[int](0)
	var gotOK atomic.Bool
	gotOK.Store(true)
	go func() {
		_, ok := q.Get()
		gotOK.Store(ok)
	}()
	time.Sleep(10 * time.Millisecond)
	q.Cancel()
	require.Eventually(t, func() bool { return !gotOK.Load() }, time.Second, time.Millisecond)
}
