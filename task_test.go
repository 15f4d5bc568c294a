package evrt

import (
	"testing"
	"time"

	"github.com/evrtlab/evrt/everr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRunsCoroutineToCompletion(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var task = NewTask(loop, "adder", func(tc *TaskContext) (any, error) {
		return 2 + 2, nil
	}).Start()
	v, err := task.Await()
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestTaskAwaitAnotherFuture(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var inner = NewFuture(loop)
	var outer = NewTask(loop, "outer", func(tc *TaskContext) (any, error) {
		return tc.Await(inner)
	}).Start()
	loop.CallAfter(5*time.Millisecond, func(...any) { inner.SetResultIfPending("inner value") })
	v, err := outer.Await()
	require.NoError(t, err)
	assert.Equal(t, "inner value", v)
}

func TestTaskCancelInterruptsAwait(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var neverResolves = NewFuture(loop)
	var task = NewTask(loop, "stuck", func(tc *TaskContext) (any, error) {
		return tc.Await(neverResolves)
	}).Start()
	time.Sleep(5 * time.Millisecond)
	task.Cancel()
	_, err := task.Await()
	assert.True(t, everr.Is(err, everr.ErrCancelled))
	assert.True(t, neverResolves.IsCancelled())
}

func TestTaskPropagatesError(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var boom = everr.New(everr.ErrValue, "bad input")
	var task = NewTask(loop, "failing", func(tc *TaskContext) (any, error) {
		return nil, boom
	}).Start()
	_, err := task.Await()
	assert.True(t, everr.Is(err, everr.ErrValue))
}

func TestTaskPanicBecomesRuntimeError(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var task = NewTask(loop, "panics", func(tc *TaskContext) (any, error) {
		panic("kaboom")
	}).Start()
	_, err := task.Await()
	assert.True(t, everr.Is(err, everr.ErrRuntime))
}

func TestTaskContextSleep(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var start = time.Now()
	var task = NewTask(loop, "sleeper", func(tc *TaskContext) (any, error) {
		return nil, tc.Sleep(20 * time.Millisecond)
	}).Start()
	_, err := task.Await()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
