package evrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockSerializesAcquireAcrossTasks(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var l = NewLock(loop)
	var order []int
	var group = NewTaskGroup(loop)
	group.Spawn("one", func(tc *TaskContext) (any, error) {
		if err := l.Acquire(tc); err != nil {
			return nil, err
		}
		defer l.Release()
		order = append(order, 1)
		return nil, tc.Sleep(10 * time.Millisecond)
	})
	time.Sleep(2 * time.Millisecond)
	group.Spawn("two", func(tc *TaskContext) (any, error) {
		if err := l.Acquire(tc); err != nil {
			return nil, err
		}
		defer l.Release()
		order = append(order, 2)
		return nil, nil
	})
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		group.Gather(tc, false)
		return nil, nil
	}).Start()
	_, err := runner.Await()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestLockReleaseWithoutAcquirePanics(t *testing.T) {
	var loop = NewEventThread("test")
	var l = NewLock(loop)
	assert.Panics(t, func() { l.Release() })
}
