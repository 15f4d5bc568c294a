package evrt

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScarletExecutorBoundsConcurrency(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var se = NewScarletExecutor(loop, 2)
	var inFlight, maxInFlight atomic.Int32
	var tasks []*Task
	for i := 0; i < 5; i++ {
		var task = se.Spawn("worker", func(tc *TaskContext) (any, error) {
			var n = inFlight.Add(1)
			for {
				var cur = maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			defer inFlight.Add(-1)
			return nil, tc.Sleep(15 * time.Millisecond)
		})
		tasks = append(tasks, task)
	}
	for _, task := range tasks {
		_, err := task.Await()
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestScarletExecutorRunAllStopsOnFirstError(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var se = NewScarletExecutor(loop, 4)
	var boom = assertError("boom")
	var err = se.RunAll(context.Background(), []func(context.Context) error{
		func(context.Context) error { return boom },
		func(ctx context.Context) error { <-ctx.Done(); return ctx.Err() },
	})
	assert.ErrorIs(t, err, boom)
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func assertError(msg string) error { return simpleError(msg) }
