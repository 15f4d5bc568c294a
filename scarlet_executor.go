package evrt

import (
	"context"

	"github.com/evrtlab/evrt/everr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ScarletExecutor runs coroutines with bounded concurrency: at most
// maxConcurrency tasks actually execute their body at once, the rest
// park acquiring a weighted semaphore before they start.
type ScarletExecutor struct {
	loop *EventThread
	sem  *semaphore.Weighted
}

// NewScarletExecutor returns an executor that allows maxConcurrency
// coroutines to run concurrently.
func NewScarletExecutor(loop *EventThread, maxConcurrency int64) (se *ScarletExecutor) {
	return &ScarletExecutor{loop: loop, sem: semaphore.NewWeighted(maxConcurrency)}
}

// Spawn starts coroutine as a Task that first acquires a concurrency
// slot, using the task's own context so a cancelled task gives up
// waiting for a slot instead of acquiring one it will never use.
func (se *ScarletExecutor) Spawn(name string, coroutine Coroutine) (t *Task) {
	t = NewTask(se.loop, name, func(tc *TaskContext) (any, error) {
		if err := se.sem.Acquire(tc.Context(), 1); err != nil {
			return nil, everr.Wrap(everr.ErrCancelled, err)
		}
		defer se.sem.Release(1)
		return coroutine(tc)
	})
	return t.Start()
}

// RunAll runs fns concurrently, bounded by the same semaphore, and
// returns the first non-nil error any of them returns; the rest are
// cancelled via the shared group context the way an errgroup.Group
// always does.
func (se *ScarletExecutor) RunAll(ctx context.Context, fns []func(context.Context) error) (err error) {
	var g, gctx = errgroup.WithContext(ctx)
	for _, fn := range fns {
		var fn = fn
		g.Go(func() error {
			if acquireErr := se.sem.Acquire(gctx, 1); acquireErr != nil {
				return acquireErr
			}
			defer se.sem.Release(1)
			return fn(gctx)
		})
	}
	return g.Wait()
}
