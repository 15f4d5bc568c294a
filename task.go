package evrt

import (
	"context"
	"errors"
	"time"

	"github.com/evrtlab/evrt/everr"
	"github.com/evrtlab/evrt/evid"
)

// Coroutine is the body a Task drives to completion. It receives a
// TaskContext used to await other futures/tasks cooperatively and to
// observe cancellation. Go has no generator "yield"/"send" protocol,
// so unlike the source's suspended-frame coroutines, a Coroutine runs
// on its own goroutine for its whole lifetime; TaskContext.Await is
// where it actually blocks, which is the Go-native equivalent of a
// yield point.
type Coroutine func(tc *TaskContext) (any, error)

// Task drives a Coroutine to completion and exposes its outcome as a
// Future. Cancelling a Task cancels its TaskContext, which any
// in-flight TaskContext.Await observes and returns from immediately.
type Task struct {
	*Future
	Name string

	loop      *EventThread
	ctx       context.Context
	cancel    context.CancelCauseFunc
	coroutine Coroutine
}

// TaskContext is the handle a running Coroutine uses to cooperate with
// its owning Task: awaiting other futures, sleeping, and checking for
// cancellation.
type TaskContext struct {
	task *Task
}

// NewTask wires coroutine to a new pending Task bound to loop. The
// task does not run until Start is called.
func NewTask(loop *EventThread, name string, coroutine Coroutine) (t *Task) {
	var ctx, cancel = context.WithCancelCause(context.Background())
	return &Task{
		Future:    NewFuture(loop),
		Name:      name,
		loop:      loop,
		ctx:       ctx,
		cancel:    cancel,
		coroutine: coroutine,
	}
}

// Start schedules the coroutine's first step on the loop via CallSoon,
// mirroring a freshly created task being appended to the ready deque
// rather than run inline.
func (t *Task) Start() (self *Task) {
	t.loop.CallSoon(func(...any) { go t.run() })
	return t
}

// ID returns a loggable identifier derived from the task's future ID.
func (t *Task) ID() evid.EntityID { return t.Future.ID }

func (t *Task) run() {
	defer func() {
		if r := recover(); r != nil {
			t.SetExceptionIfPending(everr.FromPanic(r, 0))
		}
	}()
	var result, err = t.coroutine(&TaskContext{task: t})
	if err != nil {
		if errors.Is(err, context.Canceled) || everr.Is(err, everr.ErrCancelled) {
			t.Future.Cancel()
			return
		}
		t.SetExceptionIfPending(err)
		return
	}
	t.SetResultIfPending(result)
}

// Cancel cancels the task's context, interrupting any in-flight Await
// or Sleep, and marks the underlying future cancelled.
func (t *Task) Cancel() (didCancel bool) {
	t.cancel(everr.New(everr.ErrCancelled, "task cancelled"))
	return t.Future.Cancel()
}

// Context returns the Task's cancellation context, for coroutines that
// want to pass it straight to a context-aware API.
func (tc *TaskContext) Context() context.Context { return tc.task.ctx }

// Await blocks the calling goroutine until f resolves or the owning
// task is cancelled, whichever happens first. If the task is
// cancelled while waiting, f itself is also cancelled.
func (tc *TaskContext) Await(f *Future) (v any, err error) {
	select {
	case <-f.Done():
		return f.GetResult()
	case <-tc.task.ctx.Done():
		f.Cancel()
		return nil, everr.New(everr.ErrCancelled, "await interrupted by task cancellation")
	}
}

// AwaitTask is a convenience wrapper for awaiting another Task's
// Future.
func (tc *TaskContext) AwaitTask(other *Task) (v any, err error) {
	return tc.Await(other.Future)
}

// Sleep suspends the coroutine for d, scheduled on the owning loop via
// CallAfter, and returns early with a cancellation error if the task
// is cancelled first.
func (tc *TaskContext) Sleep(d time.Duration) (err error) {
	var f = NewFuture(tc.task.loop)
	var th = tc.task.loop.CallAfter(d, func(...any) { f.SetResultIfPending(nil) })
	if _, err = tc.Await(f); err != nil {
		th.Cancel()
	}
	return
}

// Yield suspends the coroutine until the next loop tick, the
// equivalent of the source's bare `await sleep(0)`.
func (tc *TaskContext) Yield() (err error) {
	var f = NewFuture(tc.task.loop)
	tc.task.loop.CallSoon(func(...any) { f.SetResultIfPending(nil) })
	_, err = tc.Await(f)
	return
}
