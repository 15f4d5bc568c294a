/*
© 2024–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package evx holds declarations not essential to the loop itself: a
// thin compatibility surface under the legacy names callers migrating
// from the source runtime are likely to look for first. It reexports
// a representative slice, not the whole API — new code should import
// evrt directly.
package evx

import (
	"time"

	"github.com/evrtlab/evrt"
)

// Future is the legacy name for evrt.Future.
type Future = evrt.Future

// Task is the legacy name for evrt.Task.
type Task = evrt.Task

// TaskContext is the legacy name for evrt.TaskContext.
type TaskContext = evrt.TaskContext

// Coroutine is the legacy name for evrt.Coroutine.
type Coroutine = evrt.Coroutine

// EventLoop is the legacy name for the loop type, evrt.EventThread.
type EventLoop = evrt.EventThread

// NewEventLoop is the legacy constructor name for evrt.NewEventThread.
func NewEventLoop(name string) *EventLoop {
	return evrt.NewEventThread(name)
}

// Sleep suspends the calling task for d, the legacy top-level
// counterpart of TaskContext.Sleep.
func Sleep(tc *TaskContext, d time.Duration) error {
	return tc.Sleep(d)
}

// Gather waits, from the task behind tc, for every task in tg to
// finish, returning every result in spawn order, mirroring the legacy
// module-level gather() helper.
func Gather(tg *evrt.TaskGroup, tc *TaskContext, stopOnError bool) []evrt.GatherResult {
	return tg.Gather(tc, stopOnError)
}
