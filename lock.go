package evrt

import (
	"sync"

	"github.com/evrtlab/evrt/everr"
)

// Lock is a FIFO mutual-exclusion primitive for coroutines: Acquire
// suspends the calling task rather than blocking its goroutine's
// thread, and ownership passes directly to the longest-waiting task on
// Release instead of being reopened for general contention.
type Lock struct {
	loop *EventThread

	mu      sync.Mutex
	locked  bool
	waiters []*Future
}

// NewLock returns an unlocked Lock bound to loop.
func NewLock(loop *EventThread) (l *Lock) { return &Lock{loop: loop} }

// Locked reports whether the lock is currently held.
func (l *Lock) Locked() (locked bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// Acquire blocks the calling task until the lock is held by it.
func (l *Lock) Acquire(tc *TaskContext) (err error) {
	l.mu.Lock()
	if !l.locked {
		l.locked = true
		l.mu.Unlock()
		return nil
	}
	var f = NewFuture(l.loop)
	l.waiters = append(l.waiters, f)
	l.mu.Unlock()
	_, err = tc.Await(f)
	return
}

// Release hands the lock to the next waiter if any, or marks it free.
// Panics with ErrRuntime if the lock is not held, the same misuse
// signal a mutex unlock-without-lock gets elsewhere in the runtime.
func (l *Lock) Release() {
	l.mu.Lock()
	if !l.locked {
		l.mu.Unlock()
		panic(everr.New(everr.ErrRuntime, "Release called on an unlocked Lock"))
	}
	if n := len(l.waiters); n > 0 {
		var next = l.waiters[0]
		l.waiters = l.waiters[1:]
		l.mu.Unlock()
		next.SetResultIfPending(nil)
		return
	}
	l.locked = false
	l.mu.Unlock()
}
