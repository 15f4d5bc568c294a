package evrt

import "sync"

// ThreadSuspenderContext is a single-use, two-event rendezvous: one
// goroutine calls Suspend and blocks; a controller elsewhere calls
// WaitUntilSuspended to know the first goroutine has actually stopped,
// then Resume to release it. It is used to pause a task or loop
// goroutine at a known point for inspection or coordinated shutdown
// without polling.
type ThreadSuspenderContext struct {
	paused  chan struct{}
	resume  chan struct{}
	once    sync.Once
	resOnce sync.Once
}

// NewThreadSuspenderContext returns an armed, not-yet-suspended
// context.
func NewThreadSuspenderContext() (tsc *ThreadSuspenderContext) {
	return &ThreadSuspenderContext{
		paused: make(chan struct{}),
		resume: make(chan struct{}),
	}
}

// Suspend marks the context paused and blocks until Resume is called.
// Calling it more than once from the same or other goroutines is safe
// but only the first call actually blocks meaningfully — later calls
// also wait on the same resume signal.
func (tsc *ThreadSuspenderContext) Suspend() {
	tsc.once.Do(func() { close(tsc.paused) })
	<-tsc.resume
}

// WaitUntilSuspended blocks until some goroutine has entered Suspend.
func (tsc *ThreadSuspenderContext) WaitUntilSuspended() { <-tsc.paused }

// Resume releases any goroutine blocked in Suspend. Idempotent.
func (tsc *ThreadSuspenderContext) Resume() {
	tsc.resOnce.Do(func() { close(tsc.resume) })
}
