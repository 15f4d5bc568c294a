package evrt

import "sync"

// Event is a level-triggered gate: any number of waiters block in
// Wait until Set is called, after which every current and future
// waiter proceeds immediately, until Clear resets it.
type Event struct {
	loop *EventThread

	mu      sync.Mutex
	isSet   bool
	waiters []*Future
}

// NewEvent returns a cleared Event bound to loop.
func NewEvent(loop *EventThread) (e *Event) { return &Event{loop: loop} }

// IsSet reports the current gate state.
func (e *Event) IsSet() (isSet bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isSet
}

// Set opens the gate, releasing every current waiter.
func (e *Event) Set() {
	e.mu.Lock()
	if e.isSet {
		e.mu.Unlock()
		return
	}
	e.isSet = true
	var waiters = e.waiters
	e.waiters = nil
	e.mu.Unlock()
	for _, f := range waiters {
		f.SetResultIfPending(nil)
	}
}

// Clear closes the gate again; it has no effect on goroutines already
// released by a prior Set.
func (e *Event) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.isSet = false
}

// Wait blocks until the gate is open, returning immediately if it
// already is.
func (e *Event) Wait(tc *TaskContext) (err error) {
	e.mu.Lock()
	if e.isSet {
		e.mu.Unlock()
		return nil
	}
	var f = NewFuture(e.loop)
	e.waiters = append(e.waiters, f)
	e.mu.Unlock()
	_, err = tc.Await(f)
	return
}
