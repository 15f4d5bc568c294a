package evrt

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/evrtlab/evrt/everr"
	"github.com/evrtlab/evrt/evid"
)

// futureState is the pending/finished/cancelled/retrieved state
// machine a Future moves through exactly once.
type futureState int32

const (
	statePending futureState = iota
	stateFinished
	stateCancelled
	stateRetrieved
)

// Future is a single-assignment result cell bound to a loop. Its
// result or exception is immutable once set; done-callbacks fire at
// most once, scheduled on the owning loop even if attached after the
// terminal transition.
type Future struct {
	ID evid.EntityID

	loop *EventThread

	mu        sync.Mutex
	state     futureState
	result    any
	exception error
	callbacks []doneCallback
	// cancelHandles are timeout/shield handles cancelled alongside this
	// future once it resolves through any path.
	cancelHandles []canceller
	done          chan struct{}

	blocking atomic.Bool
	debug    atomic.Bool
}

type doneCallback struct {
	id uint64
	fn func(*Future)
}

type canceller interface{ Cancel() bool }

var doneCallbackSeq atomic.Uint64

// DoneCallbackToken identifies a registered callback so it can be
// removed; Go function values are not comparable the way Python bound
// methods are, so RemoveDoneCallback takes this token rather than the
// function itself.
type DoneCallbackToken uint64

// NewFuture returns a pending Future bound to loop.
func NewFuture(loop *EventThread) (f *Future) {
	return &Future{ID: evid.New(), loop: loop, done: make(chan struct{})}
}

// Loop returns the loop this future is bound to.
func (f *Future) Loop() *EventThread { return f.loop }

// SetDebug enables tracking of the finished -> retrieved transition on
// first read; with debug off, retrieved is just an alias for finished.
func (f *Future) SetDebug(on bool) { f.debug.Store(on) }

// SetResult transitions a pending future to finished with v. Panics
// with an ErrInvalidState-kind error if the future is not pending.
func (f *Future) SetResult(v any) {
	if status := f.SetResultIfPending(v); status == 0 {
		panic(everr.New(everr.ErrInvalidState, "SetResult called on a non-pending future"))
	}
}

// SetException transitions a pending future to finished with err. err
// must not represent everr.ErrCancelled's cooperative semantics stored
// as a "StopIteration"-equivalent — callers use Cancel for that.
func (f *Future) SetException(err error) {
	if status := f.SetExceptionIfPending(err); status == 0 {
		panic(everr.New(everr.ErrInvalidState, "SetException called on a non-pending future"))
	}
}

// SetResultIfPending is SetResult without panicking: 0 means the
// future was already done, 1 means the transition happened.
func (f *Future) SetResultIfPending(v any) (status int) {
	f.mu.Lock()
	if f.state != statePending {
		f.mu.Unlock()
		return 0
	}
	f.result = v
	f.state = stateFinished
	close(f.done)
	f.mu.Unlock()
	f.cancelTimeoutHandles()
	f.scheduleCallbacks()
	return 1
}

// SetExceptionIfPending mirrors SetResultIfPending for exceptions.
func (f *Future) SetExceptionIfPending(err error) (status int) {
	f.mu.Lock()
	if f.state != statePending {
		f.mu.Unlock()
		return 0
	}
	f.exception = err
	f.state = stateFinished
	close(f.done)
	f.mu.Unlock()
	f.cancelTimeoutHandles()
	f.scheduleCallbacks()
	return 1
}

// SetResultThreadSafe/SetExceptionThreadSafe satisfy evexec.ResultSetter
// so the executor pool can resolve a Future from a worker thread by
// posting the transition onto the owning loop.
func (f *Future) SetResultThreadSafe(v any) {
	f.loop.CallSoonThreadSafe(func(...any) { f.SetResultIfPending(v) })
}

func (f *Future) SetExceptionThreadSafe(err error) {
	f.loop.CallSoonThreadSafe(func(...any) { f.SetExceptionIfPending(err) })
}

// IsDone reports whether the future has left the pending state.
func (f *Future) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != statePending
}

// IsCancelled reports whether the future was cancelled.
func (f *Future) IsCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == stateCancelled
}

// Cancel transitions a pending future to cancelled, returning true iff
// the transition happened, and cancels any attached timeout/shield
// handles.
func (f *Future) Cancel() (didCancel bool) {
	f.mu.Lock()
	if f.state != statePending {
		f.mu.Unlock()
		return false
	}
	f.state = stateCancelled
	close(f.done)
	f.mu.Unlock()
	f.cancelTimeoutHandles()
	f.scheduleCallbacks()
	return true
}

func (f *Future) cancelTimeoutHandles() {
	f.mu.Lock()
	var handles = f.cancelHandles
	f.cancelHandles = nil
	f.mu.Unlock()
	for _, h := range handles {
		h.Cancel()
	}
}

// GetResult returns the result if finished, raises ErrCancelled if
// cancelled, or ErrInvalidState if still pending.
func (f *Future) GetResult() (v any, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case statePending:
		return nil, everr.New(everr.ErrInvalidState, "GetResult called on a pending future")
	case stateCancelled:
		return nil, everr.New(everr.ErrCancelled, "future was cancelled")
	default:
		f.markRetrievedLocked()
		return f.result, f.exception
	}
}

// GetException returns the stored exception (nil if none), raises
// ErrCancelled if cancelled, ErrInvalidState if still pending.
func (f *Future) GetException() (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case statePending:
		return everr.New(everr.ErrInvalidState, "GetException called on a pending future")
	case stateCancelled:
		return everr.New(everr.ErrCancelled, "future was cancelled")
	default:
		f.markRetrievedLocked()
		return f.exception
	}
}

func (f *Future) markRetrievedLocked() {
	if f.debug.Load() && f.state == stateFinished {
		f.state = stateRetrieved
	}
}

// Silence marks the result retrieved without reading it, so a debug
// build's unretrieved-exception warning does not fire.
func (f *Future) Silence() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markRetrievedLocked()
}

// AddDoneCallback registers cb to run once the future is done. If
// already done, cb is scheduled on the loop immediately rather than
// invoked synchronously.
func (f *Future) AddDoneCallback(cb func(*Future)) (token DoneCallbackToken) {
	var id = doneCallbackSeq.Add(1)
	f.mu.Lock()
	var isDone = f.state != statePending
	if !isDone {
		f.callbacks = append(f.callbacks, doneCallback{id: id, fn: cb})
	}
	f.mu.Unlock()
	if isDone {
		f.loop.CallSoon(func(...any) { cb(f) })
	}
	return DoneCallbackToken(id)
}

// RemoveDoneCallback removes the callback registered under token.
func (f *Future) RemoveDoneCallback(token DoneCallbackToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept = f.callbacks[:0]
	for _, cb := range f.callbacks {
		if cb.id != uint64(token) {
			kept = append(kept, cb)
		}
	}
	f.callbacks = kept
}

// IterCallbacks returns a snapshot of registered callbacks, for
// introspection only.
func (f *Future) IterCallbacks() (fns []func(*Future)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fns = make([]func(*Future), len(f.callbacks))
	for i, cb := range f.callbacks {
		fns[i] = cb.fn
	}
	return
}

// scheduleCallbacks atomically detaches every callback and queues each
// as its own handle on the loop rather than invoking them inline.
func (f *Future) scheduleCallbacks() {
	f.mu.Lock()
	var cbs = f.callbacks
	f.callbacks = nil
	f.mu.Unlock()
	for _, cb := range cbs {
		var fn = cb.fn
		f.loop.CallSoon(func(...any) { fn(f) })
	}
}

// ApplyTimeout schedules a cancel at loop_time()+d and attaches the
// resulting handle to cancelHandles so it is cleaned up once the
// future resolves through any path.
func (f *Future) ApplyTimeout(d time.Duration) {
	var th = f.loop.CallAfter(d, func(...any) { f.Cancel() })
	f.mu.Lock()
	f.cancelHandles = append(f.cancelHandles, th)
	f.mu.Unlock()
}

// Await blocks the calling goroutine until the future is done,
// returning its result or exception. A blocking flag is held for the
// duration so a future cannot be awaited twice concurrently by mistake.
func (f *Future) Await() (v any, err error) {
	if !f.blocking.CompareAndSwap(false, true) {
		panic(everr.New(everr.ErrRuntime, "future is already being awaited"))
	}
	defer f.blocking.Store(false)
	<-f.done
	return f.GetResult()
}

// Done returns a channel closed when the future transitions out of
// pending, for use in select statements.
func (f *Future) Done() <-chan struct{} { return f.done }
