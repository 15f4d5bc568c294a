package evexec

import (
	"sync"
	"sync/atomic"

	"github.com/evrtlab/evrt/everr"
	"github.com/evrtlab/evrt/evlog"
)

// threadState is an ExecutorThread's lifecycle state.
type threadState uint32

const (
	threadCreated threadState = iota
	threadRunning
	threadStopped
)

// ResultSetter is the narrow slice of Future that evexec needs: it is
// implemented by evrt.Future so this package never imports evrt.
type ResultSetter interface {
	SetResultThreadSafe(v any)
	SetExceptionThreadSafe(err error)
	IsDone() bool
}

// Scheduler is the narrow slice of EventThread that evexec needs to
// deliver results back onto the loop.
type Scheduler interface {
	CallSoonThreadSafe(fn func(args ...any), args ...any)
}

// ExecutionPair is one unit of offloaded work: a blocking callable and
// the Future its result (or exception) resolves.
type ExecutionPair struct {
	Callable func() (any, error)
	Future   ResultSetter
}

// ExecutorThread is one worker goroutine pulling ExecutionPairs off its
// queue and running them to completion, delivering results back to the
// owning loop through the pair's ResultSetter (SetResultThreadSafe /
// SetExceptionThreadSafe).
type ExecutorThread struct {
	state    atomic.Uint32
	queue    *SyncQueue[ExecutionPair]
	current  atomic.Pointer[ExecutionPair]
	reporter *evlog.ExceptionReporter

	drainMu      sync.Mutex
	drainWaiters []func()
}

// NewExecutorThread creates and starts a worker goroutine.
func NewExecutorThread(reporter *evlog.ExceptionReporter) (t *ExecutorThread) {
	t = &ExecutorThread{queue: NewSyncQueue[ExecutionPair](0), reporter: reporter}
	t.state.Store(uint32(threadRunning))
	go t.run()
	return
}

// Push enqueues work for this thread. ok is false if the thread has
// been signalled to stop.
func (t *ExecutorThread) Push(pair ExecutionPair) (ok bool) {
	return t.queue.Put(pair)
}

// QueueLength reports how much work is still queued (not counting the
// item currently executing).
func (t *ExecutorThread) QueueLength() int { return t.queue.Len() }

// NotifyDrained calls fn once this thread's queue next becomes empty,
// or immediately if it already is. It replaces polling QueueLength in
// a loop with a single event fired from the worker goroutine itself.
func (t *ExecutorThread) NotifyDrained(fn func()) {
	t.drainMu.Lock()
	if t.queue.Len() == 0 {
		t.drainMu.Unlock()
		fn()
		return
	}
	t.drainWaiters = append(t.drainWaiters, fn)
	t.drainMu.Unlock()
}

// fireDrainWaiters runs and clears every pending NotifyDrained callback
// if the queue is currently empty.
func (t *ExecutorThread) fireDrainWaiters() {
	if t.queue.Len() != 0 {
		return
	}
	t.drainMu.Lock()
	var waiters = t.drainWaiters
	t.drainWaiters = nil
	t.drainMu.Unlock()
	for _, fn := range waiters {
		fn()
	}
}

// Stop signals the worker to exit after draining nothing further;
// in-flight work already popped still completes.
func (t *ExecutorThread) Stop() {
	t.state.Store(uint32(threadStopped))
	t.queue.Cancel()
}

// State reports the current lifecycle state.
func (t *ExecutorThread) State() (created, running, stopped bool) {
	switch threadState(t.state.Load()) {
	case threadCreated:
		return true, false, false
	case threadRunning:
		return false, true, false
	default:
		return false, false, true
	}
}

func (t *ExecutorThread) run() {
	for {
		pair, ok := t.queue.Get()
		if !ok {
			return
		}
		t.current.Store(&pair)
		t.fireDrainWaiters()
		if pair.Future != nil && pair.Future.IsDone() {
			t.current.Store(nil)
			continue
		}
		t.execute(pair)
		t.current.Store(nil)
	}
}

func (t *ExecutorThread) execute(pair ExecutionPair) {
	defer func() {
		if r := recover(); r != nil {
			if pair.Future != nil {
				var err = everr.FromPanic(r, 0)
				pair.Future.SetExceptionThreadSafe(err)
			} else if t.reporter != nil {
				t.reporter.Report("ExecutorThread.execute", everr.FromPanic(r, 0))
			}
		}
	}()
	var value, err = pair.Callable()
	if pair.Future == nil {
		return
	}
	if err != nil {
		pair.Future.SetExceptionThreadSafe(err)
		return
	}
	pair.Future.SetResultThreadSafe(value)
}
