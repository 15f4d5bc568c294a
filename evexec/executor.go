package evexec

import (
	"sync"
	"time"

	"github.com/evrtlab/evrt/everr"
	"github.com/evrtlab/evrt/evlog"
)

const (
	// DefaultReleaseInterval is the first idle-release delay.
	DefaultReleaseInterval = 600 * time.Millisecond
	// DefaultReleaseMultiplier scales the delay on successive releases.
	DefaultReleaseMultiplier = 2.5
)

// Executor owns three disjoint sets of ExecutorThread: free, running,
// and claimed. It implements an idle-retention policy: up
// to keptExecutorCount idle threads are kept alive; beyond that, one
// idle thread is released per tick at an interval that grows by
// releaseMultiplier each time, until the kept count drops to its floor.
type Executor struct {
	mu       sync.Mutex
	free     []*ExecutorThread
	running  map[*ExecutorThread]struct{}
	claimed  map[*ExecutorThread]struct{}
	reporter *evlog.ExceptionReporter

	keptExecutorCount  int
	releaseInterval    time.Duration
	releaseMultiplier  float64
	scheduleRelease    func(delay time.Duration, fn func())
	pendingReleaseStop func()
}

// NewExecutor returns an empty pool with the built-in release interval
// and multiplier defaults and no retained floor. scheduleRelease is
// the loop's call_after-equivalent, used to arm the idle-release
// timer; passing nil disables idle release: idle threads are not
// stopped and stay in the free set until CancelAll.
func NewExecutor(reporter *evlog.ExceptionReporter, scheduleRelease func(delay time.Duration, fn func())) (e *Executor) {
	return NewExecutorTuned(reporter, scheduleRelease, 0, DefaultReleaseInterval, DefaultReleaseMultiplier)
}

// NewExecutorTuned is NewExecutor with the retained-thread floor,
// release interval and release multiplier taken from a loaded Config
// instead of the package defaults.
func NewExecutorTuned(reporter *evlog.ExceptionReporter, scheduleRelease func(delay time.Duration, fn func()), keptExecutorCount int, releaseInterval time.Duration, releaseMultiplier float64) (e *Executor) {
	return &Executor{
		running:           map[*ExecutorThread]struct{}{},
		claimed:           map[*ExecutorThread]struct{}{},
		reporter:          reporter,
		keptExecutorCount: keptExecutorCount,
		releaseInterval:   releaseInterval,
		releaseMultiplier: releaseMultiplier,
		scheduleRelease:   scheduleRelease,
	}
}

// RunInExecutor takes (or starts) a free thread and pushes pair onto
// it, returning the thread to the free set once its queue drains. The
// pair's Future already exists; the caller attaches its own
// done-callback to it separately.
func (e *Executor) RunInExecutor(pair ExecutionPair) {
	var t = e.takeFree()
	t.Push(pair)
	t.NotifyDrained(func() { e.returnFree(t) })
}

// takeFree pops a free thread or starts a new one.
func (e *Executor) takeFree() (t *ExecutorThread) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := len(e.free); n > 0 {
		t = e.free[n-1]
		e.free = e.free[:n-1]
	} else {
		t = NewExecutorThread(e.reporter)
	}
	e.running[t] = struct{}{}
	return
}

// returnFree moves a thread from running back to free, then evaluates
// the retention policy.
func (e *Executor) returnFree(t *ExecutorThread) {
	e.mu.Lock()
	delete(e.running, t)
	e.free = append(e.free, t)
	var previouslyUsed = len(e.free) + len(e.running)
	e.mu.Unlock()
	e.armRelease(previouslyUsed)
}

// armRelease schedules releaseStep at e.releaseInterval if a scheduler
// is available and previouslyUsed (free plus running threads) has
// reached keptExecutorCount, which it then raises to previouslyUsed.
func (e *Executor) armRelease(previouslyUsed int) {
	if e.scheduleRelease == nil {
		return
	}
	e.mu.Lock()
	if previouslyUsed < e.keptExecutorCount {
		e.mu.Unlock()
		return
	}
	e.keptExecutorCount = previouslyUsed
	var interval = e.releaseInterval
	e.mu.Unlock()
	e.scheduleRelease(interval, e.releaseStep)
}

// releaseStep releases one idle executor thread and, if the kept
// count is still above zero, re-arms itself at a longer interval.
func (e *Executor) releaseStep() {
	e.mu.Lock()
	if e.keptExecutorCount <= 0 {
		e.mu.Unlock()
		return
	}
	e.keptExecutorCount--
	var t *ExecutorThread
	if n := len(e.free); n > 0 {
		t = e.free[n-1]
		e.free = e.free[:n-1]
	}
	var nextInterval = time.Duration(float64(e.releaseInterval) * e.releaseMultiplier)
	e.releaseInterval = nextInterval
	var keep = e.keptExecutorCount
	e.mu.Unlock()
	if t != nil {
		t.Stop()
	}
	if keep > 0 && e.scheduleRelease != nil {
		e.scheduleRelease(nextInterval, e.releaseStep)
	} else {
		e.mu.Lock()
		e.releaseInterval = DefaultReleaseInterval
		e.mu.Unlock()
	}
}

// ClaimExecutor reserves one thread exclusively. execute additionally
// pushes work onto it; release returns it to free once its residual
// queue drains.
func (e *Executor) ClaimExecutor() (claimed *ClaimedExecutor) {
	var t = e.takeFree()
	e.mu.Lock()
	e.claimed[t] = struct{}{}
	e.mu.Unlock()
	return &ClaimedExecutor{executor: e, thread: t}
}

// CancelAll raises cancellation on every pending queued item and signals
// every worker thread to exit, used during loop shutdown.
func (e *Executor) CancelAll() {
	e.mu.Lock()
	var all = make([]*ExecutorThread, 0, len(e.free)+len(e.running)+len(e.claimed))
	for t := range e.running {
		all = append(all, t)
	}
	for t := range e.claimed {
		all = append(all, t)
	}
	all = append(all, e.free...)
	e.free = nil
	e.running = map[*ExecutorThread]struct{}{}
	e.claimed = map[*ExecutorThread]struct{}{}
	e.mu.Unlock()
	var cancelled = everr.New(everr.ErrCancelled, "executor cancelled")
	for _, t := range all {
		t.Stop()
		t.queue.mu.Lock()
		var pending = t.queue.items
		t.queue.items = nil
		t.queue.mu.Unlock()
		for _, pair := range pending {
			if pair.Future != nil {
				pair.Future.SetExceptionThreadSafe(cancelled)
			}
		}
	}
}

// Counts reports the size of each disjoint set, for diagnostics and
// tests.
func (e *Executor) Counts() (free, running, claimed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.free), len(e.running), len(e.claimed)
}

// ClaimedExecutor is one ExecutorThread exclusively reserved by a
// caller until Release.
type ClaimedExecutor struct {
	executor *Executor
	thread   *ExecutorThread
	released bool
	mu       sync.Mutex
}

// Execute pushes additional work onto the claimed thread.
func (c *ClaimedExecutor) Execute(pair ExecutionPair) (ok bool) {
	return c.thread.Push(pair)
}

// Release returns the thread to the free set once its residual queue
// has fully drained.
func (c *ClaimedExecutor) Release() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.released = true
	c.mu.Unlock()
	c.thread.NotifyDrained(func() {
		c.executor.mu.Lock()
		delete(c.executor.claimed, c.thread)
		c.executor.mu.Unlock()
		c.executor.returnFree(c.thread)
	})
}
