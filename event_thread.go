package evrt

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/evrtlab/evrt/evconfig"
	"github.com/evrtlab/evrt/everr"
	"github.com/evrtlab/evrt/evexec"
	"github.com/evrtlab/evrt/evid"
	"github.com/evrtlab/evrt/evlog"
	"github.com/evrtlab/evrt/evsys"
)

// EventThread is a single-threaded event loop: one dedicated goroutine
// runs ready callbacks and fired timers in a tight cycle, waking on
// either direction via its self-pipe. Every other goroutine must reach
// into a running loop only through the *ThreadSafe operations (which,
// in this implementation, are the same operations — see CallSoon).
type EventThread struct {
	ID   evid.EntityID
	Name string

	reporter *evlog.ExceptionReporter
	executor *evexec.Executor
	selector *Selector

	epoch           time.Time
	clockResolution time.Duration

	mu     sync.Mutex
	ready  []*Handle
	timers timerHeap

	pipe    *selfPipe
	stopCh  chan struct{}
	running atomic.Bool
	stopped atomic.Bool

	loopGoroutineID atomic.Int64
}

// NewEventThread returns a loop that has not yet started running,
// tuned with evconfig.Default() and evsys.DefaultExecutorCount. Call
// Run from the goroutine that should become its dedicated thread.
func NewEventThread(name string) (lt *EventThread) {
	return NewEventThreadWithConfig(name, nil)
}

// NewEventThreadWithConfig is NewEventThread with an explicit Config.
// A nil cfg loads evconfig.Default(); a zero KeptExecutorCount in cfg
// is replaced by evsys.DefaultExecutorCount(), read after
// evsys.TuneGOMAXPROCS has been applied so the retained pool size
// reflects any container CPU quota.
func NewEventThreadWithConfig(name string, cfg *evconfig.Config) (lt *EventThread) {
	if cfg == nil {
		cfg = evconfig.Default()
	}
	var reporter = evlog.NewExceptionReporter(name)
	lt = &EventThread{
		ID:              evid.New(),
		Name:            name,
		reporter:        reporter,
		pipe:            newSelfPipe(),
		stopCh:          make(chan struct{}),
		epoch:           time.Now(),
		clockResolution: cfg.ClockResolution,
	}
	var keptExecutorCount = cfg.KeptExecutorCount
	if keptExecutorCount == 0 {
		evsys.TuneGOMAXPROCS(evlog.Logger().Debugf)
		keptExecutorCount = evsys.DefaultExecutorCount()
	}
	lt.executor = evexec.NewExecutorTuned(reporter, func(delay time.Duration, fn func()) {
		lt.CallAfter(delay, func(...any) { fn() })
	}, keptExecutorCount, cfg.ExecutorReleaseInterval, cfg.ExecutorReleaseMultiplier)
	lt.selector = newSelector(lt)
	lt.loopGoroutineID.Store(-1)
	return
}

// Selector exposes the loop's I/O readiness registry to evnet
// transports and servers.
func (lt *EventThread) Selector() *Selector { return lt.selector }

// Reporter exposes the loop's exception reporter for components built
// on top of it (evnet's accept loop, for instance).
func (lt *EventThread) Reporter() *evlog.ExceptionReporter { return lt.reporter }

// IsLoopThread reports whether the calling goroutine is this loop's
// dedicated goroutine.
func (lt *EventThread) IsLoopThread() bool {
	return int64(currentGoroutineID()) == lt.loopGoroutineID.Load()
}

// CallSoon queues fn to run on the next tick. Safe to call from any
// goroutine: unlike the source runtime, where call_soon assumes the
// calling thread already is the loop thread and a separate
// call_soon_threadsafe variant exists for cross-thread use, this
// implementation guards the ready deque with a mutex so both cases
// share one code path. CallSoonThreadSafe is kept as an explicit alias
// so call sites can still document cross-thread intent.
func (lt *EventThread) CallSoon(fn func(args ...any), args ...any) (h *Handle) {
	h = NewHandle(lt.reporter, fn, args...)
	lt.mu.Lock()
	lt.ready = append(lt.ready, h)
	lt.mu.Unlock()
	lt.pipe.wake()
	return
}

// CallSoonThreadSafe is CallSoon; see its doc comment.
func (lt *EventThread) CallSoonThreadSafe(fn func(args ...any), args ...any) (h *Handle) {
	return lt.CallSoon(fn, args...)
}

// CallAfter schedules fn to run once d has elapsed on the loop's
// clock.
func (lt *EventThread) CallAfter(d time.Duration, fn func(args ...any), args ...any) (th *TimerHandle) {
	return lt.CallAt(lt.whenFor(d), fn, args...)
}

// CallAt schedules fn to run once LoopTime reaches when.
func (lt *EventThread) CallAt(when float64, fn func(args ...any), args ...any) (th *TimerHandle) {
	th = NewTimerHandle(lt.reporter, when, fn, args...)
	lt.mu.Lock()
	lt.timers.pushHandle(th)
	lt.mu.Unlock()
	lt.pipe.wake()
	return
}

// RunInExecutor offloads callable to the executor pool, returning a
// Future the pool resolves from whichever worker thread runs it.
func (lt *EventThread) RunInExecutor(callable func() (any, error)) (f *Future) {
	f = NewFuture(lt)
	lt.executor.RunInExecutor(evexec.ExecutionPair{Callable: callable, Future: f})
	return
}

// ClaimExecutor reserves one executor thread exclusively until its
// Release is called.
func (lt *EventThread) ClaimExecutor() (claimed *evexec.ClaimedExecutor) {
	return lt.executor.ClaimExecutor()
}

// Run drives the loop until Stop is called. It must be invoked from
// the goroutine that is to become the loop's dedicated thread, and
// must not be called more than once concurrently.
func (lt *EventThread) Run() {
	if !lt.running.CompareAndSwap(false, true) {
		panic(everr.New(everr.ErrRuntime, "EventThread.Run called while already running"))
	}
	lt.loopGoroutineID.Store(int64(currentGoroutineID()))
	defer func() {
		lt.running.Store(false)
		lt.loopGoroutineID.Store(-1)
	}()
	for {
		for _, h := range lt.swapReady() {
			h.Run()
		}
		if lt.stopped.Load() {
			return
		}
		select {
		case <-lt.stopCh:
			return
		case <-lt.pipe.channel():
			lt.pipe.drain()
		case <-lt.nextTimeoutChannel():
		}
		lt.drainDueTimers()
	}
}

func (lt *EventThread) swapReady() (batch []*Handle) {
	lt.mu.Lock()
	batch = lt.ready
	lt.ready = nil
	lt.mu.Unlock()
	return
}

// drainDueTimers runs every timer whose deadline has passed, plus any
// within clockResolution of now: coalescing near-simultaneous timers
// into one tick avoids waking the loop separately for each.
func (lt *EventThread) drainDueTimers() {
	lt.mu.Lock()
	var deadline = time.Since(lt.epoch).Seconds() + lt.clockResolution.Seconds()
	lt.timers.drainReady(deadline, func(h *Handle) { lt.ready = append(lt.ready, h) })
	lt.mu.Unlock()
}

// nextTimeoutChannel returns a channel that fires when the earliest
// pending timer is due, or nil (blocks forever) if none is scheduled.
func (lt *EventThread) nextTimeoutChannel() <-chan time.Time {
	lt.mu.Lock()
	var top = lt.timers.peek()
	lt.mu.Unlock()
	if top == nil {
		return nil
	}
	var d = time.Duration((top.When - lt.LoopTime()) * float64(time.Second))
	if d < 0 {
		d = 0
	}
	return time.After(d)
}

// Stop requests the loop to exit after finishing its current tick. It
// cancels every outstanding selector watch and every executor thread.
// Idempotent.
func (lt *EventThread) Stop() {
	if !lt.stopped.CompareAndSwap(false, true) {
		return
	}
	close(lt.stopCh)
	lt.pipe.wake()
	lt.selector.CancelAll()
	lt.executor.CancelAll()
}

// IsStopped reports whether Stop has been called.
func (lt *EventThread) IsStopped() bool { return lt.stopped.Load() }
