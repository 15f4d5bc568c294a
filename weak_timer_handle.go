package evrt

import (
	"runtime"

	"github.com/evrtlab/evrt/evlog"
)

// WeakTimerHandle is a TimerHandle whose callable is reachable only
// through owner. When owner becomes unreachable and is garbage
// collected, the handle auto-cancels instead of firing — mirroring
// the source's weak-referenced callable semantics, implemented here
// with runtime.SetFinalizer since Go goroutines have no generic weak
// bound-method reference.
type WeakTimerHandle struct {
	*TimerHandle
}

// NewWeakTimerHandle wraps fn/args to fire at loop-time when, like
// NewTimerHandle, but cancels itself automatically if owner is collected
// before it fires. It does not push the handle onto any loop's timer
// heap. owner is typically the receiver a bound-method fn closes over.
func NewWeakTimerHandle(reporter *evlog.ExceptionReporter, owner any, when float64, fn func(args ...any), args ...any) (wh *WeakTimerHandle) {
	var th = NewTimerHandle(reporter, when, fn, args...)
	wh = &WeakTimerHandle{TimerHandle: th}
	runtime.SetFinalizer(owner, func(any) { th.Cancel() })
	return
}
