package evrt

import (
	"fmt"
	"sync/atomic"

	"github.com/evrtlab/evrt/everr"
	"github.com/evrtlab/evrt/evlog"
)

// Handle is a scheduled-callback record, returned by
// [EventThread.CallSoon] and [EventThread.CallSoonThreadSafe]. It is
// executed at most once; cancellation only flips a flag and drops the
// callable and arguments so they can be garbage collected — it never
// removes the handle from the ready deque or timer heap it lives in.
type Handle struct {
	fn        func(args ...any)
	args      []any
	cancelled atomic.Bool
	reporter  *evlog.ExceptionReporter
}

// NewHandle wraps fn and args into a Handle. reporter may be nil, in
// which case a panic during Run is silently swallowed after recovery.
func NewHandle(reporter *evlog.ExceptionReporter, fn func(args ...any), args ...any) (h *Handle) {
	return &Handle{fn: fn, args: args, reporter: reporter}
}

// Cancel flips the cancelled flag and drops the callable and
// arguments. Idempotent.
func (h *Handle) Cancel() (didCancel bool) {
	if didCancel = h.cancelled.CompareAndSwap(false, true); didCancel {
		h.fn = nil
		h.args = nil
	}
	return
}

// IsCancelled reports whether Cancel has been called.
func (h *Handle) IsCancelled() bool { return h.cancelled.Load() }

// Run invokes the wrapped callable with its captured arguments unless
// cancelled. Any panic is recovered and routed to the exception
// reporter instead of propagating — a handle never aborts the loop's
// tick.
func (h *Handle) Run() {
	if h.cancelled.Load() {
		return
	}
	var fn = h.fn
	var args = h.args
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && h.reporter != nil {
			h.reporter.Report("Handle.Run", everr.FromPanic(r, 0))
		}
	}()
	fn(args...)
}

func (h *Handle) String() string {
	if h.cancelled.Load() {
		return "<Handle cancelled>"
	}
	return fmt.Sprintf("<Handle args=%v>", h.args)
}
