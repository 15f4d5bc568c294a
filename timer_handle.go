package evrt

import (
	"sync/atomic"

	"github.com/evrtlab/evrt/evlog"
)

// timerSeq breaks ties between TimerHandles scheduled for the same
// loop-time, giving the heap stable insertion-order semantics when two
// deadlines are equal.
var timerSeq atomic.Uint64

// TimerHandle extends Handle with a loop-time deadline. Ordering is
// strictly by When ascending; the owning timer heap is lazy — a
// cancelled TimerHandle is left in place and only skipped when it
// bubbles to the top, bounding Cancel to O(1).
type TimerHandle struct {
	*Handle
	When float64 // loop_time() seconds
	seq  uint64
	// heapIndex is maintained by container/heap; -1 once popped.
	heapIndex int
}

// NewTimerHandle wraps fn/args to fire at loop-time when.
func NewTimerHandle(reporter *evlog.ExceptionReporter, when float64, fn func(args ...any), args ...any) (th *TimerHandle) {
	return &TimerHandle{
		Handle:    NewHandle(reporter, fn, args...),
		When:      when,
		seq:       timerSeq.Add(1),
		heapIndex: -1,
	}
}

// Less orders two TimerHandles by When, then by insertion sequence.
func (a *TimerHandle) Less(b *TimerHandle) bool {
	if a.When != b.When {
		return a.When < b.When
	}
	return a.seq < b.seq
}
