package evrt

import (
	"time"

	"github.com/evrtlab/evrt/everr"
)

// RunSync starts coroutine on loop and blocks the calling goroutine —
// which need not itself be a task or belong to loop — until it
// finishes, for bridging async code into a synchronous caller such as
// a test or a CLI command.
func RunSync(loop *EventThread, name string, coroutine Coroutine) (v any, err error) {
	var t = NewTask(loop, name, coroutine).Start()
	return t.Await()
}

// RunSyncTimeout is RunSync bounded by d: if the coroutine has not
// finished within d, it is cancelled and an ErrTimeout is returned
// instead of the cancellation error Await would otherwise surface.
func RunSyncTimeout(loop *EventThread, name string, d time.Duration, coroutine Coroutine) (v any, err error) {
	var t = NewTask(loop, name, coroutine).Start()
	t.ApplyTimeout(d)
	if v, err = t.Await(); err != nil && t.IsCancelled() {
		return nil, everr.New(everr.ErrTimeout, "RunSyncTimeout: coroutine did not finish in time")
	}
	return
}
