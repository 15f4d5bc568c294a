package evrt

// WrapFutureForLoop returns a new Future bound to targetLoop that
// mirrors source's eventual outcome, regardless of which loop source
// itself belongs to. This is the supported way for a task on one loop
// to await work produced on another: awaiting source directly would
// block a goroutine that does not belong to source's loop, silently
// defeating that loop's own scheduling.
func WrapFutureForLoop(targetLoop *EventThread, source *Future) (wrapped *Future) {
	wrapped = NewFuture(targetLoop)
	source.AddDoneCallback(func(f *Future) {
		targetLoop.CallSoonThreadSafe(func(...any) {
			if f.IsCancelled() {
				wrapped.Cancel()
				return
			}
			var v, err = f.GetResult()
			if err != nil {
				wrapped.SetExceptionIfPending(err)
				return
			}
			wrapped.SetResultIfPending(v)
		})
	})
	return
}
