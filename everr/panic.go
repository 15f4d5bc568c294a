package everr

import "fmt"

// FromPanic converts a recover() value into an error of kind
// ErrRuntime, annotated with the code location of the deferred
// recover (skipFrames above the caller of FromPanic).
//   - used by Handle.Run and Task.run to turn a panicking callback
//     into a reportable error instead of crashing the loop goroutine
func FromPanic(recovered any, skipFrames int) (err error) {
	if recovered == nil {
		return nil
	}
	var at = newCodeLocation(skipFrames + 1)
	if asErr, ok := recovered.(error); ok {
		return Wrapf(ErrRuntime, asErr, "panic at %s", at)
	}
	return Newf(ErrRuntime, "panic at %s: %v", at, recovered)
}
