/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package everr provides the typed error kinds raised across the runtime
// and ensures every error returned from a public operation carries a
// call-site stack frame.
package everr

import (
	"fmt"
	"runtime"
)

// codeLocation is a trimmed runtime.Frame: a single call site.
type codeLocation struct {
	File string
	Line int
	Func string
}

// newCodeLocation captures the caller skipFrames above this function.
func newCodeLocation(skipFrames int) (cl *codeLocation) {
	var pc uintptr
	var file string
	var line int
	var ok bool
	if pc, file, line, ok = runtime.Caller(1 + skipFrames); !ok {
		return &codeLocation{}
	}
	cl = &codeLocation{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		cl.Func = fn.Name()
	}
	return
}

func (cl *codeLocation) String() (s string) {
	if cl == nil || cl.Func == "" {
		return "?"
	}
	return fmt.Sprintf("%s:%d", cl.Func, cl.Line)
}
