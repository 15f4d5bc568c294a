package everr

import "github.com/pkg/errors"

// Sentinel error kinds, compared with errors.Is against the chain
// produced by [Wrap] / [Newf]. Every non-cooperative failure the
// runtime raises is one of these kinds.
var (
	// ErrInvalidState: set/get attempted on a Future in the wrong state.
	ErrInvalidState = errors.New("invalid_state")
	// ErrCancelled: cooperative cancellation signal, not a failure.
	ErrCancelled = errors.New("cancelled")
	// ErrTimeout: a deadline passed before completion.
	ErrTimeout = errors.New("timeout")
	// ErrOS: a socket, resolver, bind, or connect syscall failed.
	ErrOS = errors.New("os_error")
	// ErrRuntime: use-before-start, re-entrant run, wrong-thread access,
	// cross-loop misuse, or claim-executor on a closed handle.
	ErrRuntime = errors.New("runtime_error")
	// ErrType: mis-typed callback, non-weak-referenceable callable, or
	// a terminal value stored where it is forbidden.
	ErrType = errors.New("type_error")
	// ErrValue: non-positive cycle time, bad backlog, unsupported
	// socket type, or other out-of-range argument.
	ErrValue = errors.New("value_error")
	// ErrNotImplemented: a UNIX-only operation invoked on a platform
	// that does not support it.
	ErrNotImplemented = errors.New("not_implemented")
)
