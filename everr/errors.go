package everr

import (
	"fmt"

	"github.com/pkg/errors"
)

// kindedError pairs a sentinel kind with a stack-bearing cause, the way
// [errors.Is] expects: Is matches kind and Unwrap exposes the cause, so
// callers can match on either without inspecting the message.
type kindedError struct {
	kind  error
	cause error
}

func (e *kindedError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }
func (e *kindedError) Unwrap() error { return e.cause }
func (e *kindedError) Is(target error) bool { return target == e.kind }

// New returns an error of kind, with message, carrying a stack trace
// captured at the call site.
func New(kind error, message string) (err error) {
	return &kindedError{kind: kind, cause: errors.WithStack(errors.New(message))}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind error, format string, a ...any) (err error) {
	return New(kind, fmt.Sprintf(format, a...))
}

// Wrap annotates cause with kind and a stack trace, unless cause already
// carries one, mirroring perrors.Errorf's "ensure at least one stack
// trace" contract.
func Wrap(kind error, cause error) (err error) {
	if cause == nil {
		return nil
	}
	if !hasStack(cause) {
		cause = errors.WithStack(cause)
	}
	return &kindedError{kind: kind, cause: cause}
}

// Wrapf is Wrap with an added message.
func Wrapf(kind error, cause error, format string, a ...any) (err error) {
	if cause == nil {
		return nil
	}
	return &kindedError{kind: kind, cause: errors.Wrapf(cause, format, a...)}
}

type stackTracer interface{ StackTrace() errors.StackTrace }

func hasStack(err error) (yes bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		if _, ok := err.(stackTracer); ok {
			return true
		}
	}
	return false
}

// Is reports whether err's chain contains a [kindedError] of kind, or
// kind itself. It is a thin wrapper kept so call sites read
// "everr.Is(err, everr.ErrTimeout)" rather than importing both this
// package and "errors".
func Is(err error, kind error) bool { return errors.Is(err, kind) }
