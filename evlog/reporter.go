package evlog

import "github.com/sirupsen/logrus"

// ExceptionReporter is the loop-scoped async exception reporter:
// handles, future callbacks, and the accept loop funnel
// otherwise-unhandled errors through it instead of aborting the
// loop's tick.
type ExceptionReporter struct {
	loopID string
	entry  *logrus.Entry
}

// NewExceptionReporter returns a reporter tagged with loopID so
// messages from multiple concurrent loops can be told apart.
func NewExceptionReporter(loopID string) (reporter *ExceptionReporter) {
	return &ExceptionReporter{loopID: loopID, entry: With("loop", loopID)}
}

// Report logs err with context describing where it occurred. It never
// panics and never blocks on I/O beyond the logger's own writer.
func (r *ExceptionReporter) Report(context string, err error) {
	if err == nil {
		return
	}
	r.entry.WithField("context", context).Error(err)
}

// ReportFields is Report with additional structured fields, used by
// the accept loop and executor pool to attach fd/thread identifiers.
func (r *ExceptionReporter) ReportFields(context string, err error, fields Fields) {
	if err == nil {
		return
	}
	r.entry.WithFields(fields).WithField("context", context).Error(err)
}
