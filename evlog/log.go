/*
© 2023–present Harald Rudell <haraldrudell@proton.me> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package evlog is the runtime's structured logger: a single
// process-wide instance consumed by handles, futures, and the loop's
// async exception reporter, backed by logrus for structured fields
// instead of a hand-rolled writer.
package evlog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// shared is the process-wide logger instance, lazily configured on
// first use so packages that only ever hit the happy path never pay
// for logger construction.
var shared = sync.OnceValue(func() *logrus.Logger {
	var log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl := os.Getenv("EVRT_LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			log.SetLevel(parsed)
		}
	}
	return log
})

// Logger returns the process-wide logrus instance.
func Logger() *logrus.Logger { return shared() }

// With returns a field-scoped entry, eg. evlog.With("loop", loopID).
func With(key string, value any) *logrus.Entry {
	return shared().WithField(key, value)
}

// Fields is a shorthand for logrus.Fields, so callers need not import
// logrus directly for simple multi-field log lines.
type Fields = logrus.Fields
