/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package evsys provides portable host/process introspection, wrapping
// go-sysinfo to size the executor pool's default retention and to
// time-stamp diagnostics.
package evsys

import (
	"runtime"
	"sync"
	"time"

	gosysinfo "github.com/elastic/go-sysinfo"
	"github.com/elastic/go-sysinfo/types"
	"go.uber.org/automaxprocs/maxprocs"
)

var setMaxProcsOnce sync.Once

// TuneGOMAXPROCS applies container CPU-quota-aware GOMAXPROCS tuning
// once per process. Safe to call repeatedly; only the first call has
// an effect.
func TuneGOMAXPROCS(logf func(format string, a ...any)) {
	setMaxProcsOnce.Do(func() {
		if logf == nil {
			logf = func(string, ...any) {}
		}
		_, _ = maxprocs.Set(maxprocs.Logger(logf))
	})
}

// DefaultExecutorCount returns the number of executor threads the pool
// should retain by default: GOMAXPROCS after container-aware tuning,
// with a floor of 1.
func DefaultExecutorCount() (count int) {
	if count = runtime.GOMAXPROCS(0); count < 1 {
		count = 1
	}
	return
}

// ProcessStartTime returns the time the executing process was
// started, used by diagnostics that report loop uptime relative to
// process uptime.
func ProcessStartTime() (t time.Time, err error) {
	var process types.Process
	if process, err = gosysinfo.Self(); err != nil {
		return
	}
	var info types.ProcessInfo
	if info, err = process.Info(); err != nil {
		return
	}
	return info.StartTime, nil
}
