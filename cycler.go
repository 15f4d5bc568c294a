package evrt

import (
	"sort"
	"sync"
	"time"

	"github.com/evrtlab/evrt/everr"
)

// cyclerCallable pairs a priority with the function a Cycler runs each
// tick. Lower priority runs first; ties keep insertion order since
// sort.SliceStable is used.
type cyclerCallable struct {
	priority int
	fn       func()
}

// LessThan reports whether a should run strictly before b in tick
// order (ascending priority).
func (a cyclerCallable) LessThan(b cyclerCallable) bool { return a.priority < b.priority }

// GreaterOrEqual reports whether a should run at or after b in tick
// order. Both operands are compared, unlike a same-named helper in the
// source this type is modeled on, which only inspected its receiver
// and so misordered equal-priority callables.
func (a cyclerCallable) GreaterOrEqual(b cyclerCallable) bool { return !a.LessThan(b) }

// Cycler re-arms itself on the owning loop every interval and, on each
// tick, runs every registered callable in ascending priority order,
// lowest first. A panicking callable is reported and does not stop the
// remaining callables or the cycle itself.
type Cycler struct {
	loop     *EventThread
	interval time.Duration

	mu        sync.Mutex
	callables []cyclerCallable
	handle    *TimerHandle
	stopped   bool
}

// NewCycler creates and arms a Cycler that ticks every interval,
// starting interval from now.
func NewCycler(loop *EventThread, interval time.Duration) (c *Cycler) {
	if interval <= 0 {
		panic(everr.New(everr.ErrValue, "cycle interval must be positive"))
	}
	c = &Cycler{loop: loop, interval: interval}
	c.arm()
	return
}

func (c *Cycler) arm() {
	c.handle = c.loop.CallAfter(c.interval, func(...any) { c.tick() })
}

// Add registers fn to run on every future tick at priority, lower
// values running first.
func (c *Cycler) Add(priority int, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callables = append(c.callables, cyclerCallable{priority: priority, fn: fn})
}

// Stop cancels the next scheduled tick; callables already mid-run
// finish normally.
func (c *Cycler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.handle != nil {
		c.handle.Cancel()
	}
}

func (c *Cycler) tick() {
	c.mu.Lock()
	var items = append([]cyclerCallable(nil), c.callables...)
	var stopped = c.stopped
	c.mu.Unlock()
	sort.SliceStable(items, func(i, j int) bool { return items[i].LessThan(items[j]) })
	for _, it := range items {
		c.runOne(it)
	}
	if !stopped {
		c.mu.Lock()
		c.arm()
		c.mu.Unlock()
	}
}

func (c *Cycler) runOne(it cyclerCallable) {
	defer func() {
		if r := recover(); r != nil {
			c.loop.reporter.Report("Cycler.tick", everr.FromPanic(r, 0))
		}
	}()
	it.fn()
}
