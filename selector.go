package evrt

import (
	"context"
	"sync"
)

// Readiness is satisfied by any transport the selector can watch. Both
// methods block until their direction is ready, or ctx ends first.
// The concrete implementation in evrt/evnet wraps a net.Conn: it waits
// for readability with a buffered one-byte Peek, letting Go's runtime
// netpoller do the actual waiting, and reports writability at once.
type Readiness interface {
	WaitReadable(ctx context.Context) error
	WaitWritable(ctx context.Context) error
}

// Selector is the loop's I/O readiness registry. Rather than driving
// an OS-level epoll/kqueue poll() call directly, it hands each watch
// to its own goroutine blocked in a Readiness wait and relays the
// result back onto the loop goroutine with CallSoonThreadSafe — Go's
// netpoller already multiplexes thousands of such waits cheaply, so
// the selector itself only needs to track outstanding watches for
// cancellation.
type Selector struct {
	loop *EventThread

	mu        sync.Mutex
	nextID    uint64
	cancelers map[uint64]context.CancelFunc
}

func newSelector(loop *EventThread) (s *Selector) {
	return &Selector{loop: loop, cancelers: map[uint64]context.CancelFunc{}}
}

// WatchReadable schedules onReady on the loop once r becomes readable;
// onError runs instead if the wait itself fails. The returned cancel
// aborts the wait if called before either fires.
func (s *Selector) WatchReadable(r Readiness, onReady func(), onError func(error)) (cancel func()) {
	return s.watch(r.WaitReadable, onReady, onError)
}

// WatchWritable is WatchReadable for the write direction.
func (s *Selector) WatchWritable(r Readiness, onReady func(), onError func(error)) (cancel func()) {
	return s.watch(r.WaitWritable, onReady, onError)
}

func (s *Selector) watch(wait func(context.Context) error, onReady func(), onError func(error)) (cancel func()) {
	var ctx, cancelFn = context.WithCancel(context.Background())
	s.mu.Lock()
	var id = s.nextID
	s.nextID++
	s.cancelers[id] = cancelFn
	s.mu.Unlock()
	go func() {
		var err = wait(ctx)
		s.mu.Lock()
		delete(s.cancelers, id)
		s.mu.Unlock()
		if err != nil {
			if onError != nil {
				s.loop.CallSoonThreadSafe(func(...any) { onError(err) })
			}
			return
		}
		s.loop.CallSoonThreadSafe(func(...any) { onReady() })
	}()
	return cancelFn
}

// CancelAll cancels every outstanding watch, used during loop shutdown.
func (s *Selector) CancelAll() {
	s.mu.Lock()
	var fns = make([]context.CancelFunc, 0, len(s.cancelers))
	for _, fn := range s.cancelers {
		fns = append(fns, fn)
	}
	s.cancelers = map[uint64]context.CancelFunc{}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Outstanding reports the number of watches still pending, for tests
// and diagnostics.
func (s *Selector) Outstanding() (n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancelers)
}
