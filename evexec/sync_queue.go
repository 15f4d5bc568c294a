package evexec

import (
	"sync"

	"github.com/evrtlab/evrt/everr"
)

// SyncQueue is a thread-safe deque with an optional bounded length and
// a single pending SyncWait waiter. It is the one thread-safe boundary
// executor threads and producer threads cross to hand off work.
type SyncQueue[T any] struct {
	mu        sync.Mutex
	items     []T
	maxLen    int // 0: unbounded
	cancelled bool
	waiter    *SyncWait
}

// NewSyncQueue returns an empty queue. maxLen of 0 means unbounded.
func NewSyncQueue[T any](maxLen int) (q *SyncQueue[T]) {
	return &SyncQueue[T]{maxLen: maxLen}
}

// Put appends an item, delivering it directly to a pending Get if one
// is waiting. Returns false if the queue was cancelled or, when
// bounded, already full.
func (q *SyncQueue[T]) Put(item T) (ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancelled {
		return false
	}
	if q.waiter != nil {
		var w = q.waiter
		q.waiter = nil
		w.Deliver(item)
		return true
	}
	if q.maxLen > 0 && len(q.items) >= q.maxLen {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// Get removes and returns the head item, blocking if empty. ok is
// false if the queue was or became cancelled while waiting.
func (q *SyncQueue[T]) Get() (item T, ok bool) {
	q.mu.Lock()
	if q.cancelled {
		q.mu.Unlock()
		return
	}
	if len(q.items) > 0 {
		item = q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		return item, true
	}
	var w = NewSyncWait()
	q.waiter = w
	q.mu.Unlock()

	var value any
	var err error
	if value, err, ok = w.Wait(); !ok {
		_ = err
		return
	}
	item, ok = value.(T)
	return
}

// Len returns the number of queued, undelivered items.
func (q *SyncQueue[T]) Len() (n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cancel marks the queue cancelled: any pending waiter is woken with a
// cancellation, and further Get calls return immediately with ok=false.
func (q *SyncQueue[T]) Cancel() {
	q.mu.Lock()
	q.cancelled = true
	var w = q.waiter
	q.waiter = nil
	q.mu.Unlock()
	if w != nil {
		w.Cancel(everr.New(everr.ErrCancelled, "sync queue cancelled"))
	}
}
