package evrt

import (
	"sync"

	"github.com/evrtlab/evrt/everr"
)

// AsyncQueue is a FIFO queue for coroutines: Put blocks the calling
// task when the queue is at capacity, Get blocks it when empty. A
// maxSize of 0 means unbounded.
//
// SetException latches an error to raise from every Get once the
// queue drains, grounded on the source runtime's set_exception/
// __anext__ pairing: a latched cancellation error instead signals
// clean end-of-iteration through Iter rather than propagating as an
// error, matching __anext__'s CancelledError-to-StopAsyncIteration
// conversion, while any other latched error still propagates.
type AsyncQueue struct {
	loop    *EventThread
	maxSize int

	mu         sync.Mutex
	items      []any
	exception  error
	getWaiters []*Future
	putWaiters []*Future
}

// NewAsyncQueue returns an empty queue bound to loop.
func NewAsyncQueue(loop *EventThread, maxSize int) (q *AsyncQueue) {
	return &AsyncQueue{loop: loop, maxSize: maxSize}
}

// Len reports the number of items currently queued.
func (q *AsyncQueue) Len() (n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Put appends v, blocking the calling task if the queue is full.
func (q *AsyncQueue) Put(tc *TaskContext, v any) (err error) {
	q.mu.Lock()
	for q.maxSize > 0 && len(q.items) >= q.maxSize {
		var f = NewFuture(q.loop)
		q.putWaiters = append(q.putWaiters, f)
		q.mu.Unlock()
		if _, err = tc.Await(f); err != nil {
			return
		}
		q.mu.Lock()
	}
	q.items = append(q.items, v)
	var waiter *Future
	if n := len(q.getWaiters); n > 0 {
		waiter = q.getWaiters[0]
		q.getWaiters = q.getWaiters[1:]
	}
	q.mu.Unlock()
	if waiter != nil {
		waiter.SetResultIfPending(nil)
	}
	return nil
}

// SetException latches err to be returned by every Get once the queue
// is empty, and immediately fails any task already blocked in Get.
// Items already queued are still delivered first.
func (q *AsyncQueue) SetException(err error) {
	q.mu.Lock()
	q.exception = err
	var waiters = q.getWaiters
	q.getWaiters = nil
	q.mu.Unlock()
	for _, w := range waiters {
		w.SetExceptionIfPending(err)
	}
}

// Get removes and returns the oldest item, blocking the calling task
// if the queue is empty. Once empty, it returns a latched SetException
// error instead of blocking forever.
func (q *AsyncQueue) Get(tc *TaskContext) (v any, err error) {
	q.mu.Lock()
	for len(q.items) == 0 {
		if q.exception != nil {
			err = q.exception
			q.mu.Unlock()
			return nil, err
		}
		var f = NewFuture(q.loop)
		q.getWaiters = append(q.getWaiters, f)
		q.mu.Unlock()
		if _, err = tc.Await(f); err != nil {
			return nil, err
		}
		q.mu.Lock()
	}
	v = q.items[0]
	q.items = q.items[1:]
	var waiter *Future
	if n := len(q.putWaiters); n > 0 {
		waiter = q.putWaiters[0]
		q.putWaiters = q.putWaiters[1:]
	}
	q.mu.Unlock()
	if waiter != nil {
		waiter.SetResultIfPending(nil)
	}
	return v, nil
}

// QueueIterator drives Get in a loop, turning a latched cancellation
// error into ordinary iteration end rather than an error, the Go
// equivalent of async iteration over an AsyncQueue.
type QueueIterator struct {
	get func(tc *TaskContext) (any, error)
}

// Iter returns an iterator over q.
func (q *AsyncQueue) Iter() *QueueIterator { return &QueueIterator{get: q.Get} }

// Next advances the iterator. ok is false with a nil err once the
// queue has been latched with a cancellation error (clean stop); ok is
// false with a non-nil err if any other exception was latched.
func (it *QueueIterator) Next(tc *TaskContext) (v any, ok bool, err error) {
	v, err = it.get(tc)
	if err != nil {
		if everr.Is(err, everr.ErrCancelled) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}
