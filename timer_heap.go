package evrt

import "container/heap"

// timerHeap is the lazy binary min-heap backing EventThread's
// scheduled timers: Cancel never scans or removes — a cancelled entry
// is simply skipped when drainReady pops it, keeping Cancel O(1) and
// its cleanup an O(log n) pop instead of an O(n) removal.
type timerHeap struct {
	items []*TimerHandle
}

func (h timerHeap) Len() int { return len(h.items) }
func (h timerHeap) Less(i, j int) bool { return h.items[i].Less(h.items[j]) }
func (h timerHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].heapIndex = i
	h.items[j].heapIndex = j
}

func (h *timerHeap) Push(x any) {
	var th = x.(*TimerHandle)
	th.heapIndex = len(h.items)
	h.items = append(h.items, th)
}

func (h *timerHeap) Pop() any {
	var old = h.items
	var n = len(old)
	var th = old[n-1]
	old[n-1] = nil
	th.heapIndex = -1
	h.items = old[:n-1]
	return th
}

// pushHandle schedules th.
func (h *timerHeap) pushHandle(th *TimerHandle) { heap.Push(h, th) }

// peek returns the top entry without removing it, or nil if empty.
func (h *timerHeap) peek() *TimerHandle {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// popTop removes and returns the top entry, or nil if empty.
func (h *timerHeap) popTop() *TimerHandle {
	if len(h.items) == 0 {
		return nil
	}
	return heap.Pop(h).(*TimerHandle)
}

// drainReady pops every entry whose When is strictly before deadline,
// appending non-cancelled ones to ready via appendReady, and discards
// cancelled ones.
func (h *timerHeap) drainReady(deadline float64, appendReady func(*Handle)) {
	for {
		var top = h.peek()
		if top == nil || !(top.When < deadline) {
			return
		}
		h.popTop()
		if !top.IsCancelled() {
			appendReady(top.Handle)
		}
	}
}
