package evrt

import (
	"sync"

	"github.com/evrtlab/evrt/everr"
	"github.com/evrtlab/evrt/evid"
)

// TaskGroup tracks a set of Tasks started together and offers the
// three join strategies a caller commonly needs: wait for every task
// (Gather), wait for the first to finish (Any), or wait for every task
// while also surfacing tasks that fail partway through (Exhaust).
type TaskGroup struct {
	ID   evid.EntityID
	loop *EventThread

	mu    sync.Mutex
	tasks []*Task
}

// NewTaskGroup returns an empty group bound to loop.
func NewTaskGroup(loop *EventThread) (g *TaskGroup) {
	return &TaskGroup{ID: evid.New(), loop: loop}
}

// Spawn creates, starts, and tracks a new Task running coroutine.
func (g *TaskGroup) Spawn(name string, coroutine Coroutine) (t *Task) {
	t = NewTask(g.loop, name, coroutine).Start()
	g.mu.Lock()
	g.tasks = append(g.tasks, t)
	g.mu.Unlock()
	return t
}

// Tasks returns a snapshot of tracked tasks.
func (g *TaskGroup) Tasks() (tasks []*Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tasks = make([]*Task, len(g.tasks))
	copy(tasks, g.tasks)
	return
}

// CancelAll cancels every tracked task, pending or already done.
func (g *TaskGroup) CancelAll() {
	for _, t := range g.Tasks() {
		t.Cancel()
	}
}

// CancelPending cancels every tracked task that is not yet done,
// leaving tasks that already finished untouched.
func (g *TaskGroup) CancelPending() {
	for _, t := range g.Tasks() {
		if !t.IsDone() {
			t.Cancel()
		}
	}
}

// CancelDone cancels every tracked task, but only once all of them are
// already done; it returns an error instead of acting if any tracked
// task is still pending.
func (g *TaskGroup) CancelDone() error {
	var tasks = g.Tasks()
	for _, t := range tasks {
		if !t.IsDone() {
			return everr.New(everr.ErrRuntime, "CancelDone called while a tracked task is still pending")
		}
	}
	for _, t := range tasks {
		t.Cancel()
	}
	return nil
}

// pop removes t from the tracked task list, if present.
func (g *TaskGroup) pop(t *Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, x := range g.tasks {
		if x == t {
			g.tasks = append(g.tasks[:i], g.tasks[i+1:]...)
			return
		}
	}
}

// GatherResult pairs one task with its outcome, in the order the
// tasks were spawned.
type GatherResult struct {
	Task      *Task
	Value     any
	Err       error
	Cancelled bool
}

// Gather blocks until every tracked task is done, returning results in
// spawn order. If stopOnError is true, the first task to fail cancels
// every other tracked task and Gather returns as soon as all have
// unwound.
func (g *TaskGroup) Gather(tc *TaskContext, stopOnError bool) (results []GatherResult) {
	var tasks = g.Tasks()
	results = make([]GatherResult, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, t := range tasks {
		go func(i int, t *Task) {
			defer wg.Done()
			var v, err = tc.Await(t.Future)
			results[i] = GatherResult{Task: t, Value: v, Err: err, Cancelled: t.IsCancelled()}
			if stopOnError && err != nil && !everr.Is(err, everr.ErrCancelled) {
				g.CancelAll()
			}
		}(i, t)
	}
	wg.Wait()
	return
}

// Any blocks until the first tracked task finishes (successfully,
// with an error, or cancelled), then cancels the rest and returns that
// task's result. Unlike WaitFirst, Any additionally cancels every
// other tracked task once the winner is known.
func (g *TaskGroup) Any(tc *TaskContext) (result GatherResult) {
	var tasks = g.Tasks()
	if len(tasks) == 0 {
		return GatherResult{Err: everr.New(everr.ErrValue, "Any called on an empty task group")}
	}
	var winner = make(chan GatherResult, len(tasks))
	for _, t := range tasks {
		go func(t *Task) {
			var v, err = tc.Await(t.Future)
			winner <- GatherResult{Task: t, Value: v, Err: err, Cancelled: t.IsCancelled()}
		}(t)
	}
	result = <-winner
	g.CancelAll()
	return
}

// WaitAll blocks until every tracked task is done, returning results
// in spawn order. It is Gather with stopOnError false.
func (g *TaskGroup) WaitAll(tc *TaskContext) (results []GatherResult) {
	return g.Gather(tc, false)
}

// waitFirstMatching awaits tracked tasks as they finish and returns
// the first whose result satisfies match, without touching any other
// tracked task. found is false if every tracked task finished without
// ever satisfying match, or if the group is empty.
func (g *TaskGroup) waitFirstMatching(tc *TaskContext, match func(GatherResult) bool) (result GatherResult, found bool) {
	var tasks = g.Tasks()
	if len(tasks) == 0 {
		return GatherResult{}, false
	}
	var done = make(chan GatherResult, len(tasks))
	for _, t := range tasks {
		go func(t *Task) {
			var v, err = tc.Await(t.Future)
			done <- GatherResult{Task: t, Value: v, Err: err, Cancelled: t.IsCancelled()}
		}(t)
	}
	for range tasks {
		var r = <-done
		if match(r) {
			return r, true
		}
	}
	return GatherResult{}, false
}

// WaitFirst blocks until the first tracked task finishes, for any
// reason, and returns it. The rest of the group is left running.
func (g *TaskGroup) WaitFirst(tc *TaskContext) (result GatherResult, found bool) {
	return g.waitFirstMatching(tc, func(GatherResult) bool { return true })
}

// WaitFirstAndPop is WaitFirst, additionally removing the returned
// task from the group's tracked task list.
func (g *TaskGroup) WaitFirstAndPop(tc *TaskContext) (result GatherResult, found bool) {
	result, found = g.WaitFirst(tc)
	if found {
		g.pop(result.Task)
	}
	return
}

// WaitFirstException blocks until the first tracked task finishes
// with a non-cancellation error, and returns it; found is false if
// every tracked task finished without ever raising one.
func (g *TaskGroup) WaitFirstException(tc *TaskContext) (result GatherResult, found bool) {
	return g.waitFirstMatching(tc, func(r GatherResult) bool { return r.Err != nil && !r.Cancelled })
}

// WaitFirstExceptionAndPop is WaitFirstException, additionally
// removing the returned task from the group's tracked task list.
func (g *TaskGroup) WaitFirstExceptionAndPop(tc *TaskContext) (result GatherResult, found bool) {
	result, found = g.WaitFirstException(tc)
	if found {
		g.pop(result.Task)
	}
	return
}

// WaitExceptionOrCancellation blocks until the first tracked task
// finishes either with an error or by cancellation, and returns it;
// found is false if every tracked task ran to a normal result.
func (g *TaskGroup) WaitExceptionOrCancellation(tc *TaskContext) (result GatherResult, found bool) {
	return g.waitFirstMatching(tc, func(r GatherResult) bool { return r.Err != nil || r.Cancelled })
}

// Exhaust returns a channel that receives one GatherResult per tracked
// task as it finishes, in completion order rather than spawn order,
// and is closed once every tracked task has reported.
func (g *TaskGroup) Exhaust(tc *TaskContext) <-chan GatherResult {
	var tasks = g.Tasks()
	var out = make(chan GatherResult)
	go func() {
		defer close(out)
		var done = make(chan GatherResult, len(tasks))
		for _, t := range tasks {
			go func(t *Task) {
				var v, err = tc.Await(t.Future)
				done <- GatherResult{Task: t, Value: v, Err: err, Cancelled: t.IsCancelled()}
			}(t)
		}
		for range tasks {
			out <- <-done
		}
	}()
	return out
}
