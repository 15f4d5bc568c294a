package evrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskGroupGatherCollectsAllResults(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	group.Spawn("a", func(tc *TaskContext) (any, error) { return 1, nil })
	group.Spawn("b", func(tc *TaskContext) (any, error) { return 2, nil })
	group.Spawn("c", func(tc *TaskContext) (any, error) { return 3, nil })
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		return group.Gather(tc, false), nil
	}).Start()
	v, err := runner.Await()
	assert.NoError(t, err)
	var results = v.([]GatherResult)
	assert.Len(t, results, 3)
	var sum int
	for _, r := range results {
		sum += r.Value.(int)
	}
	assert.Equal(t, 6, sum)
}

func TestTaskGroupWaitFirstDoesNotTouchTheRest(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	var fast = group.Spawn("fast", func(tc *TaskContext) (any, error) { return "fast", nil })
	var slow = group.Spawn("slow", func(tc *TaskContext) (any, error) {
		return nil, tc.Sleep(50 * time.Millisecond)
	})
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		r, found := group.WaitFirst(tc)
		return []any{r, found}, nil
	}).Start()
	v, err := runner.Await()
	assert.NoError(t, err)
	var out = v.([]any)
	var result = out[0].(GatherResult)
	assert.True(t, out[1].(bool))
	assert.Same(t, fast, result.Task)
	assert.False(t, slow.IsCancelled())
	assert.False(t, slow.IsDone())
}

func TestTaskGroupWaitFirstAndPopRemovesWinner(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	var fast = group.Spawn("fast", func(tc *TaskContext) (any, error) { return "fast", nil })
	group.Spawn("slow", func(tc *TaskContext) (any, error) {
		return nil, tc.Sleep(50 * time.Millisecond)
	})
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		return group.WaitFirstAndPop(tc)
	}).Start()
	v, err := runner.Await()
	assert.NoError(t, err)
	var result = v.(GatherResult)
	assert.Same(t, fast, result.Task)
	assert.Len(t, group.Tasks(), 1)
	group.CancelAll()
}

func TestTaskGroupWaitFirstExceptionFindsTheFailure(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	group.Spawn("ok", func(tc *TaskContext) (any, error) { return 1, nil })
	var failErr = assert.AnError
	group.Spawn("fails", func(tc *TaskContext) (any, error) { return nil, failErr })
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		r, found := group.WaitFirstException(tc)
		return []any{r, found}, nil
	}).Start()
	v, err := runner.Await()
	assert.NoError(t, err)
	var out = v.([]any)
	assert.True(t, out[1].(bool))
	var result = out[0].(GatherResult)
	assert.Equal(t, "fails", result.Task.Name)
}

func TestTaskGroupWaitExceptionOrCancellationSeesCancellation(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	var toCancel = group.Spawn("cancelme", func(tc *TaskContext) (any, error) {
		return nil, tc.Sleep(time.Second)
	})
	time.Sleep(5 * time.Millisecond)
	toCancel.Cancel()
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		r, found := group.WaitExceptionOrCancellation(tc)
		return []any{r, found}, nil
	}).Start()
	v, err := runner.Await()
	assert.NoError(t, err)
	var out = v.([]any)
	assert.True(t, out[1].(bool))
	var result = out[0].(GatherResult)
	assert.True(t, result.Cancelled)
}

func TestTaskGroupExhaustYieldsInCompletionOrder(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	group.Spawn("slow", func(tc *TaskContext) (any, error) {
		return "slow", tc.Sleep(30 * time.Millisecond)
	})
	group.Spawn("fast", func(tc *TaskContext) (any, error) { return "fast", nil })
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		var names []string
		for r := range group.Exhaust(tc) {
			names = append(names, r.Task.Name)
		}
		return names, nil
	}).Start()
	v, err := runner.Await()
	assert.NoError(t, err)
	var names = v.([]string)
	assert.Equal(t, []string{"fast", "slow"}, names)
}

func TestTaskGroupCancelPendingLeavesDoneTasksAlone(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	var done = group.Spawn("done", func(tc *TaskContext) (any, error) { return 1, nil })
	var pending = group.Spawn("pending", func(tc *TaskContext) (any, error) {
		return nil, tc.Sleep(time.Second)
	})
	time.Sleep(10 * time.Millisecond)
	group.CancelPending()
	time.Sleep(10 * time.Millisecond)
	assert.True(t, pending.IsCancelled())
	assert.False(t, done.IsCancelled())
}

func TestTaskGroupCancelDoneRejectsStillPendingTasks(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	group.Spawn("pending", func(tc *TaskContext) (any, error) {
		return nil, tc.Sleep(time.Second)
	})
	var err = group.CancelDone()
	assert.Error(t, err)
	group.CancelAll()
}

func TestTaskGroupAnyReturnsFirstAndCancelsRest(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var group = NewTaskGroup(loop)
	var fast = group.Spawn("fast", func(tc *TaskContext) (any, error) { return "fast", nil })
	var slow = group.Spawn("slow", func(tc *TaskContext) (any, error) {
		return nil, tc.Sleep(time.Second)
	})
	var runner = NewTask(loop, "runner", func(tc *TaskContext) (any, error) {
		return group.Any(tc), nil
	}).Start()
	v, err := runner.Await()
	assert.NoError(t, err)
	var result = v.(GatherResult)
	assert.Same(t, fast, result.Task)
	assert.Equal(t, "fast", result.Value)
	time.Sleep(10 * time.Millisecond)
	assert.True(t, slow.IsCancelled())
}
