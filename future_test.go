package evrt

import (
	"testing"
	"time"

	"github.com/evrtlab/evrt/everr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureSetResultThenGetResult(t *testing.T) {
	var loop = NewEventThread("test")
	var f = NewFuture(loop)
	assert.Equal(t, 1, f.SetResultIfPending(42))
	v, err := f.GetResult()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestFutureSecondSetIsNoop(t *testing.T) {
	var loop = NewEventThread("test")
	var f = NewFuture(loop)
	f.SetResultIfPending(1)
	assert.Equal(t, 0, f.SetResultIfPending(2))
	v, _ := f.GetResult()
	assert.Equal(t, 1, v)
}

func TestFutureCancelBeforeResult(t *testing.T) {
	var loop = NewEventThread("test")
	var f = NewFuture(loop)
	assert.True(t, f.Cancel())
	_, err := f.GetResult()
	assert.True(t, everr.Is(err, everr.ErrCancelled))
	assert.False(t, f.Cancel())
}

func TestFutureAddDoneCallbackFiresAfterResolve(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var f = NewFuture(loop)
	var fired = make(chan *Future, 1)
	f.AddDoneCallback(func(done *Future) { fired <- done })
	f.SetResultIfPending("done")
	select {
	case got := <-fired:
		assert.Same(t, f, got)
	case <-time.After(time.Second):
		t.Fatal("done callback never fired")
	}
}

func TestFutureAddDoneCallbackOnAlreadyDoneFiresSoon(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var f = NewFuture(loop)
	f.SetResultIfPending("already done")
	var fired = make(chan struct{}, 1)
	f.AddDoneCallback(func(*Future) { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("done callback never fired for an already-resolved future")
	}
}

func TestFutureAwaitBlocksUntilResolved(t *testing.T) {
	var loop = NewEventThread("test")
	var f = NewFuture(loop)
	go func() {
		time.Sleep(10 * time.Millisecond)
		f.SetResultIfPending("ready")
	}()
	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}

func TestFutureApplyTimeoutCancelsWhenUnresolved(t *testing.T) {
	var loop = NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var f = NewFuture(loop)
	f.ApplyTimeout(5 * time.Millisecond)
	_, err := f.Await()
	assert.True(t, everr.Is(err, everr.ErrCancelled))
}

func TestFutureGetResultOnPendingIsInvalidState(t *testing.T) {
	var loop = NewEventThread("test")
	var f = NewFuture(loop)
	_, err := f.GetResult()
	assert.True(t, everr.Is(err, everr.ErrInvalidState))
}
