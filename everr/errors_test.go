package everr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsKind(t *testing.T) {
	var err = New(ErrTimeout, "deadline passed")
	assert.True(t, Is(err, ErrTimeout))
	assert.False(t, Is(err, ErrCancelled))
}

func TestWrapPreservesCause(t *testing.T) {
	var cause = New(ErrOS, "connect refused")
	var err = Wrap(ErrRuntime, cause)
	assert.True(t, Is(err, ErrRuntime))
	assert.True(t, Is(err, ErrOS))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrRuntime, nil))
}

func TestFromPanicNilReturnsNil(t *testing.T) {
	assert.Nil(t, FromPanic(nil, 0))
}

func TestFromPanicWrapsValue(t *testing.T) {
	var err = FromPanic("boom", 0)
	assert.True(t, Is(err, ErrRuntime))
	assert.Contains(t, err.Error(), "boom")
}
