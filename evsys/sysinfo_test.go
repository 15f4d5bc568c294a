package evsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultExecutorCountIsAtLeastOne(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultExecutorCount(), 1)
}

func TestTuneGOMAXPROCSIsSafeToCallRepeatedly(t *testing.T) {
	var calls int
	TuneGOMAXPROCS(func(string, ...any) { calls++ })
	TuneGOMAXPROCS(func(string, ...any) { calls++ })
}

func TestProcessStartTimeSucceeds(t *testing.T) {
	var _, err = ProcessStartTime()
	assert.NoError(t, err)
}
