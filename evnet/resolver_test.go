package evnet

import (
	"testing"

	"github.com/evrtlab/evrt"
	"github.com/stretchr/testify/require"
)

func TestResolveLocalhost(t *testing.T) {
	var loop = evrt.NewEventThread("test")
	go loop.Run()
	defer loop.Stop()
	var f = Resolve(loop, "localhost")
	v, err := f.Await()
	require.NoError(t, err)
	require.NotEmpty(t, v)
}
