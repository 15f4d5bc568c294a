package evnet

import (
	"sync"
	"testing"
	"time"

	"github.com/evrtlab/evrt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProtocol struct {
	mu       sync.Mutex
	received [][]byte
	made     bool
	lostErr  error
	lost     chan struct{}
}

func newRecordingProtocol() *recordingProtocol {
	return &recordingProtocol{lost: make(chan struct{})}
}

func (p *recordingProtocol) ConnectionMade(t Transport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.made = true
}

func (p *recordingProtocol) DataReceived(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, data)
}

func (p *recordingProtocol) ConnectionLost(err error) {
	p.mu.Lock()
	p.lostErr = err
	p.mu.Unlock()
	close(p.lost)
}

func TestServerAndDialRoundTrip(t *testing.T) {
	var loop = evrt.NewEventThread("test")
	go loop.Run()
	defer loop.Stop()

	var serverSide = newRecordingProtocol()
	var srv, err = Listen(loop, "tcp", "127.0.0.1:0", nil, func() StreamProtocol { return serverSide })
	require.NoError(t, err)
	defer srv.Close()

	var clientSide = newRecordingProtocol()
	var dialTask = Dial(loop, "tcp", srv.Addr().String(), func() StreamProtocol { return clientSide })
	v, err := dialTask.Await()
	require.NoError(t, err)
	var clientTransport = v.(Transport)

	_, err = clientTransport.Write([]byte("hello"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		serverSide.mu.Lock()
		defer serverSide.mu.Unlock()
		return len(serverSide.received) > 0
	}, time.Second, 5*time.Millisecond)

	serverSide.mu.Lock()
	assert.Equal(t, "hello", string(serverSide.received[0]))
	serverSide.mu.Unlock()

	require.NoError(t, clientTransport.Close())
	select {
	case <-clientSide.lost:
	case <-time.After(time.Second):
		t.Fatal("ConnectionLost never fired on client side")
	}
}
