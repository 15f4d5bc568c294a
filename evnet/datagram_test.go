package evnet

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/evrtlab/evrt"
	"github.com/stretchr/testify/require"
)

type recordingDatagramProtocol struct {
	mu       sync.Mutex
	received [][]byte
	from     []net.Addr
}

func (p *recordingDatagramProtocol) ConnectionMade(Transport) {}
func (p *recordingDatagramProtocol) DatagramReceived(data []byte, addr net.Addr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, data)
	p.from = append(p.from, addr)
}
func (p *recordingDatagramProtocol) ErrorReceived(error) {}
func (p *recordingDatagramProtocol) ConnectionLost(error) {}

func TestDatagramEndpointRoundTrip(t *testing.T) {
	var loop = evrt.NewEventThread("test")
	go loop.Run()
	defer loop.Stop()

	var serverProtocol = &recordingDatagramProtocol{}
	var server, err = ListenPacket(loop, "udp", "127.0.0.1:0", func() DatagramProtocol { return serverProtocol })
	require.NoError(t, err)
	defer server.Close()

	var clientProtocol = &recordingDatagramProtocol{}
	var client, err2 = ListenPacket(loop, "udp", "127.0.0.1:0", func() DatagramProtocol { return clientProtocol })
	require.NoError(t, err2)
	defer client.Close()

	require.NoError(t, client.SendTo([]byte("ping"), server.LocalAddr()))

	require.Eventually(t, func() bool {
		serverProtocol.mu.Lock()
		defer serverProtocol.mu.Unlock()
		return len(serverProtocol.received) > 0
	}, time.Second, 5*time.Millisecond)
}
