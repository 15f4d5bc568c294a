package evnet

import (
	"net"
	"sync/atomic"

	"github.com/evrtlab/evrt"
)

// DatagramEndpoint is a connectionless socket dispatching each
// incoming packet to a DatagramProtocol on the owning loop.
type DatagramEndpoint struct {
	loop     *evrt.EventThread
	pc       net.PacketConn
	protocol DatagramProtocol
	stopped  atomic.Bool
}

// ListenPacket opens a datagram socket on network/address and begins
// dispatching received packets to a protocol built by newProtocol.
func ListenPacket(loop *evrt.EventThread, network, address string, newProtocol func() DatagramProtocol) (ep *DatagramEndpoint, err error) {
	var pc net.PacketConn
	if pc, err = net.ListenPacket(network, address); err != nil {
		return nil, err
	}
	ep = &DatagramEndpoint{loop: loop, pc: pc, protocol: newProtocol()}
	ep.protocol.ConnectionMade(nil)
	go ep.readLoop()
	return ep, nil
}

func (ep *DatagramEndpoint) readLoop() {
	var buf = make([]byte, 65507)
	for {
		var n, addr, err = ep.pc.ReadFrom(buf)
		if err != nil {
			if ep.stopped.Load() {
				return
			}
			ep.loop.CallSoonThreadSafe(func(...any) { ep.protocol.ErrorReceived(err) })
			continue
		}
		var data = make([]byte, n)
		copy(data, buf[:n])
		ep.loop.CallSoonThreadSafe(func(...any) { ep.protocol.DatagramReceived(data, addr) })
	}
}

// SendTo writes a single datagram to addr.
func (ep *DatagramEndpoint) SendTo(data []byte, addr net.Addr) (err error) {
	_, err = ep.pc.WriteTo(data, addr)
	return
}

// LocalAddr returns the endpoint's bound address.
func (ep *DatagramEndpoint) LocalAddr() net.Addr { return ep.pc.LocalAddr() }

// Close stops the read loop and closes the socket.
func (ep *DatagramEndpoint) Close() (err error) {
	ep.stopped.Store(true)
	err = ep.pc.Close()
	ep.loop.CallSoonThreadSafe(func(...any) { ep.protocol.ConnectionLost(nil) })
	return
}
