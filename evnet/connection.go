package evnet

import (
	"errors"
	"io"
	"net"

	"github.com/evrtlab/evrt"
)

// Dial offloads a blocking net.Dial to the loop's executor pool,
// wires the resulting connection to a freshly constructed protocol,
// and starts its read loop. The returned Task's result is the
// connection's Transport once ConnectionMade has already been called.
func Dial(loop *evrt.EventThread, network, address string, newProtocol func() StreamProtocol) (task *evrt.Task) {
	return evrt.NewTask(loop, "dial:"+network+":"+address, func(tc *evrt.TaskContext) (any, error) {
		var f = loop.RunInExecutor(func() (any, error) {
			return net.Dial(network, address)
		})
		var v, err = tc.Await(f)
		if err != nil {
			return nil, err
		}
		var transport = NewStreamTransport(v.(net.Conn))
		var protocol = newProtocol()
		protocol.ConnectionMade(transport)
		startReadLoop(loop, transport, protocol)
		return transport, nil
	}).Start()
}

// startReadLoop re-arms a selector watch after every DataReceived
// dispatch, so the protocol is never re-entered concurrently with
// itself for the same connection.
func startReadLoop(loop *evrt.EventThread, transport *StreamTransport, protocol StreamProtocol) {
	var buf = make([]byte, 4096)
	var lost = func(err error) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		protocol.ConnectionLost(err)
	}
	var step func()
	step = func() {
		loop.Selector().WatchReadable(transport, func() {
			var n, err = transport.Read(buf)
			if n > 0 {
				var chunk = make([]byte, n)
				copy(chunk, buf[:n])
				protocol.DataReceived(chunk)
			}
			if err != nil {
				lost(err)
				return
			}
			step()
		}, lost)
	}
	step()
}
