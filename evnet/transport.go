/*
© 2024–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package evnet builds connections, servers, datagram endpoints and
// subprocesses on top of an [github.com/evrtlab/evrt.EventThread]'s
// selector and executor pool, and defines the protocol/transport
// capability contract callbacks are dispatched through.
package evnet

import (
	"io"
	"net"

	"github.com/evrtlab/evrt"
)

// Transport is the capability set a protocol is handed once a
// connection is established: byte-stream I/O, readiness the loop's
// selector can watch, and addressing.
type Transport interface {
	io.ReadWriteCloser
	evrt.Readiness
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}
