package evnet

import (
	"context"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/evrtlab/evrt"
	"github.com/evrtlab/evrt/evconfig"
	"github.com/evrtlab/evrt/everr"
	"golang.org/x/sys/unix"
)

// Server accepts connections on a listener and hands each one, as a
// fresh StreamTransport, to a newly constructed protocol — one
// protocol instance per accepted connection, matching the source's
// protocol_factory convention.
type Server struct {
	loop          *evrt.EventThread
	ln            net.Listener
	newProtocol   func() StreamProtocol
	acceptBackoff time.Duration
	stopped       atomic.Bool
}

// Listen starts listening on network/address and begins accepting in
// the background. acceptLoop backs off exponentially, capped at
// cfg.AcceptBackoff, on transient Accept errors, the same defensive
// pattern net/http's Server.Serve uses against file-descriptor
// exhaustion. cfg may be nil, in which case evconfig.Default() is
// used. The listening socket has SO_REUSEADDR and, where the platform
// supports it, SO_REUSEPORT set before bind, so a restarted process
// can immediately rebind the same address.
func Listen(loop *evrt.EventThread, network, address string, cfg *evconfig.Config, newProtocol func() StreamProtocol) (s *Server, err error) {
	if cfg == nil {
		cfg = evconfig.Default()
	}
	var lc = net.ListenConfig{Control: setReusableAddr}
	var ln net.Listener
	if ln, err = lc.Listen(context.Background(), network, address); err != nil {
		return nil, err
	}
	s = &Server{loop: loop, ln: ln, newProtocol: newProtocol, acceptBackoff: cfg.AcceptBackoff}
	go s.acceptLoop()
	return s, nil
}

// setReusableAddr is a net.ListenConfig.Control callback that sets
// SO_REUSEADDR and SO_REUSEPORT on the raw socket before bind.
// SO_REUSEPORT failures are ignored: the option is a best-effort
// convenience, not available on every platform net supports.
func setReusableAddr(_, _ string, c syscall.RawConn) (err error) {
	return c.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
}

// Addr returns the listener's bound address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

func (s *Server) acceptLoop() {
	var backoff = time.Millisecond
	for {
		var conn, err = s.ln.Accept()
		if err != nil {
			if s.stopped.Load() {
				return
			}
			s.loop.Reporter().Report("Server.acceptLoop", everr.Wrap(everr.ErrOS, err))
			time.Sleep(backoff)
			if backoff < s.acceptBackoff {
				backoff *= 2
				if backoff > s.acceptBackoff {
					backoff = s.acceptBackoff
				}
			}
			continue
		}
		backoff = time.Millisecond
		s.loop.CallSoonThreadSafe(func(...any) {
			var transport = NewStreamTransport(conn)
			var protocol = s.newProtocol()
			protocol.ConnectionMade(transport)
			startReadLoop(s.loop, transport, protocol)
		})
	}
}

// Close stops accepting and closes the listener.
func (s *Server) Close() (err error) {
	s.stopped.Store(true)
	return s.ln.Close()
}
