package evnet

import (
	"bufio"
	"context"
	"net"
	"time"
)

// StreamTransport is a minimal net.Conn-backed Transport: enough to
// exercise the loop's connection and server builders and exercise the
// StreamProtocol contract end to end, without claiming to be a
// production TLS/pipe stack.
//
// WaitReadable is implemented with a buffered Peek rather than raw
// fd polling: Go's net.Conn gives no portable way to ask "is there
// data without reading it" except through bufio, and Peek already
// parks on the runtime's netpoller the same way a direct Read would.
// WaitWritable returns immediately — Go's blocking Write already
// applies the backpressure a write-readiness poll would otherwise
// exist to avoid, since the standard library has no non-blocking
// socket write API to poll ahead of.
type StreamTransport struct {
	conn net.Conn
	br   *bufio.Reader
}

// NewStreamTransport wraps conn.
func NewStreamTransport(conn net.Conn) (t *StreamTransport) {
	return &StreamTransport{conn: conn, br: bufio.NewReader(conn)}
}

func (t *StreamTransport) Read(p []byte) (n int, err error)  { return t.br.Read(p) }
func (t *StreamTransport) Write(p []byte) (n int, err error) { return t.conn.Write(p) }
func (t *StreamTransport) Close() (err error)                { return t.conn.Close() }
func (t *StreamTransport) LocalAddr() net.Addr                { return t.conn.LocalAddr() }
func (t *StreamTransport) RemoteAddr() net.Addr               { return t.conn.RemoteAddr() }

// WaitReadable blocks until at least one byte is buffered or peekable,
// or ctx ends first, in which case the underlying read deadline is
// forced to interrupt the in-flight Peek.
func (t *StreamTransport) WaitReadable(ctx context.Context) (err error) {
	var done = make(chan error, 1)
	go func() {
		_, peekErr := t.br.Peek(1)
		done <- peekErr
	}()
	select {
	case err = <-done:
		return
	case <-ctx.Done():
		_ = t.conn.SetReadDeadline(time.Now())
		return ctx.Err()
	}
}

// WaitWritable always reports immediately ready; see the type doc.
func (t *StreamTransport) WaitWritable(ctx context.Context) (err error) {
	return nil
}
