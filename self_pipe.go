package evrt

// selfPipe is the loop's wake-up signal: any goroutine that mutates
// the ready deque or timer heap from outside the loop goroutine calls
// wake() to interrupt a blocked poll. The source's event loop uses an
// actual self-pipe (a pair of file descriptors) because it multiplexes
// wake-ups through the same select()/poll() call that watches sockets;
// Go's runtime already lets a single goroutine select over a channel
// alongside network I/O deadlines, so a buffered channel plays the
// same role here without needing real pipe file descriptors.
type selfPipe struct {
	c chan struct{}
}

func newSelfPipe() (p *selfPipe) {
	return &selfPipe{c: make(chan struct{}, 1)}
}

// wake is safe to call from any goroutine, any number of times; it
// only guarantees the next blocked poll observes at least one wake-up,
// not one signal per call.
func (p *selfPipe) wake() {
	select {
	case p.c <- struct{}{}:
	default:
	}
}

func (p *selfPipe) channel() <-chan struct{} { return p.c }

func (p *selfPipe) drain() {
	select {
	case <-p.c:
	default:
	}
}
