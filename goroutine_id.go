package evrt

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentGoroutineID parses the running goroutine's numeric ID out of
// its own stack trace header ("goroutine 123 [running]:"), so
// EventThread can tell whether it is being called from its own
// dedicated goroutine.
func currentGoroutineID() uint64 {
	var buf [64]byte
	var n = runtime.Stack(buf[:], false)
	var b = buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	var sp = bytes.IndexByte(b, ' ')
	if sp < 0 {
		return 0
	}
	var id, _ = strconv.ParseUint(string(b[:sp]), 10, 64)
	return id
}
