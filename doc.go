/*
© 2024–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package evrt is an asynchronous runtime: a single-threaded event
// loop per OS thread multiplexing socket I/O, timers, callbacks,
// subprocesses and tasks, plus the primitives the loop rests on —
// futures, tasks, synchronization, queues, a cycler and an executor
// pool consumed from the sibling [github.com/evrtlab/evrt/evexec]
// package.
//
// A loop (EventThread) owns exactly one goroutine acting as its
// dedicated thread: the selector, timer heap and ready deque are
// touched only from that goroutine. Every other goroutine must use
// the *ThreadSafe family of operations to reach into a running loop.
package evrt
