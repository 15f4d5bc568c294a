package evnet

import (
	"io"
	"os"
	"os/exec"

	"github.com/evrtlab/evrt"
)

// Subprocess is a running child process whose stdout/stderr are
// pumped to a SubprocessProtocol on the owning loop, and whose stdin
// can be written to directly.
type Subprocess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// StartSubprocess starts name with args, wiring its stdout/stderr to
// protocol and delivering ProcessExited once it has been waited on.
func StartSubprocess(loop *evrt.EventThread, protocol SubprocessProtocol, name string, args ...string) (sp *Subprocess, err error) {
	var cmd = exec.Command(name, args...)
	var stdout, stderr io.ReadCloser
	var stdin io.WriteCloser
	if stdout, err = cmd.StdoutPipe(); err != nil {
		return nil, err
	}
	if stderr, err = cmd.StderrPipe(); err != nil {
		return nil, err
	}
	if stdin, err = cmd.StdinPipe(); err != nil {
		return nil, err
	}
	if err = cmd.Start(); err != nil {
		return nil, err
	}
	sp = &Subprocess{cmd: cmd, stdin: stdin}
	go pumpPipe(loop, stdout, protocol, 1)
	go pumpPipe(loop, stderr, protocol, 2)
	go sp.wait(loop, protocol)
	return sp, nil
}

func pumpPipe(loop *evrt.EventThread, r io.Reader, protocol SubprocessProtocol, fd int) {
	var buf = make([]byte, 4096)
	for {
		var n, err = r.Read(buf)
		if n > 0 {
			var data = make([]byte, n)
			copy(data, buf[:n])
			loop.CallSoonThreadSafe(func(...any) { protocol.PipeDataReceived(fd, data) })
		}
		if err != nil {
			return
		}
	}
}

func (sp *Subprocess) wait(loop *evrt.EventThread, protocol SubprocessProtocol) {
	_ = sp.cmd.Wait()
	var code int
	if sp.cmd.ProcessState != nil {
		code = sp.cmd.ProcessState.ExitCode()
	}
	loop.CallSoonThreadSafe(func(...any) { protocol.ProcessExited(code) })
}

// Write sends data to the subprocess's stdin.
func (sp *Subprocess) Write(p []byte) (n int, err error) { return sp.stdin.Write(p) }

// Signal sends sig to the subprocess.
func (sp *Subprocess) Signal(sig os.Signal) (err error) { return sp.cmd.Process.Signal(sig) }

// CloseStdin closes the subprocess's stdin, typically signalling EOF.
func (sp *Subprocess) CloseStdin() (err error) { return sp.stdin.Close() }
