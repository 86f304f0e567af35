// Package ptyio implements the external collaborators spec.md treats as
// out-of-core: PTY allocation and child process spawning, raw-mode TTY
// setup, window-size forwarding, and the epoll-style I/O multiplexer
// that feeds raw byte chunks to the matcher in internal/ashier. None of
// these types import internal/ashier; internal/session wires the two
// together.
package ptyio

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/pkg/errors"
)

// PTY is a child process connected to Ashier through a pseudo-terminal.
type PTY struct {
	cmd    *exec.Cmd
	master *os.File
}

// Spawn starts argv[0] with argv[1:] as its arguments, connecting its
// controlling terminal to a newly allocated PTY sized to match the
// current controlling terminal of the Ashier process (falling back to a
// default size when Ashier's own stdin is not a terminal).
func Spawn(argv []string) (*PTY, error) {
	if len(argv) == 0 {
		return nil, errors.New("ptyio: spawn: empty argv")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	master, err := pty.StartWithSize(cmd, currentWinsize())
	if err != nil {
		return nil, errors.Wrapf(err, "ptyio: cannot execute program %q", argv[0])
	}

	return &PTY{cmd: cmd, master: master}, nil
}

// Master returns the master end of the PTY: reads observe the child's
// terminal output, writes are delivered to the child as terminal input.
func (p *PTY) Master() *os.File {
	return p.master
}

// Resize re-reads the current window size of Ashier's controlling
// terminal and applies it to the PTY, used by the SIGWINCH handler.
func (p *PTY) Resize() error {
	return pty.Setsize(p.master, currentWinsize())
}

// Close releases the master end of the PTY. It does not wait for or
// signal the child process.
func (p *PTY) Close() error {
	return p.master.Close()
}

// Wait blocks until the child exits and returns its exit code. A
// non-exit error (the process could not be waited on at all) is
// returned as-is with an exit code of -1.
func (p *PTY) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
