package ptyio

import (
	"os"

	"github.com/containerd/console"
	"github.com/creack/pty"
	"golang.org/x/term"
)

// currentWinsize reads the window size of Ashier's own controlling
// terminal (stdin), falling back to a conservative default when stdin
// is not a terminal at all (e.g. Ashier itself was launched with its
// input piped from a controller program).
func currentWinsize() *pty.Winsize {
	if c, err := console.ConsoleFromFile(os.Stdin); err == nil {
		if sz, err := c.Size(); err == nil {
			return &pty.Winsize{Rows: sz.Height, Cols: sz.Width}
		}
	}
	return &pty.Winsize{Rows: 24, Cols: 80}
}

// RawState is the saved terminal state needed to undo SetRaw.
type RawState struct {
	fd    int
	saved *term.State
}

// SetRaw puts Ashier's controlling terminal into raw mode so that
// keystrokes reach the child through the PTY uninterpreted by the local
// tty driver, mirroring SetTerminalRaw in original_source's
// ashierlib/terminal.py. It is a no-op (returning a nil RawState) when
// stdin is not a terminal, e.g. when Ashier is driven entirely by a
// controller program over a pipe.
func SetRaw() (*RawState, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RawState{fd: fd, saved: saved}, nil
}

// Restore undoes SetRaw. It is safe to call on a nil *RawState.
func (s *RawState) Restore() error {
	if s == nil {
		return nil
	}
	return term.Restore(s.fd, s.saved)
}
