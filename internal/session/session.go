// Package session wires the core matcher (internal/ashier) to the PTY
// and the epoll event loop (internal/ptyio). It owns no matching logic
// of its own: it is the single stateful object that feeds raw PTY bytes
// into the line buffer and applies the advance directive the match
// driver returns.
package session

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/stef-k/ashier/internal/ashier"
	"github.com/stef-k/ashier/internal/ashierlog"
	"github.com/stef-k/ashier/internal/ptyio"
)

// Session bundles the compiled configuration, the live line buffer and
// nesting state, the channel table, and the PTY for one Ashier
// invocation.
type Session struct {
	config   *ashier.Config
	buf      *ashier.LineBuffer
	nesting  []ashier.NestingEntry
	channels ashier.Channels
	pty      *ptyio.PTY
	logger   *logrus.Entry
}

// New builds a Session. controllerOut receives bytes sent on the
// "controller" channel (normally Ashier's own stdout); the "terminal"
// channel always writes to the PTY master.
func New(config *ashier.Config, p *ptyio.PTY, controllerOut io.Writer) *Session {
	return &Session{
		config: config,
		buf:    ashier.NewLineBuffer(),
		channels: ashier.Channels{
			"controller": controllerOut,
			"terminal":   p.Master(),
		},
		pty:    p,
		logger: ashierlog.New("session"),
	}
}

// Run drives the event loop: PTY output is appended to the line buffer
// and matched after every read; bytes arriving on controllerIn are
// passed straight through to the child's terminal, unmatched. Run
// returns when the child's PTY reaches EOF, the context is cancelled, or
// an unrecoverable I/O error occurs.
func (s *Session) Run(ctx context.Context, controllerIn io.Reader) error {
	loop, err := ptyio.NewEventLoop()
	if err != nil {
		return err
	}
	defer loop.Close()

	if err := loop.Register(int(s.pty.Master().Fd()), s.handlePTYChunk); err != nil {
		return err
	}
	if fdReader, ok := controllerIn.(interface{ Fd() uintptr }); ok {
		if err := loop.Register(int(fdReader.Fd()), s.handleControllerChunk); err != nil {
			return err
		}
	}

	s.logger.WithField("reactives", len(s.config.Reactives)).Debug("session starting")
	return loop.Run(ctx)
}

// handlePTYChunk is the C9 handler that feeds raw PTY bytes into the
// line buffer and runs one match driver pass, applying whatever advance
// directive the pass returns.
func (s *Session) handlePTYChunk(chunk []byte) error {
	s.buf.AppendRaw(string(chunk))

	advance := s.config.ReactOnce(&s.nesting, s.buf, s.channels)
	if advance < 0 {
		s.buf.UpdateBaseline(-advance)
	}
	// A non-negative advance is only a permissive upper hint (spec.md
	// §4.7): there is no memory-pressure requirement forcing Ashier to
	// evict lines early, so the baseline is left untouched until some
	// reactive demands a mandatory flush.

	s.logger.WithField("advance", advance).Debug("react pass")
	return nil
}

// handleControllerChunk forwards raw bytes arriving on the controller's
// input descriptor directly into the child's terminal, unmatched.
func (s *Session) handleControllerChunk(chunk []byte) error {
	_, err := s.pty.Master().Write(chunk)
	return err
}

// Wait blocks for the child to exit and returns its exit code.
func (s *Session) Wait() (int, error) {
	return s.pty.Wait()
}
