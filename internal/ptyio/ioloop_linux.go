//go:build linux

package ptyio

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ReadChunkSize is the maximum number of bytes read per ready
// descriptor per wakeup, matching the default chunk size of
// original_source's ashierlib/terminal.py CopyData.
const ReadChunkSize = 1024

// Handler processes a chunk of bytes read from a registered descriptor.
// An error returned from a Handler terminates the EventLoop.
type Handler func(chunk []byte) error

// EventLoop is the Go analogue of original_source's
// ashierlib/terminal.py AsyncIOLoop: it waits for readability on a
// small, fixed set of descriptors via epoll and dispatches a bounded
// read to the matching handler, retrying on EINTR exactly as the
// Python implementation retries select.epoll() on EINTR.
type EventLoop struct {
	epfd     int
	handlers map[int32]Handler
}

// NewEventLoop creates an empty epoll instance.
func NewEventLoop() (*EventLoop, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, errors.Wrap(err, "ptyio: epoll_create1")
	}
	return &EventLoop{epfd: epfd, handlers: make(map[int32]Handler)}, nil
}

// Register arms fd for read-readiness and associates h with it.
func (l *EventLoop) Register(fd int, h Handler) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return errors.Wrapf(err, "ptyio: epoll_ctl add fd %d", fd)
	}
	l.handlers[int32(fd)] = h
	return nil
}

// Close releases the underlying epoll descriptor.
func (l *EventLoop) Close() error {
	return unix.Close(l.epfd)
}

// Run polls for readability until ctx is cancelled, a handler, the poll
// or a read returns a non-EINTR error, or a read reaches EOF (in which
// case Run returns nil). The poll timeout is kept short
// so that context cancellation is noticed promptly even though nothing
// is ready to read.
func (l *EventLoop) Run(ctx context.Context) error {
	events := make([]unix.EpollEvent, len(l.handlers))
	buf := make([]byte, ReadChunkSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := unix.EpollWait(l.epfd, events, 250)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return errors.Wrap(err, "ptyio: epoll_wait")
		}

		for i := 0; i < n; i++ {
			fd := events[i].Fd
			h := l.handlers[fd]
			if h == nil {
				continue
			}
			read, err := unix.Read(int(fd), buf)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				return errors.Wrapf(err, "ptyio: read fd %d", fd)
			}
			if read == 0 {
				return nil // EOF: child exited or controller closed its end
			}
			if err := h(buf[:read]); err != nil {
				return err
			}
		}
	}
}

// WatchWinsize copies the current window size from Ashier's controlling
// terminal to the PTY immediately and on every subsequent SIGWINCH,
// matching MatchWindowSize in original_source's ashierlib/terminal.py.
// Signal delivery runs out-of-band from the core match loop, per
// spec.md §5, so this spawns its own goroutine rather than going
// through the EventLoop.
func WatchWinsize(ctx context.Context, p *PTY) {
	_ = p.Resize()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				_ = p.Resize()
			}
		}
	}()
}
