package namedpipe

import (
	"io"

	"go.uber.org/atomic"
)

// stream restricts a duplex handle to one direction and turns use after
// Close into ErrClosed.
type stream struct {
	rw     io.ReadWriteCloser
	dir    Direction
	closed atomic.Bool
}

func newStream(rw io.ReadWriteCloser, dir Direction) *stream {
	return &stream{rw: rw, dir: dir}
}

func (s *stream) Read(p []byte) (int, error) {
	if s.dir != Inbound {
		return 0, ErrWrongDirection
	}
	if s.closed.Load() {
		return 0, ErrClosed
	}
	n, err := s.rw.Read(p)
	if err != nil && err != io.EOF && s.closed.Load() {
		err = ErrClosed
	}
	return n, err
}

func (s *stream) Write(p []byte) (int, error) {
	if s.dir != Outbound {
		return 0, ErrWrongDirection
	}
	if s.closed.Load() {
		return 0, ErrClosed
	}
	n, err := s.rw.Write(p)
	if err != nil && s.closed.Load() {
		err = ErrClosed
	}
	return n, err
}

func (s *stream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return s.rw.Close()
}
