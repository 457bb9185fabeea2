// Package namedpipe provides a one-shot, single-client, single-direction
// named pipe between two processes.
//
// The creating side calls New, hands Path to the other process out of
// band, then calls Connect to wait for it. The other process calls Dial.
// On Windows the pipe lives in the \\.\pipe\ namespace; on POSIX systems
// it is a FIFO in a private directory.
package namedpipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-logr/logr"
)

type state int

const (
	stateCreated state = iota
	stateConnecting
	stateConnected
	stateClosed
)

// Channel is the creating end of a named pipe. It serves exactly one
// connection; create a new Channel for the next one. Only one peer may
// attach, including peers that Dial before Connect is called.
//
// Channel is meant to be driven by one goroutine. Close may be called from
// another goroutine to abort a pending Connect or blocked I/O.
type Channel struct {
	path   string
	dir    Direction
	opts   Options
	logger logr.Logger

	ep endpoint

	mu     sync.Mutex
	state  state
	stream *stream
	cancel context.CancelFunc
}

var _ io.ReadWriteCloser = (*Channel)(nil)

// New creates the named pipe <namespace><suffix>_<token> and returns the
// Channel owning it. The name is visible to other processes as soon as New
// returns, before any peer connects.
func New(suffix string, dir Direction, opts *Options) (*Channel, error) {
	if !dir.valid() {
		return nil, fmt.Errorf("%w: invalid direction %d", ErrResourceCreation, dir)
	}
	if err := validateSuffix(suffix); err != nil {
		return nil, err
	}

	o := opts.withDefaults()
	if err := validateSuffix(o.Token); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	path := Name(namespace(&o), suffix, o.Token)
	logger := o.Logger.WithValues("path", path, "direction", dir.String())

	ep, err := newEndpoint(path, dir, &o)
	if err != nil {
		return nil, err
	}

	logger.Info("Named pipe created")

	return &Channel{
		path:   path,
		dir:    dir,
		opts:   o,
		logger: logger,
		ep:     ep,
	}, nil
}

// Path returns the pipe identity the peer must open
func (c *Channel) Path() string {
	return c.path
}

// Direction returns the direction fixed at creation
func (c *Channel) Direction() Direction {
	return c.dir
}

// Connect blocks until a peer opens the other end of the pipe. It returns
// early when ctx is done, when Options.ConnectTimeout elapses, or when
// Close is called. A failed Connect closes the Channel.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case stateClosed:
		c.mu.Unlock()
		return fmt.Errorf("%w: %s: %w", ErrConnect, c.path, ErrClosed)
	case stateConnecting:
		c.mu.Unlock()
		return fmt.Errorf("%w: %s: connect already in progress", ErrConnect, c.path)
	case stateConnected:
		c.mu.Unlock()
		return fmt.Errorf("%w: %s: already connected", ErrConnect, c.path)
	}

	var cancel context.CancelFunc
	if c.opts.ConnectTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.opts.ConnectTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	c.cancel = cancel
	c.state = stateConnecting
	c.mu.Unlock()

	c.logger.V(1).Info("Waiting for peer")
	rw, err := c.ep.accept(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = nil

	if c.state == stateClosed {
		// Close ran while we were waiting and already released the endpoint
		if rw != nil {
			rw.Close()
		}
		return fmt.Errorf("%w: %s: %w", ErrConnect, c.path, ErrClosed)
	}

	if err != nil {
		c.state = stateClosed
		if cerr := c.ep.close(); cerr != nil {
			c.logger.Error(cerr, "Failed to release named pipe")
		}
		c.logger.Info("Connect failed", "error", err)
		return fmt.Errorf("%w: %s: %w", ErrConnect, c.path, err)
	}

	c.stream = newStream(rw, c.dir)
	c.state = stateConnected
	c.logger.Info("Peer connected")
	return nil
}

// Read reads from an inbound Channel
func (c *Channel) Read(p []byte) (int, error) {
	if c.dir != Inbound {
		return 0, ErrWrongDirection
	}
	s, err := c.connected()
	if err != nil {
		return 0, err
	}
	return s.Read(p)
}

// Write writes to an outbound Channel
func (c *Channel) Write(p []byte) (int, error) {
	if c.dir != Outbound {
		return 0, ErrWrongDirection
	}
	s, err := c.connected()
	if err != nil {
		return 0, err
	}
	return s.Write(p)
}

func (c *Channel) connected() (*stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateConnected:
		return c.stream, nil
	case stateClosed:
		return nil, ErrClosed
	default:
		return nil, ErrNotConnected
	}
}

// Close releases the stream and the OS pipe object together and removes
// the name. It aborts a pending Connect. Calling Close on a closed Channel
// returns ErrClosed.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state = stateClosed
	if c.cancel != nil {
		c.cancel()
	}
	s := c.stream
	c.mu.Unlock()

	var errs []error
	if s != nil {
		if err := s.Close(); err != nil && !errors.Is(err, ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close stream: %w", err))
		}
	}
	if err := c.ep.close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to release named pipe: %w", err))
	}

	c.logger.Info("Named pipe closed")
	return errors.Join(errs...)
}

// Dial opens the peer end of the pipe at path. dir is the caller's own
// direction, the opposite of the creating Channel's. Dial waits for the
// pipe to be created and for the creator to Connect, bounded by ctx. If
// another peer already holds a POSIX pipe, Dial fails at once with an error
// wrapping both ErrConnect and ErrPeerAttached; on Windows the pipe is busy
// and Dial waits until ctx is done.
func Dial(ctx context.Context, path string, dir Direction) (io.ReadWriteCloser, error) {
	if !dir.valid() {
		return nil, fmt.Errorf("%w: invalid direction %d", ErrConnect, dir)
	}
	rw, err := dialPipe(ctx, path, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, path, err)
	}
	return newStream(rw, dir), nil
}
