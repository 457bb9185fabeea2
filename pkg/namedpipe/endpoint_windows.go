//go:build windows

package namedpipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/Microsoft/go-winio"
	"github.com/go-logr/logr"
)

// pipeNamespace is the local named pipe namespace root
const pipeNamespace = `\\.\pipe\`

type pipeEndpoint struct {
	path     string
	listener net.Listener
	logger   logr.Logger

	closeOnce sync.Once
	closeErr  error
}

type acceptResult struct {
	conn net.Conn
	err  error
}

func defaultDir() string {
	return ""
}

func namespace(*Options) string {
	return pipeNamespace
}

func createEndpoint(path string, dir Direction, opts *Options) (endpoint, error) {
	sd := ""
	if !opts.Permissive {
		var err error
		if sd, err = currentUserSDDL(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrResourceCreation, path, err)
		}
	}

	cfg := &winio.PipeConfig{
		SecurityDescriptor: sd,
		MessageMode:        false,
	}
	if dir == Outbound {
		cfg.OutputBufferSize = int32(opts.BufferSize)
	} else {
		cfg.InputBufferSize = int32(opts.BufferSize)
	}

	// ListenPipe creates the first instance immediately and fails if the
	// name is already taken.
	l, err := winio.ListenPipe(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceCreation, path, err)
	}

	return &pipeEndpoint{
		path:     path,
		listener: l,
		logger:   opts.Logger,
	}, nil
}

func (e *pipeEndpoint) accept(ctx context.Context) (io.ReadWriteCloser, error) {
	ch := make(chan acceptResult, 1)
	go func() {
		conn, err := e.listener.Accept()
		ch <- acceptResult{conn: conn, err: err}
	}()

	select {
	case r := <-ch:
		// Single client: no further instance may be connected.
		e.close()
		if r.err != nil {
			return nil, r.err
		}
		return r.conn, nil
	case <-ctx.Done():
		e.close()
		if r := <-ch; r.conn != nil {
			r.conn.Close()
		}
		return nil, ctx.Err()
	}
}

func (e *pipeEndpoint) close() error {
	e.closeOnce.Do(func() {
		if err := e.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			e.closeErr = err
		}
	})
	return e.closeErr
}
