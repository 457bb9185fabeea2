//go:build unix

package namedpipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/containerd/fifo"
	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"
)

type fifoEndpoint struct {
	path       string
	dir        Direction
	bufferSize int
	logger     logr.Logger
}

// defaultDir returns the directory FIFOs are created in
func defaultDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

func namespace(opts *Options) string {
	return filepath.Clean(opts.Dir) + string(filepath.Separator)
}

func createEndpoint(path string, dir Direction, opts *Options) (endpoint, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceCreation, path, err)
	}

	// The claim file must exist before the FIFO does, since a peer waiting
	// for the FIFO goes straight on to claim it.
	undoClaim, err := createClaim(claimPath(path), opts.Permissive)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceCreation, path, err)
	}

	if err := unix.Mkfifo(path, 0o600); err != nil {
		undoClaim()
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceCreation, path, err)
	}

	// mkfifo honours the umask, so widen explicitly
	if opts.Permissive {
		if err := os.Chmod(path, 0o666); err != nil {
			os.Remove(path)
			undoClaim()
			return nil, fmt.Errorf("%w: %s: %w", ErrResourceCreation, path, err)
		}
	}

	return &fifoEndpoint{
		path:       path,
		dir:        dir,
		bufferSize: opts.BufferSize,
		logger:     opts.Logger,
	}, nil
}

func (e *fifoEndpoint) accept(ctx context.Context) (io.ReadWriteCloser, error) {
	flag := syscall.O_RDONLY
	if e.dir == Outbound {
		flag = syscall.O_WRONLY
	}

	// Without O_NONBLOCK OpenFifo waits for the peer, or for ctx.
	rw, err := fifo.OpenFifo(ctx, e.path, flag, 0)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, err
	}

	// Both ends are open; unlinking the name keeps late peers from even
	// finding this connection. Earlier ones were turned away by the claim.
	if err := e.unlink(); err != nil {
		e.logger.Error(err, "Failed to unlink fifo", "path", e.path)
	}

	if err := setPipeSize(rw, e.bufferSize); err != nil {
		e.logger.V(1).Info("Could not resize pipe buffer", "path", e.path, "size", e.bufferSize, "error", err)
	}

	return rw, nil
}

func (e *fifoEndpoint) unlink() error {
	if err := os.Remove(e.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (e *fifoEndpoint) close() error {
	return errors.Join(e.unlink(), removeClaim(claimPath(e.path)))
}
