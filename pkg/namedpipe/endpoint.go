package namedpipe

import (
	"context"
	"fmt"
	"io"
)

// endpoint is the platform half of a Channel: the OS pipe object bound to
// a name, waiting for exactly one peer.
type endpoint interface {
	// accept blocks until the peer opens the other end and returns the
	// stream for it. It must return promptly once ctx is done.
	accept(ctx context.Context) (io.ReadWriteCloser, error)

	// close releases the OS object and its name. It does not close a
	// stream returned by accept.
	close() error
}

// newEndpoint checks the options every platform shares, then creates the
// platform-specific pipe object at path
func newEndpoint(path string, dir Direction, opts *Options) (endpoint, error) {
	if opts.BufferSize > MaxBufferSize {
		return nil, fmt.Errorf("%w: %s: buffer size %d exceeds %d", ErrResourceCreation, path, opts.BufferSize, MaxBufferSize)
	}
	if opts.ConnectTimeout < 0 {
		return nil, fmt.Errorf("%w: %s: negative connect timeout %s", ErrResourceCreation, path, opts.ConnectTimeout)
	}

	opts.Logger.V(1).Info("Creating named pipe", "path", path, "direction", dir.String(), "bufferSize", opts.BufferSize, "permissive", opts.Permissive)
	return createEndpoint(path, dir, opts)
}
