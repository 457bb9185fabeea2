//go:build !(windows || unix)

package namedpipe

import (
	"context"
	"fmt"
	"io"
	"os"
)

func defaultDir() string {
	return os.TempDir()
}

func namespace(opts *Options) string {
	return opts.Dir + "/"
}

func createEndpoint(path string, _ Direction, _ *Options) (endpoint, error) {
	return nil, fmt.Errorf("%w: %s: %w", ErrResourceCreation, path, ErrUnsupported)
}

func dialPipe(context.Context, string, Direction) (io.ReadWriteCloser, error) {
	return nil, ErrUnsupported
}
