package main

import (
	"context"
	"io"
)

type copyResult struct {
	n   int64
	err error
}

// pump copies src to dst until EOF or ctx is done. On cancellation it
// closes c to unblock the pipe side and returns without waiting for a
// read that may be stuck on a terminal.
func pump(ctx context.Context, dst io.Writer, src io.Reader, c io.Closer) (int64, error) {
	done := make(chan copyResult, 1)
	go func() {
		n, err := io.Copy(dst, src)
		done <- copyResult{n, err}
	}()

	select {
	case r := <-done:
		return r.n, r.err
	case <-ctx.Done():
		c.Close()
		return 0, ctx.Err()
	}
}
