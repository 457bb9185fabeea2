//go:build unix && !linux

package namedpipe

import "io"

// setPipeSize is a no-op; only Linux can resize a pipe.
func setPipeSize(io.ReadWriteCloser, int) error {
	return nil
}
