//go:build unix

package namedpipe

import (
	"errors"
	"os"
)

// claimPath is the file a peer must hold to attach to the FIFO at path
func claimPath(path string) string {
	return path + ".lock"
}

func removeClaim(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
