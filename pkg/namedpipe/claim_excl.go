//go:build unix && !(darwin || dragonfly || freebsd || linux || netbsd || openbsd)

package namedpipe

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// createClaim is a no-op; without flock the peer creates the claim file
// itself, exclusively.
func createClaim(string, bool) (func(), error) {
	return func() {}, nil
}

type claimFile struct {
	*os.File
}

// Close releases the claim so another peer may try
func (c claimFile) Close() error {
	return errors.Join(c.File.Close(), removeClaim(c.Name()))
}

func claimPeer(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrPeerAttached
		}
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}
	return claimFile{f}, nil
}
