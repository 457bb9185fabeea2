//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package namedpipe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// createClaim creates the lock file peers flock. O_EXCL makes a name that
// is already in use fail here, before the FIFO is touched. The returned
// func removes the file again.
func createClaim(path string, permissive bool) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	undo := func() { removeClaim(path) }
	if permissive {
		if err := f.Chmod(0o644); err != nil {
			undo()
			return nil, err
		}
	}
	return undo, nil
}

// claimPeer takes an exclusive, non-blocking flock on the claim file. The
// kernel drops it if the peer process dies.
func claimPeer(path string) (io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open claim: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrPeerAttached
		}
		return nil, fmt.Errorf("failed to lock claim: %w", err)
	}
	return f, nil
}
