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
	"github.com/fsnotify/fsnotify"
)

func dialPipe(ctx context.Context, path string, dir Direction) (io.ReadWriteCloser, error) {
	if err := waitForPath(ctx, path); err != nil {
		return nil, err
	}

	// Claim before the blocking open: every opener waiting in open(2)
	// would be attached at once when the creator connects.
	claim, err := claimPeer(claimPath(path))
	if err != nil {
		return nil, err
	}

	flag := syscall.O_RDONLY
	if dir == Outbound {
		flag = syscall.O_WRONLY
	}
	rw, err := fifo.OpenFifo(ctx, path, flag, 0)
	if err != nil {
		claim.Close()
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, err
	}
	return &claimedStream{ReadWriteCloser: rw, claim: claim}, nil
}

// claimedStream holds the peer claim for as long as the stream is open
type claimedStream struct {
	io.ReadWriteCloser
	claim io.Closer
}

func (s *claimedStream) Close() error {
	return errors.Join(s.ReadWriteCloser.Close(), s.claim.Close())
}

// waitForPath blocks until path exists or ctx is done. The parent
// directory is watched rather than the path itself so creation is seen.
func waitForPath(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil || !errors.Is(err, os.ErrNotExist) {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	// Created between the first Stat and Add
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed while waiting for %s", path)
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) || !event.Has(fsnotify.Create) {
				continue
			}
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed while waiting for %s", path)
			}
			return fmt.Errorf("watcher error: %w", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
