//go:build linux

package namedpipe

import (
	"fmt"
	"io"
	"syscall"

	"golang.org/x/sys/unix"
)

// setPipeSize asks the kernel for a pipe buffer of at least size bytes.
// Unprivileged processes are capped by /proc/sys/fs/pipe-max-size.
func setPipeSize(rw io.ReadWriteCloser, size int) error {
	sc, ok := rw.(syscall.Conn)
	if !ok {
		return fmt.Errorf("%T does not expose a file descriptor", rw)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return err
	}

	var opErr error
	err = raw.Control(func(fd uintptr) {
		_, opErr = unix.FcntlInt(fd, unix.F_SETPIPE_SZ, size)
	})
	if err != nil {
		return err
	}
	return opErr
}
