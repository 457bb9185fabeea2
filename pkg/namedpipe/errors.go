package namedpipe

import "errors"

var (
	// ErrResourceCreation is returned when the named pipe object cannot be
	// allocated: the name is taken, access is denied, or the OS is out of
	// resources.
	ErrResourceCreation = errors.New("named pipe creation failed")

	// ErrConnect is returned when waiting for the peer fails, times out or
	// is aborted.
	ErrConnect = errors.New("named pipe connect failed")

	// ErrClosed is returned by I/O after Close and by a second Close.
	ErrClosed = errors.New("named pipe is closed")

	// ErrNotConnected is returned by I/O attempted before Connect succeeds.
	ErrNotConnected = errors.New("named pipe is not connected")

	// ErrWrongDirection is returned when reading from an outbound end or
	// writing to an inbound end.
	ErrWrongDirection = errors.New("operation not permitted for pipe direction")

	// ErrPeerAttached is returned by Dial when another peer already holds
	// the pipe.
	ErrPeerAttached = errors.New("named pipe already claimed by another peer")

	// ErrUnsupported is returned on platforms without named pipes.
	ErrUnsupported = errors.New("named pipes are not supported on this platform")
)
