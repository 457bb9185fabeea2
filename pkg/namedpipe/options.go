package namedpipe

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

const (
	// DefaultBufferSize is the pipe buffer size used when Options.BufferSize is 0
	DefaultBufferSize = 64 * 1024

	// MaxBufferSize is the largest accepted Options.BufferSize. Windows
	// takes buffer sizes as 32-bit values.
	MaxBufferSize = 1 << 30
)

// Options tunes how a Channel is created
type Options struct {
	// Token makes the name unique. Defaults to the process id.
	Token string

	// Dir is the directory FIFOs are created in on POSIX systems.
	// Defaults to $XDG_RUNTIME_DIR, then the temp dir. Ignored on Windows,
	// where pipes always live under \\.\pipe\.
	Dir string

	// BufferSize is the requested kernel buffer size in bytes
	BufferSize int

	// ConnectTimeout bounds Connect when greater than zero
	ConnectTimeout time.Duration

	// Permissive grants other users access to the pipe. By default only the
	// creating user may open it.
	Permissive bool

	// Logger receives lifecycle events. Defaults to logr.Discard().
	Logger logr.Logger
}

// withDefaults returns a copy of o with unset fields filled in
func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Token == "" {
		out.Token = ProcessToken()
	}
	if out.Dir == "" {
		out.Dir = defaultDir()
	}
	if out.BufferSize <= 0 {
		out.BufferSize = DefaultBufferSize
	}
	if out.Logger.GetSink() == nil {
		out.Logger = logr.Discard()
	}
	return out
}

// ProcessToken returns the current process id as a token
func ProcessToken() string {
	return strconv.Itoa(os.Getpid())
}

// NewToken returns a random token, for callers that do not want the
// process id in the pipe name.
func NewToken() string {
	return uuid.NewString()
}

// Name composes a pipe identity: <namespace><suffix>_<token>
func Name(namespace, suffix, token string) string {
	return namespace + suffix + "_" + token
}

func validateSuffix(suffix string) error {
	if suffix == "" {
		return fmt.Errorf("%w: empty name", ErrResourceCreation)
	}
	if strings.ContainsAny(suffix, `/\`) || strings.ContainsRune(suffix, 0) {
		return fmt.Errorf("%w: invalid name %q", ErrResourceCreation, suffix)
	}
	return nil
}
