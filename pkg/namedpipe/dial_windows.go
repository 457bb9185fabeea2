//go:build windows

package namedpipe

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/Microsoft/go-winio"
	"github.com/avast/retry-go/v4"
)

// dialRetryInterval is how often Dial checks for a pipe that does not
// exist yet.
const dialRetryInterval = 50 * time.Millisecond

func dialPipe(ctx context.Context, path string, _ Direction) (io.ReadWriteCloser, error) {
	return retry.DoWithData(func() (net.Conn, error) {
		return winio.DialPipeContext(ctx, path)
	},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(dialRetryInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, os.ErrNotExist)
		}),
	)
}
