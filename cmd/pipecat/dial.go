package main

import (
	"context"
	"time"

	"github.com/ishanjain/namedpipe/pkg/config"
	"github.com/ishanjain/namedpipe/pkg/namedpipe"
	"github.com/spf13/cobra"
)

func newDialCmd() *cobra.Command {
	var (
		write   bool
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "dial <path>",
		Short: "Open the other end of a pipe created by serve",
		Long: `Open the other end of a pipe created by serve.

By default the pipe is read and copied to stdout. With --write stdin is
copied into the pipe. dial waits for the pipe to appear.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), config.LoggingConfig{Verbose: verbose})

			direction := namedpipe.Inbound
			if write {
				direction = namedpipe.Outbound
			}

			ctx := cmd.Context()
			dialCtx, cancel := ctx, context.CancelFunc(func() {})
			if timeout > 0 {
				dialCtx, cancel = context.WithTimeout(ctx, timeout)
			}
			defer cancel()

			rw, err := namedpipe.Dial(dialCtx, args[0], direction)
			if err != nil {
				return err
			}
			defer rw.Close()
			logger.Info("Connected", "path", args[0], "direction", direction.String())

			var n int64
			if direction == namedpipe.Outbound {
				n, err = pump(ctx, rw, cmd.InOrStdin(), rw)
			} else {
				n, err = pump(ctx, cmd.OutOrStdout(), rw, rw)
			}
			logger.V(1).Info("Transfer finished", "bytes", n)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write stdin into the pipe instead of reading it")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up waiting for the pipe after this long")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	return cmd
}
