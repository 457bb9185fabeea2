package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ishanjain/namedpipe/pkg/config"
	"github.com/ishanjain/namedpipe/pkg/namedpipe"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath  string
		inbound     bool
		outbound    bool
		token       string
		randomToken bool
		dir         string
		timeout     time.Duration
		permissive  bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "serve [name]",
		Short: "Create a named pipe, print its path and wait for one peer",
		Long: `Create a named pipe, print its path on stderr and wait for one peer.

Outbound pipes (the default) copy stdin into the pipe. With --inbound the
pipe is read and copied to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			flags := map[string]interface{}{
				"inbound":    inbound,
				"outbound":   outbound,
				"token":      token,
				"dir":        dir,
				"timeout":    timeout,
				"permissive": permissive,
				"v":          verbose,
			}
			if len(args) == 1 {
				flags["name"] = args[0]
			}
			if randomToken {
				flags["token"] = namedpipe.NewToken()
			}
			cfg.MergeWithFlags(flags)

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Logging)
			opts, direction := cfg.PipeOptions(logger)

			ch, err := namedpipe.New(cfg.Pipe.Name, direction, opts)
			if err != nil {
				return err
			}
			defer func() {
				if err := ch.Close(); err != nil && !errors.Is(err, namedpipe.ErrClosed) {
					logger.Error(err, "Failed to close named pipe")
				}
			}()

			fmt.Fprintln(cmd.ErrOrStderr(), ch.Path())

			ctx := cmd.Context()
			if err := ch.Connect(ctx); err != nil {
				return err
			}

			var n int64
			if direction == namedpipe.Outbound {
				n, err = pump(ctx, ch, cmd.InOrStdin(), ch)
			} else {
				n, err = pump(ctx, cmd.OutOrStdout(), ch, ch)
			}
			logger.V(1).Info("Transfer finished", "bytes", n)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: $PIPECAT_CONFIG or "+getConfigPath()+" if present)")
	cmd.Flags().BoolVar(&inbound, "inbound", false, "read from the pipe instead of writing to it")
	cmd.Flags().BoolVar(&outbound, "outbound", false, "write stdin to the pipe, overriding the config file")
	cmd.Flags().StringVar(&token, "token", "", "unique token appended to the name (default: process id)")
	cmd.Flags().BoolVar(&randomToken, "random-token", false, "use a random token instead of the process id")
	cmd.Flags().StringVar(&dir, "dir", "", "directory for the FIFO on POSIX systems")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up waiting for the peer after this long")
	cmd.Flags().BoolVar(&permissive, "permissive", false, "allow other users to open the pipe")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	cmd.MarkFlagsMutuallyExclusive("token", "random-token")
	cmd.MarkFlagsMutuallyExclusive("inbound", "outbound")

	return cmd
}

// loadConfig reads the explicit config path, then $PIPECAT_CONFIG, then the
// platform default if it exists. With no file, defaults are returned.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("PIPECAT_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(getConfigPath()); err != nil {
			return config.Default(), nil
		}
		path = getConfigPath()
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
