package main

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/ishanjain/namedpipe/pkg/config"
)

// newLogger builds a funcr logger on w. Stdout carries pipe data, so logs
// never go there.
func newLogger(w io.Writer, cfg config.LoggingConfig) logr.Logger {
	opts := funcr.Options{Verbosity: 0}
	if cfg.Verbose || cfg.Level == "debug" {
		opts.Verbosity = 1
	}

	var logger logr.Logger
	if cfg.Format == "json" {
		logger = funcr.NewJSON(func(obj string) {
			fmt.Fprintln(w, obj)
		}, opts)
	} else {
		logger = funcr.New(func(p, a string) {
			if p != "" {
				fmt.Fprintf(w, "%s: %s\n", p, a)
			} else {
				fmt.Fprintln(w, a)
			}
		}, opts)
	}

	if cfg.Level == "error" && !cfg.Verbose {
		logger = logr.New(errorOnly{logger.GetSink()})
	}
	return logger.WithName("pipecat")
}

// errorOnly drops Info records at every verbosity
type errorOnly struct {
	logr.LogSink
}

func (errorOnly) Enabled(int) bool {
	return false
}

func (s errorOnly) WithValues(kv ...interface{}) logr.LogSink {
	return errorOnly{s.LogSink.WithValues(kv...)}
}

func (s errorOnly) WithName(name string) logr.LogSink {
	return errorOnly{s.LogSink.WithName(name)}
}
