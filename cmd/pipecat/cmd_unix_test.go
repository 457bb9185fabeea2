//go:build unix

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ishanjain/namedpipe/pkg/namedpipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeAndDial(t *testing.T) {
	t.Setenv("PIPECAT_CONFIG", "")

	dir := t.TempDir()
	token := namedpipe.NewToken()
	path := filepath.Join(dir, "cat_"+token)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var serveErr bytes.Buffer
	serve := newRootCmd()
	serve.SetArgs([]string{"serve", "cat", "--dir", dir, "--token", token})
	serve.SetIn(strings.NewReader("hello"))
	serve.SetErr(&serveErr)

	served := make(chan error, 1)
	go func() {
		served <- serve.ExecuteContext(ctx)
	}()

	var dialOut, dialErr bytes.Buffer
	dial := newRootCmd()
	dial.SetArgs([]string{"dial", path, "--timeout", "5s"})
	dial.SetOut(&dialOut)
	dial.SetErr(&dialErr)

	require.NoError(t, dial.ExecuteContext(ctx))
	require.NoError(t, <-served)

	assert.Equal(t, "hello", dialOut.String())
	assert.Contains(t, serveErr.String(), path)
}

func TestServeInboundAndDialWrite(t *testing.T) {
	t.Setenv("PIPECAT_CONFIG", "")

	dir := t.TempDir()
	token := namedpipe.NewToken()
	path := filepath.Join(dir, "sink_"+token)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var serveOut bytes.Buffer
	serve := newRootCmd()
	serve.SetArgs([]string{"serve", "sink", "--inbound", "--dir", dir, "--token", token})
	serve.SetOut(&serveOut)
	serve.SetErr(&bytes.Buffer{})

	served := make(chan error, 1)
	go func() {
		served <- serve.ExecuteContext(ctx)
	}()

	dial := newRootCmd()
	dial.SetArgs([]string{"dial", path, "--write", "--timeout", "5s"})
	dial.SetIn(strings.NewReader("hello"))
	dial.SetErr(&bytes.Buffer{})

	require.NoError(t, dial.ExecuteContext(ctx))
	require.NoError(t, <-served)

	assert.Equal(t, "hello", serveOut.String())
}

func TestServeOutboundOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("pipe:\n  name: cfg\n  direction: inbound\n"), 0o600))
	t.Setenv("PIPECAT_CONFIG", cfgPath)

	token := namedpipe.NewToken()
	path := filepath.Join(dir, "cfg_"+token)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serve := newRootCmd()
	serve.SetArgs([]string{"serve", "--outbound", "--dir", dir, "--token", token})
	serve.SetIn(strings.NewReader("from stdin"))
	serve.SetErr(&bytes.Buffer{})

	served := make(chan error, 1)
	go func() {
		served <- serve.ExecuteContext(ctx)
	}()

	var dialOut bytes.Buffer
	dial := newRootCmd()
	dial.SetArgs([]string{"dial", path, "--timeout", "5s"})
	dial.SetOut(&dialOut)
	dial.SetErr(&bytes.Buffer{})

	require.NoError(t, dial.ExecuteContext(ctx))
	require.NoError(t, <-served)

	assert.Equal(t, "from stdin", dialOut.String())
}

func TestServeInboundOutboundExclusive(t *testing.T) {
	t.Setenv("PIPECAT_CONFIG", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "x", "--inbound", "--outbound", "--dir", t.TempDir()})
	cmd.SetErr(&bytes.Buffer{})

	require.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestServeTimeout(t *testing.T) {
	t.Setenv("PIPECAT_CONFIG", "")

	dir := t.TempDir()
	token := namedpipe.NewToken()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "lonely", "--dir", dir, "--token", token, "--timeout", "100ms"})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetErr(&bytes.Buffer{})

	start := time.Now()
	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, namedpipe.ErrConnect)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	// nothing is left behind under the name
	_, err = os.Stat(filepath.Join(dir, "lonely_"+token))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDialTimeout(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"dial", filepath.Join(t.TempDir(), "missing_1"), "--timeout", "100ms"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, namedpipe.ErrConnect)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServeRequiresName(t *testing.T) {
	t.Setenv("PIPECAT_CONFIG", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve", "--dir", t.TempDir()})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pipecat version "+version+"\n", out.String())
}
