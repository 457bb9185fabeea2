//go:build windows

package namedpipe

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T) *Options {
	t.Helper()
	return &Options{Token: NewToken()}
}

func connectPair(t *testing.T, c *Channel) io.ReadWriteCloser {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connected := make(chan error, 1)
	go func() {
		connected <- c.Connect(ctx)
	}()

	peer, err := Dial(ctx, c.Path(), c.Direction().Peer())
	require.NoError(t, err)
	require.NoError(t, <-connected)
	return peer
}

func TestChannelPath(t *testing.T) {
	c, err := New("test", Outbound, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, `\\.\pipe\test_`+strconv.Itoa(os.Getpid()), c.Path())
}

func TestChannelNameCollision(t *testing.T) {
	opts := testOptions(t)

	first, err := New("test", Outbound, opts)
	require.NoError(t, err)

	_, err = New("test", Outbound, opts)
	require.ErrorIs(t, err, ErrResourceCreation)

	require.NoError(t, first.Close())
}

func TestChannelWrongDirection(t *testing.T) {
	c, err := New("test", Outbound, testOptions(t))
	require.NoError(t, err)
	defer c.Close()

	peer := connectPair(t, c)
	defer peer.Close()

	_, err = c.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrWrongDirection)
	_, err = peer.Write([]byte("x"))
	require.ErrorIs(t, err, ErrWrongDirection)
}

func TestChannelConnectContextDeadline(t *testing.T) {
	c, err := New("test", Inbound, testOptions(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = c.Connect(ctx)
	require.ErrorIs(t, err, ErrConnect)
	require.ErrorIs(t, c.Close(), ErrClosed)
}

func TestChannelSingleClient(t *testing.T) {
	c, err := New("test", Outbound, testOptions(t))
	require.NoError(t, err)
	defer c.Close()

	peer := connectPair(t, c)
	defer peer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err = Dial(ctx, c.Path(), Inbound)
	require.ErrorIs(t, err, ErrConnect)
}

func TestChannelEndToEnd(t *testing.T) {
	c, err := New("test", Outbound, testOptions(t))
	require.NoError(t, err)

	peer := connectPair(t, c)
	defer peer.Close()

	received := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(peer)
		received <- data
	}()

	_, err = c.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	select {
	case data := <-received:
		assert.Equal(t, []byte("hello"), data)
	case <-time.After(5 * time.Second):
		t.Fatal("peer did not observe end of stream")
	}
}

func TestChannelRoundTrip(t *testing.T) {
	payload := make([]byte, 4*DefaultBufferSize+17)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	out, err := New("out", Outbound, testOptions(t))
	require.NoError(t, err)
	defer out.Close()

	in, err := New("in", Inbound, testOptions(t))
	require.NoError(t, err)
	defer in.Close()

	outPeer := connectPair(t, out)
	defer outPeer.Close()
	inPeer := connectPair(t, in)

	go func() {
		io.Copy(inPeer, outPeer)
		inPeer.Close()
	}()
	go func() {
		out.Write(payload)
		out.Close()
	}()

	got, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got), "payload corrupted in transit")
}
