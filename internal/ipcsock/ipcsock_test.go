package ipcsock

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServeDeliversRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texlab.sock")
	srv, err := Listen(path)
	require.NoError(t, err)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Request, 1)
	srv.Serve(ctx, func(r Request) { got <- r })

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()

	body, err := json.Marshal(Request{Path: "/tmp/main.tex", Line: 4, Column: 1})
	require.NoError(t, err)
	_, err = conn.Write(append(body, '\n'))
	require.NoError(t, err)

	select {
	case r := <-got:
		require.Equal(t, "/tmp/main.tex", r.Path)
		require.Equal(t, 4, r.Line)
	case <-time.After(time.Second):
		t.Fatal("request never delivered")
	}
}

func TestListenRemovesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texlab.sock")
	first, err := Listen(path)
	require.NoError(t, err)
	// Simulate a crash: the listener's file descriptor goes away without
	// Close() running, leaving the socket file behind.
	first.ln.(*net.UnixListener).SetUnlinkOnClose(false)
	_ = first.ln.Close()

	second, err := Listen(path)
	require.NoError(t, err)
	defer second.Close()
}
