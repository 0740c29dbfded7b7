package protocol

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/require"

	"texlab/internal/workspace"
)

func TestDebouncerCoalescesRapidSchedules(t *testing.T) {
	var runs int32
	var wg sync.WaitGroup
	wg.Add(1)
	d := newDebouncer(20*time.Millisecond, func(ctx context.Context, conn *jsonrpc2.Conn, uri workspace.URI) {
		atomic.AddInt32(&runs, 1)
		wg.Done()
	})

	uri := workspace.URI("file:///tmp/main.tex")
	for i := 0; i < 5; i++ {
		d.schedule(context.Background(), nil, uri)
	}
	wg.Wait()
	require.EqualValues(t, 1, atomic.LoadInt32(&runs))
}

func TestDebouncerRefiresForEditArrivingMidRun(t *testing.T) {
	var runs int32
	done := make(chan struct{})
	started := make(chan struct{}, 2)
	d := newDebouncer(5*time.Millisecond, func(ctx context.Context, conn *jsonrpc2.Conn, uri workspace.URI) {
		started <- struct{}{}
		n := atomic.AddInt32(&runs, 1)
		if n == 1 {
			time.Sleep(20 * time.Millisecond)
		} else {
			close(done)
		}
	})

	uri := workspace.URI("file:///tmp/main.tex")
	d.schedule(context.Background(), nil, uri)
	<-started
	// Arrives while the first run is still sleeping: must be marked pending
	// and trigger a second run once the first completes.
	d.schedule(context.Background(), nil, uri)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second run never fired")
	}
	require.EqualValues(t, 2, atomic.LoadInt32(&runs))
}
