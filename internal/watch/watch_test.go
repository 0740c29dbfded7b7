package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.log")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	events := make(chan Event, 10)
	w, err := New(func(e Event) { events <- e }, 30*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("a b c"), 0o644))
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case e := <-events:
		require.Equal(t, EventWrite, e.Kind)
	case <-time.After(time.Second):
		t.Fatal("no event observed")
	}

	select {
	case e := <-events:
		t.Fatalf("expected the rapid writes to coalesce into one event, got a second: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherReportsRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.aux")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	events := make(chan Event, 10)
	w, err := New(func(e Event) { events <- e }, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Close()

	require.NoError(t, os.Remove(path))

	select {
	case e := <-events:
		require.Equal(t, EventRemove, e.Kind)
	case <-time.After(time.Second):
		t.Fatal("no remove event observed")
	}
}
