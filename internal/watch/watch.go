// Package watch provides the file-watching boundary between the project
// directories on disk and the in-memory workspace (spec §5): it notices
// files an editor never opened — most importantly build artifacts a LaTeX
// engine writes after a compile — so the query engine can react to them
// without requiring the client to explicitly open every log and aux file.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies a settled filesystem change.
type EventKind int

const (
	EventWrite EventKind = iota
	EventRemove
)

// Event is one debounced filesystem change ready for a caller to act on.
type Event struct {
	Path string
	Kind EventKind
}

// Watcher wraps an fsnotify.Watcher with per-path debouncing, so a build
// tool that writes a log file in several small appends produces one Event
// rather than a burst.
type Watcher struct {
	fsw     *fsnotify.Watcher
	onEvent func(Event)
	delay   time.Duration

	mu      sync.Mutex
	pending map[string]Event
	timers  map[string]*time.Timer

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a Watcher that invokes onEvent for each settled change, after
// delay has passed with no further activity on that path. onEvent is called
// from a timer goroutine, possibly concurrently for different paths;
// callers that touch shared state must synchronize themselves.
func New(onEvent func(Event), delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	w := &Watcher{
		fsw:     fsw,
		onEvent: onEvent,
		delay:   delay,
		pending: make(map[string]Event),
		timers:  make(map[string]*time.Timer),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	return w, nil
}

// Add starts watching dir (non-recursively; callers add every directory
// that matters, matching fsnotify's own non-recursive design).
func (w *Watcher) Add(dir string) error {
	return w.fsw.Add(dir)
}

// Start runs the watcher's event loop in a goroutine until ctx is canceled
// or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	var kind EventKind
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		kind = EventRemove
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		kind = EventWrite
	default:
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[ev.Name] = Event{Path: ev.Name, Kind: kind}
	if t, ok := w.timers[ev.Name]; ok {
		t.Stop()
	}
	path := ev.Name
	w.timers[ev.Name] = time.AfterFunc(w.delay, func() {
		w.fire(path)
	})
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	event, ok := w.pending[path]
	delete(w.pending, path)
	delete(w.timers, path)
	w.mu.Unlock()
	if ok {
		w.onEvent(event)
	}
}

// Close stops the event loop and releases the underlying inotify/kqueue
// handle. Safe to call more than once.
func (w *Watcher) Close() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
	return w.fsw.Close()
}
