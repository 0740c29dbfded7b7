package protocol

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"texlab/internal/logging"
	"texlab/internal/query"
	"texlab/internal/workspace"
)

// debouncer coalesces rapid-fire didChange notifications into at most one
// analysis run per URI (spec §1.1: "debounced per URI... default 300ms...
// at most one analysis runs per URI at a time").
type debouncer struct {
	delay time.Duration
	run   func(ctx context.Context, conn *jsonrpc2.Conn, uri workspace.URI)

	mu      sync.Mutex
	timers  map[workspace.URI]*time.Timer
	running map[workspace.URI]bool
	pending map[workspace.URI]bool
}

func newDebouncer(delay time.Duration, run func(ctx context.Context, conn *jsonrpc2.Conn, uri workspace.URI)) *debouncer {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &debouncer{
		delay:   delay,
		run:     run,
		timers:  make(map[workspace.URI]*time.Timer),
		running: make(map[workspace.URI]bool),
		pending: make(map[workspace.URI]bool),
	}
}

// schedule resets uri's debounce timer. If an analysis for uri is already
// in flight, the new request is marked pending and re-fires as soon as the
// in-flight run completes, so edits arriving mid-analysis are never lost.
func (d *debouncer) schedule(ctx context.Context, conn *jsonrpc2.Conn, uri workspace.URI) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running[uri] {
		d.pending[uri] = true
		return
	}
	if t, ok := d.timers[uri]; ok {
		t.Stop()
	}
	d.timers[uri] = time.AfterFunc(d.delay, func() {
		d.fire(ctx, conn, uri)
	})
}

func (d *debouncer) fire(ctx context.Context, conn *jsonrpc2.Conn, uri workspace.URI) {
	d.mu.Lock()
	d.running[uri] = true
	delete(d.timers, uri)
	d.mu.Unlock()

	d.run(ctx, conn, uri)

	d.mu.Lock()
	d.running[uri] = false
	again := d.pending[uri]
	delete(d.pending, uri)
	d.mu.Unlock()

	if again {
		d.schedule(ctx, conn, uri)
	}
}

// publishDiagnostics computes and sends textDocument/publishDiagnostics for
// uri, plus every document reachable from it in the project graph,
// concurrently (semantic diagnostics like UnusedLabel/UndefinedCitation
// are project-wide, so a single edit can change diagnostics for every
// document sharing that project).
func (h *Handler) publishDiagnostics(ctx context.Context, conn *jsonrpc2.Conn, uri workspace.URI) {
	runID := uuid.NewString()
	snap := h.ws.Snapshot()
	doc := snap.Lookup(uri)
	if doc == nil {
		return
	}
	g := h.buildGraph(snap, doc)

	targets := []workspace.URI{uri}
	if g != nil {
		targets = g.Preorder()
	}

	perDoc, err := query.DiagnosticsForAll(ctx, snap, g, targets)
	if err != nil {
		logging.L().Sugar().Debugf("diagnostics run %s canceled: %v", runID, err)
		return
	}

	for i, t := range targets {
		td := snap.Lookup(t)
		if td == nil {
			continue
		}
		out := make([]Diagnostic, 0, len(perDoc[i]))
		for _, d := range perDoc[i] {
			out = append(out, Diagnostic{
				Range: toRange(td, d.Range), Severity: diagnosticSeverity(d.Severity),
				Code: d.Code, Source: "texlab", Message: d.Message,
			})
		}
		_ = conn.Notify(ctx, "textDocument/publishDiagnostics", PublishDiagnosticsParams{
			URI: string(t), Diagnostics: out,
		})
	}
}
