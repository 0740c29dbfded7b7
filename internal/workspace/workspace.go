package workspace

import (
	"errors"
	"sync"

	"texlab/internal/config"
	"texlab/internal/distro"
	"texlab/internal/lineindex"
)

// ErrNotFound is returned by Lookup for a URI with no open document.
var ErrNotFound = errors.New("workspace: document not found")

// FileNameIndex looks up an absolute path for a bare resource name (e.g.
// "article.cls"), as provided by a concrete distro scanner.
type FileNameIndex interface {
	Resolve(name string) (path string, ok bool)
}

// Distro is the build-once, read-only shared resource described in spec §5:
// a file-name database used to resolve \usepackage{...} and similar names
// that aren't workspace-relative paths.
type Distro struct {
	Kind  distro.Kind
	Files FileNameIndex
}

// Folder is one workspace root folder (an LSP workspaceFolder).
type Folder struct {
	URI  URI
	Name string
}

// Snapshot is an immutable, cheaply-cloned view of the workspace's
// documents at a point in time (spec §5: "each takes a cheap snapshot,
// structurally shared because Documents are immutable"). Readers operate
// exclusively on Snapshots; only the Workspace's single writer thread
// produces new ones.
type Snapshot struct {
	documents map[URI]*Document
	Config    *config.Config
	Distro    *Distro
	Folders   []Folder
}

// Lookup returns the document at uri, or nil if not open.
func (s *Snapshot) Lookup(uri URI) *Document {
	return s.documents[uri]
}

// Iter calls fn for every open document. There is no early-exit protocol,
// since every caller so far wants the full set.
func (s *Snapshot) Iter(fn func(*Document)) {
	for _, d := range s.documents {
		fn(d)
	}
}

// Len reports how many documents are open.
func (s *Snapshot) Len() int { return len(s.documents) }

// clone returns a shallow copy of the document map: an O(n) pointer copy,
// not a deep copy of any Document (Documents are immutable, so sharing
// pointers across snapshots is always safe).
func (s *Snapshot) clone() map[URI]*Document {
	out := make(map[URI]*Document, len(s.documents)+1)
	for k, v := range s.documents {
		out[k] = v
	}
	return out
}

// Workspace is the process-wide, single-writer document store (spec §4.5,
// §5). All mutation goes through Open/Edit/Close/Prune/SetFolders, each of which publishes a
// brand-new Snapshot atomically so that no reader ever observes a
// half-updated document.
type Workspace struct {
	mu   sync.Mutex // serializes writers only; readers never take it
	cur  atomicSnapshot
}

// atomicSnapshot is a tiny swap-on-write box around *Snapshot, standing in
// for sync/atomic.Pointer[Snapshot] but spelled out so the "writer swaps the
// root pointer atomically" design note (spec §9) is visible at the call
// site rather than hidden behind a generic.
type atomicSnapshot struct {
	mu sync.RWMutex
	p  *Snapshot
}

func (a *atomicSnapshot) load() *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.p
}

func (a *atomicSnapshot) store(s *Snapshot) {
	a.mu.Lock()
	a.p = s
	a.mu.Unlock()
}

// New creates an empty Workspace with the given configuration and distro.
func New(cfg *config.Config, d *Distro) *Workspace {
	w := &Workspace{}
	w.cur.store(&Snapshot{documents: map[URI]*Document{}, Config: cfg, Distro: d})
	return w
}

// Snapshot returns the current immutable snapshot. Safe to call from any
// goroutine without coordinating with the writer (spec §5).
func (w *Workspace) Snapshot() *Snapshot { return w.cur.load() }

// SetFolders replaces the workspace folder list.
func (w *Workspace) SetFolders(folders []Folder) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.cur.load()
	next := &Snapshot{documents: prev.documents, Config: prev.Config, Distro: prev.Distro, Folders: folders}
	w.cur.store(next)
}

// Open inserts or replaces a document (spec §4.5). The URI is normalized by
// the caller (callers should pass an already-Normalize'd URI; Open does not
// re-normalize so that callers control exactly one normalization point).
func (w *Workspace) Open(uri URI, text string, lang Language, owner Owner, cursor *lineindex.Position) *Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc := NewDocument(uri, text, lang, owner)
	if cursor != nil {
		line, col := cursor.Line, cursor.Column
		doc.CursorLine, doc.CursorCol = &line, &col
	}
	prev := w.cur.load()
	docs := prev.clone()
	docs[uri] = doc
	w.cur.store(&Snapshot{documents: docs, Config: prev.Config, Distro: prev.Distro, Folders: prev.Folders})
	return doc
}

// TextEdit is one LSP-style range replacement, applied in document order
// (spec §4.5). Positions are UTF-16, matching lineindex.Position.
type TextEdit struct {
	StartLine, StartCol uint32
	EndLine, EndCol     uint32
	NewText             string
}

// Edit applies a sequence of range edits to the document at uri and
// publishes the reparsed snapshot (spec §4.5). Edits are applied in the
// order given; each is resolved against the text produced by the previous
// edit, matching the LSP incremental-change contract. Returns ErrNotFound if
// uri has no open document.
func (w *Workspace) Edit(uri URI, edits []TextEdit, owner Owner) (*Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.cur.load()
	old := prev.documents[uri]
	if old == nil {
		return nil, ErrNotFound
	}
	text := old.Text
	for _, e := range edits {
		text = applyEdit(text, old.Lines, e)
		// Re-index after each edit so multi-edit batches resolve
		// subsequent positions against the post-edit text, as LSP requires.
		old = &Document{Lines: lineindex.New(text)}
	}
	doc := NewDocument(uri, text, prev.documents[uri].Language, owner)
	docs := prev.clone()
	docs[uri] = doc
	w.cur.store(&Snapshot{documents: docs, Config: prev.Config, Distro: prev.Distro, Folders: prev.Folders})
	return doc, nil
}

func applyEdit(text string, lines *lineindex.Index, e TextEdit) string {
	start, ok1 := lines.Offset(lineindexPosition(e.StartLine, e.StartCol))
	end, ok2 := lines.Offset(lineindexPosition(e.EndLine, e.EndCol))
	if !ok1 || !ok2 || start > end || int(end) > len(text) {
		return text
	}
	return text[:start] + e.NewText + text[end:]
}

func lineindexPosition(line, col uint32) lineindex.Position {
	return lineindex.Position{Line: line, Column: col}
}

// Close marks a document's owner as Server and retains it only if some
// document in the snapshot still references it structurally; since
// reference-counting against the project graph requires the graph builder
// (internal/graph), Close here performs the owner transition and leaves
// retention-vs-removal to the caller, which calls Prune after recomputing
// which documents remain reachable (spec §4.5: "retain only if still
// referenced by some graph").
func (w *Workspace) Close(uri URI) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.cur.load()
	old := prev.documents[uri]
	if old == nil {
		return
	}
	docs := prev.clone()
	doc := *old
	doc.Owner = OwnerServer
	docs[uri] = &doc
	w.cur.store(&Snapshot{documents: docs, Config: prev.Config, Distro: prev.Distro, Folders: prev.Folders})
}

// Prune removes every Server/Distro-owned document not in keep, used after
// closing a document once the caller has recomputed reachability via the
// project graph.
func (w *Workspace) Prune(keep map[URI]struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.cur.load()
	docs := prev.clone()
	for uri, d := range docs {
		if d.Owner == OwnerClient {
			continue
		}
		if _, ok := keep[uri]; !ok {
			delete(docs, uri)
		}
	}
	w.cur.store(&Snapshot{documents: docs, Config: prev.Config, Distro: prev.Distro, Folders: prev.Folders})
}
