package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"texlab/internal/commands"
	"texlab/internal/config"
	"texlab/internal/distro"
	"texlab/internal/graph"
	"texlab/internal/ipcsock"
	"texlab/internal/lineindex"
	"texlab/internal/logging"
	"texlab/internal/query"
	"texlab/internal/watch"
	"texlab/internal/workspace"
)

// Handler dispatches LSP JSON-RPC requests onto the workspace and query
// engine. One Handler serves exactly one client connection.
type Handler struct {
	ws         *workspace.Workspace
	diag       *debouncer
	mu         sync.Mutex
	shutdown   bool
	configPath string

	watchers []*watch.Watcher
	ipc      *ipcsock.Server
}

// NewHandler builds a Handler with a fresh, empty workspace, detecting the
// local TeX distribution synchronously (spec §4.6: "build-once and
// shared read-only" — the scan happens once, here, before any document is
// opened).
func NewHandler(cfg *config.Config, configPath string) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	kind := distro.Detect()
	var files workspace.FileNameIndex
	if idx, err := distro.Build(distro.KpsewhichScanner{Patterns: []string{"*.cls", "*.sty", "*.bst"}}, 0); err == nil {
		files = idx
	} else {
		logging.BootError("distro scan failed, package/class hovers will be unavailable: %v", err)
	}
	h := &Handler{
		ws:         workspace.New(cfg, &workspace.Distro{Kind: kind, Files: files}),
		configPath: configPath,
	}
	h.diag = newDebouncer(cfg.DebounceDelay, h.publishDiagnostics)
	if configPath != "" {
		logging.Boot("loaded configuration from %s (distro: %s)", configPath, kind)
	} else {
		logging.Boot("no configuration file given, using defaults (distro: %s)", kind)
	}
	return h
}

// unmarshalParams decodes req's params into a T; absent params yield T's
// zero value.
func unmarshalParams[T any](req *jsonrpc2.Request) (T, error) {
	var v T
	if req.Params == nil {
		return v, nil
	}
	err := json.Unmarshal(*req.Params, &v)
	return v, err
}

// dispatch is wrapped as a jsonrpc2.HandlerWithError by Serve, which takes
// care of replying (including turning a returned *jsonrpc2.Error into the
// wire error response) and of not replying at all to notifications.
func (h *Handler) dispatch(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	switch req.Method {
	case "initialize":
		return h.initialize(ctx, conn, req)
	case "initialized":
		return nil, nil
	case "shutdown":
		h.mu.Lock()
		h.shutdown = true
		h.mu.Unlock()
		return nil, nil
	case "exit":
		h.mu.Lock()
		code := 0
		if !h.shutdown {
			code = 1
		}
		h.mu.Unlock()
		logging.Sync()
		os.Exit(code)
		return nil, nil

	case "textDocument/didOpen":
		return nil, h.didOpen(ctx, conn, req)
	case "textDocument/didChange":
		return nil, h.didChange(ctx, conn, req)
	case "textDocument/didClose":
		return nil, h.didClose(req)

	case "textDocument/completion":
		return h.completion(req)
	case "textDocument/definition":
		return h.definition(req)
	case "textDocument/hover":
		return h.hover(req)
	case "textDocument/references":
		return h.references(req)
	case "textDocument/documentHighlight":
		return h.highlight(req)
	case "textDocument/documentLink":
		return h.documentLink(req)
	case "textDocument/documentSymbol":
		return h.documentSymbol(req)
	case "workspace/symbol":
		return h.workspaceSymbol(req)
	case "textDocument/foldingRange":
		return h.foldingRange(req)
	case "textDocument/prepareRename":
		return h.prepareRename(req)
	case "textDocument/rename":
		return h.rename(req)
	case "textDocument/inlayHint":
		return h.inlayHint(req)
	case "workspace/executeCommand":
		return h.executeCommand(req)

	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)}
	}
}

func (h *Handler) initialize(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[InitializeParams](req)
	if err != nil {
		return nil, err
	}
	var folders []workspace.Folder
	for _, f := range params.WorkspaceFolders {
		folders = append(folders, workspace.Folder{URI: workspace.Normalize(f.URI), Name: f.Name})
	}
	if len(folders) == 0 && params.RootURI != nil {
		folders = append(folders, workspace.Folder{URI: workspace.Normalize(*params.RootURI)})
	}
	h.ws.SetFolders(folders)
	h.startWatchers(ctx, conn, folders)
	h.startInverseSearch(ctx, conn)

	return InitializeResult{Capabilities: ServerCapabilities{
		TextDocumentSync:   2, // Incremental
		CompletionProvider: map[string]any{"triggerCharacters": []string{"\\", "{", ","}},
		DefinitionProvider: true,
		HoverProvider:      true,
		ReferencesProvider: true,
		DocumentHighlightProvider: true,
		DocumentSymbolProvider:   true,
		WorkspaceSymbolProvider:  true,
		FoldingRangeProvider:     true,
		RenameProvider:           map[string]any{"prepareProvider": true},
		DocumentLinkProvider:     map[string]any{},
		InlayHintProvider:        true,
		ExecuteCommandProvider: map[string]any{"commands": []string{
			"texlab.findEnvironments", "texlab.changeEnvironment", "texlab.dependencyGraph", "texlab.clean", "texlab.cleanArtifacts",
		}},
	}}, nil
}

func (h *Handler) didOpen(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) error {
	params, err := unmarshalParams[DidOpenTextDocumentParams](req)
	if err != nil {
		return err
	}
	uri := workspace.Normalize(params.TextDocument.URI)
	lang, _ := workspace.LanguageFromPath(uri.String())
	doc := h.ws.Open(uri, params.TextDocument.Text, lang, workspace.OwnerClient, nil)
	h.diag.schedule(ctx, conn, doc.URI)
	return nil
}

func (h *Handler) didChange(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) error {
	params, err := unmarshalParams[DidChangeTextDocumentParams](req)
	if err != nil {
		return err
	}
	uri := workspace.Normalize(params.TextDocument.URI)
	edits := make([]workspace.TextEdit, 0, len(params.ContentChanges))
	for _, c := range params.ContentChanges {
		if c.Range == nil {
			// Full-document replacement: reopen at the existing language.
			snap := h.ws.Snapshot()
			lang := workspace.LanguageTex
			if old := snap.Lookup(uri); old != nil {
				lang = old.Language
			}
			h.ws.Open(uri, c.Text, lang, workspace.OwnerClient, nil)
			h.diag.schedule(ctx, conn, uri)
			return nil
		}
		edits = append(edits, workspace.TextEdit{
			StartLine: c.Range.Start.Line, StartCol: c.Range.Start.Character,
			EndLine: c.Range.End.Line, EndCol: c.Range.End.Character,
			NewText: c.Text,
		})
	}
	if _, err := h.ws.Edit(uri, edits, workspace.OwnerClient); err != nil {
		return err
	}
	h.diag.schedule(ctx, conn, uri)
	return nil
}

func (h *Handler) didClose(req *jsonrpc2.Request) error {
	params, err := unmarshalParams[DidCloseTextDocumentParams](req)
	if err != nil {
		return err
	}
	uri := workspace.Normalize(params.TextDocument.URI)
	h.ws.Close(uri)
	snap := h.ws.Snapshot()
	if doc := snap.Lookup(uri); doc != nil {
		g := h.buildGraph(snap, doc)
		keep := map[workspace.URI]struct{}{}
		if g != nil {
			for _, u := range g.Preorder() {
				keep[u] = struct{}{}
			}
		}
		snap.Iter(func(d *workspace.Document) {
			if d.Owner == workspace.OwnerClient {
				keep[d.URI] = struct{}{}
			}
		})
		h.ws.Prune(keep)
	}
	return nil
}

// buildGraph resolves doc's project root and builds the graph rooted
// there, falling back to a single-document graph rooted at doc itself if
// no marker file or root-seeking ancestor is found (spec §4.7).
func (h *Handler) buildGraph(snap *workspace.Snapshot, doc *workspace.Document) *graph.Graph {
	root := graph.FindRoot(doc, snap.Config, fileExists)
	if root != "" && root != doc.Path {
		rootURI := workspace.Normalize("file://" + root)
		if rootDoc := snap.Lookup(rootURI); rootDoc != nil {
			return graph.Build(snap, rootDoc)
		}
	}
	return graph.Build(snap, doc)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// startWatchers starts a file watcher (spec §5) over every workspace folder
// reported by initialize, so build artifacts an editor never opens (.log,
// .aux, .fls) still make it into the workspace once a compile writes them.
func (h *Handler) startWatchers(ctx context.Context, conn *jsonrpc2.Conn, folders []workspace.Folder) {
	for _, folder := range folders {
		dir := workspace.PathFromURI(folder.URI)
		if dir == "" {
			continue
		}
		w, err := watch.New(func(ev watch.Event) { h.handleFileEvent(ctx, conn, ev) }, 0)
		if err != nil {
			logging.L().Sugar().Debugf("watch: failed to start watcher for %s: %v", dir, err)
			continue
		}
		if err := w.Add(dir); err != nil {
			logging.L().Sugar().Debugf("watch: failed to add %s: %v", dir, err)
			continue
		}
		w.Start(ctx)
		h.mu.Lock()
		h.watchers = append(h.watchers, w)
		h.mu.Unlock()
	}
}

func (h *Handler) closeWatchers() {
	h.mu.Lock()
	watchers := h.watchers
	h.watchers = nil
	ipc := h.ipc
	h.ipc = nil
	h.mu.Unlock()
	for _, w := range watchers {
		_ = w.Close()
	}
	if ipc != nil {
		_ = ipc.Close()
	}
}

// startInverseSearch opens the texlab.sock IPC channel (spec §6) a PDF
// viewer's "jump to source" action writes to, relaying each request to the
// client as window/showDocument. Failing to bind the socket (e.g. a stale
// one left by a process that still holds it) is logged, not fatal: the LSP
// server is fully usable without inverse search.
func (h *Handler) startInverseSearch(ctx context.Context, conn *jsonrpc2.Conn) {
	srv, err := ipcsock.Listen(ipcsock.DefaultPath())
	if err != nil {
		logging.L().Sugar().Debugf("ipcsock: inverse search unavailable: %v", err)
		return
	}
	h.mu.Lock()
	h.ipc = srv
	h.mu.Unlock()
	srv.Serve(ctx, func(req ipcsock.Request) {
		uri := workspace.Normalize("file://" + req.Path)
		line := uint32(0)
		if req.Line > 0 {
			line = uint32(req.Line - 1)
		}
		col := uint32(0)
		if req.Column > 0 {
			col = uint32(req.Column - 1)
		}
		sel := Range{Start: Position{Line: line, Character: col}, End: Position{Line: line, Character: col}}
		_ = conn.Notify(ctx, "window/showDocument", ShowDocumentParams{URI: string(uri), TakeFocus: true, Selection: &sel})
	})
}

// handleFileEvent reacts to a settled filesystem change under a workspace
// folder. Only build artifacts are auto-loaded: source files are expected
// to flow through didOpen/didChange, and reading them off disk behind the
// editor's back would risk clobbering unsaved changes it owns.
func (h *Handler) handleFileEvent(ctx context.Context, conn *jsonrpc2.Conn, ev watch.Event) {
	uri := workspace.Normalize("file://" + ev.Path)
	lang, ok := workspace.LanguageFromPath(ev.Path)
	if !ok || (lang != workspace.LanguageLog && lang != workspace.LanguageAux && lang != workspace.LanguageFileList) {
		return
	}
	if ev.Kind == watch.EventRemove {
		return
	}
	raw, err := os.ReadFile(ev.Path)
	if err != nil {
		return
	}
	text, err := lineindex.DecodeSource(raw)
	if err != nil {
		return
	}
	h.ws.Open(uri, text, lang, workspace.OwnerServer, nil)

	snap := h.ws.Snapshot()
	snap.Iter(func(d *workspace.Document) {
		if d.Owner == workspace.OwnerClient {
			h.diag.schedule(ctx, conn, d.URI)
		}
	})
}

func (h *Handler) lookup(uriStr string) (*workspace.Snapshot, *workspace.Document, error) {
	snap := h.ws.Snapshot()
	uri := workspace.Normalize(uriStr)
	doc := snap.Lookup(uri)
	if doc == nil {
		return snap, nil, workspace.ErrNotFound
	}
	return snap, doc, nil
}

func (h *Handler) completion(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[TextDocumentPositionParams](req)
	if err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, params.Position)
	g := h.buildGraph(snap, doc)
	ctx := query.CompletionContext{
		Snapshot: snap, Document: doc, Graph: g, Offset: offset,
		Prefix: query.WordBefore(doc.Text, offset),
	}
	items := query.Complete(ctx, query.NewMatcher(query.MatcherKind(snap.Config.Matcher)))
	out := make([]CompletionItem, 0, len(items))
	for _, it := range items {
		out = append(out, CompletionItem{
			Label: it.Label, Kind: completionItemKind(it.Kind),
			Preselect: it.Preselect, InsertText: it.InsertText,
		})
	}
	return out, nil
}

func (h *Handler) definition(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[TextDocumentPositionParams](req)
	if err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, params.Position)
	g := h.buildGraph(snap, doc)
	targets := query.Definition(snap, g, doc, offset)
	out := make([]Location, 0, len(targets))
	for _, t := range targets {
		out = append(out, toLocation(snap, t.TargetURI, t.TargetRange))
	}
	return out, nil
}

func (h *Handler) hover(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[TextDocumentPositionParams](req)
	if err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, params.Position)
	g := h.buildGraph(snap, doc)
	result, ok := query.HoverAt(snap, g, doc, offset)
	if !ok {
		return nil, nil
	}
	rng := toRange(doc, result.Range)
	return Hover{Contents: MarkupContent{Kind: "markdown", Value: result.Content}, Range: &rng}, nil
}

func (h *Handler) references(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[ReferenceParams](req)
	if err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, params.Position)
	g := h.buildGraph(snap, doc)
	occs := query.References(snap, g, doc, offset, params.Context.IncludeDeclaration)
	out := make([]Location, 0, len(occs))
	for _, o := range occs {
		out = append(out, toLocation(snap, o.URI, o.Range))
	}
	return out, nil
}

func (h *Handler) highlight(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[TextDocumentPositionParams](req)
	if err != nil {
		return nil, err
	}
	_, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, params.Position)
	hs := query.Highlights(doc, offset)
	out := make([]DocumentHighlight, 0, len(hs))
	for _, hl := range hs {
		out = append(out, DocumentHighlight{Range: toRange(doc, hl.Range), Kind: highlightKind(hl.Kind)})
	}
	return out, nil
}

func (h *Handler) documentLink(req *jsonrpc2.Request) (any, error) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	links := query.DocumentLinks(snap, doc)
	out := make([]DocumentLink, 0, len(links))
	for _, l := range links {
		out = append(out, DocumentLink{Range: toRange(doc, l.OriginRange), Target: string(l.TargetURI)})
	}
	return out, nil
}

func (h *Handler) documentSymbol(req *jsonrpc2.Request) (any, error) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	_, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	syms := query.DocumentSymbols(doc)
	return toDocumentSymbols(doc, syms), nil
}

func (h *Handler) workspaceSymbol(req *jsonrpc2.Request) (any, error) {
	snap := h.ws.Snapshot()
	var g *graph.Graph
	snap.Iter(func(d *workspace.Document) {
		if g == nil && d.Tex != nil && d.Tex.Semantics.CanBeRoot {
			g = h.buildGraph(snap, d)
		}
	})
	entries := query.WorkspaceSymbols(snap, g)
	out := make([]WorkspaceSymbol, 0, len(entries))
	for _, e := range entries {
		doc := snap.Lookup(e.URI)
		if doc == nil {
			continue
		}
		out = append(out, WorkspaceSymbol{
			Name: e.Symbol.Name, Kind: symbolKind(e.Symbol.Kind),
			Location: Location{URI: string(e.URI), Range: toRange(doc, e.Symbol.Range)},
		})
	}
	return out, nil
}

func (h *Handler) foldingRange(req *jsonrpc2.Request) (any, error) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	_, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	folds := query.Folding(doc)
	out := make([]FoldingRange, 0, len(folds))
	for _, f := range folds {
		out = append(out, toFoldingRange(doc, f))
	}
	return out, nil
}

func (h *Handler) prepareRename(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[TextDocumentPositionParams](req)
	if err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, params.Position)
	g := h.buildGraph(snap, doc)
	target, ok := query.PrepareRename(snap, g, doc, offset)
	if !ok {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "position is not a renameable symbol"}
	}
	return PrepareRenameResult{Range: toRange(doc, target.Range), Placeholder: target.Placeholder}, nil
}

func (h *Handler) rename(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[RenameParams](req)
	if err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, params.Position)
	g := h.buildGraph(snap, doc)
	edit, ok := query.Rename(snap, g, doc, offset, params.NewName)
	if !ok {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "position is not a renameable symbol"}
	}
	return toWorkspaceEdit(snap, edit), nil
}

func (h *Handler) inlayHint(req *jsonrpc2.Request) (any, error) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Range        Range                  `json:"range"`
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, err
	}
	snap, doc, err := h.lookup(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	start, _ := positionToOffset(doc, params.Range.Start)
	end, _ := positionToOffset(doc, params.Range.End)
	g := h.buildGraph(snap, doc)
	hints := query.InlayHints(snap, g, doc, start, end)
	out := make([]InlayHint, 0, len(hints))
	for _, hnt := range hints {
		out = append(out, InlayHint{Position: offsetToPosition(doc, hnt.Position), Label: hnt.Label})
	}
	return out, nil
}

func (h *Handler) executeCommand(req *jsonrpc2.Request) (any, error) {
	params, err := unmarshalParams[ExecuteCommandParams](req)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logging.L().Sugar().Debugf("executeCommand[%s] %s", runID, params.Command)

	argURI, argPos := commandArgs(params.Arguments)
	snap, doc, err := h.lookup(argURI)
	if err != nil {
		return nil, err
	}
	offset, _ := positionToOffset(doc, argPos)

	switch params.Command {
	case "texlab.findEnvironments":
		matches := commands.FindEnvironments(doc, offset)
		return toEnvironmentMatches(doc, matches), nil
	case "texlab.changeEnvironment":
		name, _ := params.Arguments[0]["newName"].(string)
		result, ok := commands.ChangeEnvironment(doc, offset, name)
		if !ok {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "cursor is not inside a well-formed environment"}
		}
		return WorkspaceEdit{Changes: map[string][]TextEdit{
			string(doc.URI): {
				{Range: toRange(doc, [2]uint32{result.BeginRange.Start, result.BeginRange.End}), NewText: result.NewName},
				{Range: toRange(doc, [2]uint32{result.EndRange.Start, result.EndRange.End}), NewText: result.NewName},
			},
		}}, nil
	case "texlab.dependencyGraph":
		g := h.buildGraph(snap, doc)
		return commands.DependencyGraph(snap, g), nil
	case "texlab.clean", "texlab.cleanArtifacts":
		target := commands.CleanAuxiliary
		if params.Command == "texlab.cleanArtifacts" {
			target = commands.CleanArtifacts
		}
		cmd, err := commands.NewCleanCommand(doc, snap.Config, fileExists, target)
		if err != nil {
			return nil, err
		}
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
		return nil, nil
	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("unknown command: %s", params.Command)}
	}
}

func commandArgs(args []map[string]any) (string, Position) {
	if len(args) == 0 {
		return "", Position{}
	}
	uri, _ := args[0]["uri"].(string)
	pos := Position{}
	if p, ok := args[0]["position"].(map[string]any); ok {
		if l, ok := p["line"].(float64); ok {
			pos.Line = uint32(l)
		}
		if c, ok := p["character"].(float64); ok {
			pos.Character = uint32(c)
		}
	}
	return uri, pos
}
