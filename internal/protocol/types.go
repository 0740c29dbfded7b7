// Package protocol implements the LSP JSON-RPC 2.0 transport: wire types,
// request dispatch, and position/offset conversion, wrapping the query
// engine (internal/query) and commands (internal/commands) for an editor
// client (spec §1, §6).
package protocol

// Position is zero-based line/character, in UTF-16 code units, matching
// the LSP wire format (mirrors lineindex.Position).
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open [Start, End) span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location names a range within a specific document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// TextDocumentIdentifier names an open document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// VersionedTextDocumentIdentifier adds the version LSP uses to detect
// stale edits.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentItem is the full content of a document as sent by didOpen.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// TextDocumentContentChangeEvent is one didChange edit. Range is nil for a
// full-document replacement.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// TextDocumentPositionParams is the common shape shared by hover,
// definition, references, and similar cursor-anchored requests.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// DidOpenTextDocumentParams is textDocument/didOpen's payload.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams is textDocument/didChange's payload. Each
// change either replaces the whole document (Range unset) or one range of
// it, matching the incremental sync that initialize advertises.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is textDocument/didClose's payload.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// ReferenceContext carries the includeDeclaration flag.
type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

// ReferenceParams is textDocument/references' payload.
type ReferenceParams struct {
	TextDocumentPositionParams
	Context ReferenceContext `json:"context"`
}

// RenameParams is textDocument/rename's payload.
type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
}

// CompletionItem is one wire completion candidate.
type CompletionItem struct {
	Label      string `json:"label"`
	Kind       int    `json:"kind,omitempty"`
	Preselect  bool   `json:"preselect,omitempty"`
	SortText   string `json:"sortText,omitempty"`
	InsertText string `json:"insertText,omitempty"`
}

// MarkupContent is the wire shape for hover/documentation text.
type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Hover is textDocument/hover's result.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// Diagnostic is one wire diagnostic, published unsolicited via
// textDocument/publishDiagnostics.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Code     string `json:"code,omitempty"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

// PublishDiagnosticsParams is the publishDiagnostics notification payload.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// DocumentHighlight is one same-document occurrence result.
type DocumentHighlight struct {
	Range Range `json:"range"`
	Kind  int   `json:"kind,omitempty"`
}

// FoldingRange is one collapsible-region result, expressed in whole lines
// as the LSP wire format requires.
type FoldingRange struct {
	StartLine      uint32 `json:"startLine"`
	StartCharacter uint32 `json:"startCharacter,omitempty"`
	EndLine        uint32 `json:"endLine"`
	EndCharacter   uint32 `json:"endCharacter,omitempty"`
	Kind           string `json:"kind,omitempty"`
}

// DocumentSymbol is one entry of a hierarchical document outline.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// WorkspaceSymbol is one workspace/symbol result, a symbol plus the
// document it lives in.
type WorkspaceSymbol struct {
	Name     string   `json:"name"`
	Kind     int      `json:"kind"`
	Location Location `json:"location"`
}

// InlayHint is one rendered inline annotation.
type InlayHint struct {
	Position Position `json:"position"`
	Label    string   `json:"label"`
}

// DocumentLink is one textDocument/documentLink result: a clickable span
// within a document whose Target navigates to another document (spec
// §4.9, §8 scenario 1).
type DocumentLink struct {
	Range  Range  `json:"range"`
	Target string `json:"target,omitempty"`
}

// TextEdit is one replacement within a single document.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdit maps each affected document URI to the edits it needs.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// PrepareRenameResult is prepareRename's success result.
type PrepareRenameResult struct {
	Range       Range  `json:"range"`
	Placeholder string `json:"placeholder"`
}

// ExecuteCommandParams is workspace/executeCommand's payload, used for the
// commands this engine exposes outside the fixed LSP method set
// (find-environments, change-environment, dependency-graph, clean).
type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []map[string]any `json:"arguments"`
}

// WorkspaceFolder mirrors the LSP shape of one root folder.
type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// InitializeParams is initialize's payload. Only the fields this engine
// actually reads are modeled.
type InitializeParams struct {
	RootURI          *string           `json:"rootUri"`
	WorkspaceFolders  []WorkspaceFolder `json:"workspaceFolders"`
}

// ShowDocumentParams asks the client to open a document and optionally
// select a range within it — how an inverse-search click from a PDF
// viewer (spec §6) gets relayed back into the editor.
type ShowDocumentParams struct {
	URI       string `json:"uri"`
	TakeFocus bool   `json:"takeFocus,omitempty"`
	Selection *Range `json:"selection,omitempty"`
}

// ServerCapabilities is what initialize advertises back to the client.
type ServerCapabilities struct {
	TextDocumentSync         int                    `json:"textDocumentSync"`
	CompletionProvider       map[string]any `json:"completionProvider,omitempty"`
	DefinitionProvider       bool                   `json:"definitionProvider,omitempty"`
	HoverProvider            bool                   `json:"hoverProvider,omitempty"`
	ReferencesProvider       bool                   `json:"referencesProvider,omitempty"`
	DocumentHighlightProvider bool                  `json:"documentHighlightProvider,omitempty"`
	DocumentSymbolProvider   bool                   `json:"documentSymbolProvider,omitempty"`
	WorkspaceSymbolProvider  bool                   `json:"workspaceSymbolProvider,omitempty"`
	FoldingRangeProvider     bool                   `json:"foldingRangeProvider,omitempty"`
	RenameProvider           map[string]any `json:"renameProvider,omitempty"`
	DocumentLinkProvider     map[string]any `json:"documentLinkProvider,omitempty"`
	InlayHintProvider        bool                   `json:"inlayHintProvider,omitempty"`
	ExecuteCommandProvider   map[string]any `json:"executeCommandProvider,omitempty"`
}

// InitializeResult is initialize's result.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}
