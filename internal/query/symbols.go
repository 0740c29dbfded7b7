package query

import (
	"texlab/internal/graph"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// SymbolKind loosely mirrors LSP's SymbolKind for the constructs this
// engine recognizes.
type SymbolKind int

const (
	SymbolSection SymbolKind = iota
	SymbolEnvironment
	SymbolEquation
	SymbolBibEntry
	SymbolBibString
)

// Symbol is one entry in a document's (or the workspace's) outline. Nested
// sections/environments appear as Children, matching the source's lexical
// nesting (spec §4.9: "document symbols hierarchically").
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Range    [2]uint32
	Selection [2]uint32
	Children []Symbol
}

// DocumentSymbols builds doc's outline as a tree.
func DocumentSymbols(doc *workspace.Document) []Symbol {
	if doc.Tex != nil {
		red := green.NewRoot(doc.Tex.Green)
		return buildTexSymbols(red, doc.Text)
	}
	if doc.Bib != nil {
		return buildBibSymbols(doc)
	}
	return nil
}

func buildTexSymbols(r *green.Red, text string) []Symbol {
	var out []Symbol
	for _, c := range r.Children() {
		n := c.Node()
		if n == nil {
			continue
		}
		switch n.Kind() {
		case latex.KindPart, latex.KindChapter, latex.KindSection, latex.KindSubsection,
			latex.KindSubsubsection, latex.KindParagraph, latex.KindSubparagraph:
			name := firstWordText(c)
			children := buildTexSymbols(c, text)
			out = append(out, Symbol{Name: name, Kind: SymbolSection, Range: [2]uint32{c.Start, c.End()}, Selection: selectionRange(c), Children: children})
		case latex.KindEnvironment:
			name := environmentName(c)
			children := buildTexSymbols(c, text)
			out = append(out, Symbol{Name: name, Kind: SymbolEnvironment, Range: [2]uint32{c.Start, c.End()}, Selection: selectionRange(c), Children: children})
		case latex.KindEquation:
			out = append(out, Symbol{Name: "equation", Kind: SymbolEquation, Range: [2]uint32{c.Start, c.End()}, Selection: selectionRange(c)})
		default:
			out = append(out, buildTexSymbols(c, text)...)
		}
	}
	return out
}

func selectionRange(r *green.Red) [2]uint32 {
	for _, t := range r.Tokens() {
		if t.Token().Kind() == latex.KindWord {
			return [2]uint32{t.Start, t.End()}
		}
	}
	return [2]uint32{r.Start, r.End()}
}

func firstWordText(r *green.Red) string {
	for _, t := range r.Tokens() {
		if t.Token().Kind() == latex.KindWord {
			return t.Token().Text()
		}
	}
	return ""
}

func environmentName(r *green.Red) string {
	for _, c := range r.Children() {
		if c.Node() != nil && c.Node().Kind() == latex.KindEnvironmentBegin {
			return firstWordText(c)
		}
	}
	return ""
}

func buildBibSymbols(doc *workspace.Document) []Symbol {
	var out []Symbol
	for _, e := range doc.Bib.Semantics.Entries {
		name := e.Name.Text(doc.Text)
		out = append(out, Symbol{
			Name: name, Kind: SymbolBibEntry,
			Range: [2]uint32{e.FullRange.Start, e.FullRange.End}, Selection: [2]uint32{e.Name.Start, e.Name.End},
		})
	}
	for _, s := range doc.Bib.Semantics.Strings {
		name := s.Name.Text(doc.Text)
		out = append(out, Symbol{
			Name: name, Kind: SymbolBibString,
			Range: [2]uint32{s.FullRange.Start, s.FullRange.End}, Selection: [2]uint32{s.Name.Start, s.Name.End},
		})
	}
	return out
}

// WorkspaceSymbolEntry attributes a Symbol to the document it belongs to,
// for the flattened cross-project listing.
type WorkspaceSymbolEntry struct {
	URI    workspace.URI
	Symbol Symbol
}

// WorkspaceSymbols flattens every open document's outline into one list,
// ordered by the project graph's topological (root-first, preorder)
// traversal so that a root document's own symbols precede those of the
// files it includes (spec §4.9: "ordered by project topology").
func WorkspaceSymbols(snap *workspace.Snapshot, g *graph.Graph) []WorkspaceSymbolEntry {
	var out []WorkspaceSymbolEntry
	for _, uri := range preorderOrAll(snap, g) {
		doc := snap.Lookup(uri)
		if doc == nil {
			continue
		}
		for _, s := range flatten(DocumentSymbols(doc)) {
			out = append(out, WorkspaceSymbolEntry{URI: uri, Symbol: s})
		}
	}
	return out
}

func flatten(syms []Symbol) []Symbol {
	var out []Symbol
	for _, s := range syms {
		flat := s
		flat.Children = nil
		out = append(out, flat)
		out = append(out, flatten(s.Children)...)
	}
	return out
}
