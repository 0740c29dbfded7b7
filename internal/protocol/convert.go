package protocol

import (
	"texlab/internal/commands"
	"texlab/internal/lineindex"
	"texlab/internal/query"
	"texlab/internal/workspace"
)

func toPosition(p lineindex.Position) Position {
	return Position{Line: p.Line, Character: p.Column}
}

func fromPosition(p Position) lineindex.Position {
	return lineindex.Position{Line: p.Line, Column: p.Character}
}

// offsetToPosition converts a byte offset within doc to an LSP Position.
// An offset past the end of doc clamps to the last known position rather
// than erroring, since a stale client request should degrade gracefully.
func offsetToPosition(doc *workspace.Document, offset uint32) Position {
	if pos, ok := doc.Lines.LineCol(offset); ok {
		return toPosition(pos)
	}
	pos, _ := doc.Lines.LineCol(uint32(len(doc.Text)))
	return toPosition(pos)
}

func positionToOffset(doc *workspace.Document, pos Position) (uint32, bool) {
	return doc.Lines.Offset(fromPosition(pos))
}

func toRange(doc *workspace.Document, span [2]uint32) Range {
	return Range{
		Start: offsetToPosition(doc, span[0]),
		End:   offsetToPosition(doc, span[1]),
	}
}

func toLocation(snap *workspace.Snapshot, uri workspace.URI, span [2]uint32) Location {
	doc := snap.Lookup(uri)
	if doc == nil {
		return Location{URI: string(uri)}
	}
	return Location{URI: string(uri), Range: toRange(doc, span)}
}

// completionItemKind maps this engine's ItemKind onto the LSP
// CompletionItemKind numeric taxonomy (spec §4.9's item kinds named in
// prose; the numbers come from the LSP spec itself).
func completionItemKind(k query.ItemKind) int {
	switch k {
	case query.ItemCommand:
		return 2 // Method
	case query.ItemEnvironment:
		return 7 // Class
	case query.ItemLabel, query.ItemCitation:
		return 18 // Reference
	case query.ItemEntryType:
		return 22 // Struct
	case query.ItemField:
		return 5 // Field
	case query.ItemInclude:
		return 17 // File
	case query.ItemColor, query.ItemColorModel:
		return 16 // Color
	case query.ItemSnippet:
		return 15 // Snippet
	default:
		return 12 // Value
	}
}

func symbolKind(k query.SymbolKind) int {
	switch k {
	case query.SymbolSection:
		return 15 // String (closest stand-in for a heading)
	case query.SymbolEnvironment:
		return 5 // Field
	case query.SymbolEquation:
		return 11 // Constant
	case query.SymbolBibEntry:
		return 23 // Event
	case query.SymbolBibString:
		return 13 // Variable
	default:
		return 1
	}
}

func diagnosticSeverity(s query.DiagnosticSeverity) int {
	if s == query.SeverityWarning {
		return 2
	}
	return 1
}

func highlightKind(k query.HighlightKind) int {
	if k == query.HighlightWrite {
		return 3
	}
	return 2
}

func toDocumentSymbols(doc *workspace.Document, syms []query.Symbol) []DocumentSymbol {
	out := make([]DocumentSymbol, 0, len(syms))
	for _, s := range syms {
		out = append(out, DocumentSymbol{
			Name:           s.Name,
			Kind:           symbolKind(s.Kind),
			Range:          toRange(doc, s.Range),
			SelectionRange: toRange(doc, s.Selection),
			Children:       toDocumentSymbols(doc, s.Children),
		})
	}
	return out
}

func toWorkspaceEdit(snap *workspace.Snapshot, edit query.WorkspaceEdit) WorkspaceEdit {
	out := WorkspaceEdit{Changes: make(map[string][]TextEdit, len(edit.Changes))}
	for uri, edits := range edit.Changes {
		doc := snap.Lookup(uri)
		if doc == nil {
			continue
		}
		wireEdits := make([]TextEdit, 0, len(edits))
		for _, e := range edits {
			wireEdits = append(wireEdits, TextEdit{Range: toRange(doc, e.Range), NewText: e.NewText})
		}
		out.Changes[string(uri)] = wireEdits
	}
	return out
}

func toFoldingRange(doc *workspace.Document, f query.FoldingRange) FoldingRange {
	start := offsetToPosition(doc, f.Range[0])
	end := offsetToPosition(doc, f.Range[1])
	kind := "region"
	if f.Kind == query.FoldSection {
		kind = ""
	}
	return FoldingRange{
		StartLine:      start.Line,
		StartCharacter: start.Character,
		EndLine:        end.Line,
		EndCharacter:   end.Character,
		Kind:           kind,
	}
}

func toEnvironmentMatches(doc *workspace.Document, matches []commands.EnvironmentMatch) []Location {
	out := make([]Location, 0, len(matches))
	for _, m := range matches {
		out = append(out, Location{URI: string(doc.URI), Range: toRange(doc, [2]uint32{m.FullRange.Start, m.FullRange.End})})
	}
	return out
}
