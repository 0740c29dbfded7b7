package query

import (
	"strings"

	"texlab/internal/graph"
	"texlab/internal/syntax/bibtex"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// RenameTarget is the result of the prepare phase: the token range that
// would be renamed, and the text to preselect in the client's rename box
// (spec §4.9: "prepare returns the rename token range if renameable").
type RenameTarget struct {
	Range       [2]uint32
	Placeholder string
}

// TextRangeEdit is one document-local edit produced by Rename.
type TextRangeEdit struct {
	Range   [2]uint32
	NewText string
}

// WorkspaceEdit maps each affected document to the edits it needs, all
// expressed against that document's own offsets (spec §4.9: "rename
// returns per-document edit lists").
type WorkspaceEdit struct {
	Changes map[workspace.URI][]TextRangeEdit
}

// PrepareRename reports whether offset within doc sits on a renameable
// construct, and if so the range a client should let the user edit.
func PrepareRename(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (RenameTarget, bool) {
	name, rng, ok := renameSubject(snap, doc, offset)
	if !ok {
		return RenameTarget{}, false
	}
	return RenameTarget{Range: rng, Placeholder: name}, true
}

// Rename computes the edits needed to rename the construct at offset to
// newName across every affected document. Renaming a command renames every
// same-named command in the project; renaming a label renames its
// definition and every \ref/\eqref that names it; renaming a citation key
// or BibTeX entry key renames both the @entry{key,...} declaration and
// every \cite-family use, regardless of which file the cursor started in
// (spec §4.9: "cross-format"); renaming a @string name renames its
// definition and every reference to it within the same file. Applying the
// returned edits twice in a row is a no-op because the second call's
// subject text already equals newName, so every match's replacement text
// equals its current text.
func Rename(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32, newName string) (WorkspaceEdit, bool) {
	if doc.Tex != nil {
		red := green.NewRoot(doc.Tex.Green)

		if tok := red.FindToken(offset); tok != nil && tok.Token().Kind() == latex.KindCommandName {
			return renameCommand(snap, g, tok.Token().Text(), newName), true
		}
		if node := red.FindNode(offset, latex.KindLabelDefinition); node != nil {
			return renameLabel(snap, g, wordText(node), newName), true
		}
		if node := red.FindNode(offset, latex.KindLabelReference); node != nil {
			return renameLabel(snap, g, wordText(node), newName), true
		}
		if node := red.FindNode(offset, latex.KindLabelReferenceRange); node != nil {
			return renameLabel(snap, g, wordText(node), newName), true
		}
		if node := red.FindNode(offset, latex.KindCitation); node != nil {
			return renameCitation(snap, g, wordText(node), newName), true
		}
		return WorkspaceEdit{}, false
	}

	if doc.Bib != nil {
		red := green.NewRoot(doc.Bib.Green)
		tok := red.FindToken(offset)
		if tok == nil {
			return WorkspaceEdit{}, false
		}
		switch tok.Token().Kind() {
		case bibtex.KindName:
			if node := tok.Ancestors(); containsKind(node, bibtex.KindStringDef) {
				return renameBibString(snap, doc, tok.Token().Text(), newName), true
			}
			return renameCitation(snap, g, tok.Token().Text(), newName), true
		case bibtex.KindWord, bibtex.KindInteger:
			if isEntryKey(red, offset) {
				return renameCitation(snap, g, tok.Token().Text(), newName), true
			}
		}
	}
	return WorkspaceEdit{}, false
}

func containsKind(ancestors []*green.Red, k green.Kind) bool {
	for _, a := range ancestors {
		if a.Node() != nil && a.Node().Kind() == k {
			return true
		}
	}
	return false
}

func isEntryKey(red *green.Red, offset uint32) bool {
	return red.FindNode(offset, bibtex.KindEntry) != nil
}

func renameSubject(snap *workspace.Snapshot, doc *workspace.Document, offset uint32) (string, [2]uint32, bool) {
	if doc.Tex != nil {
		red := green.NewRoot(doc.Tex.Green)
		if tok := red.FindToken(offset); tok != nil && tok.Token().Kind() == latex.KindCommandName {
			return tok.Token().Text(), [2]uint32{tok.Start, tok.End()}, true
		}
		for _, kind := range []green.Kind{latex.KindLabelDefinition, latex.KindLabelReference, latex.KindLabelReferenceRange, latex.KindCitation} {
			if node := red.FindNode(offset, kind); node != nil {
				if tok := findWordToken(node); tok != nil {
					return tok.Token().Text(), [2]uint32{tok.Start, tok.End()}, true
				}
			}
		}
		return "", [2]uint32{}, false
	}
	if doc.Bib != nil {
		red := green.NewRoot(doc.Bib.Green)
		tok := red.FindToken(offset)
		if tok == nil {
			return "", [2]uint32{}, false
		}
		switch tok.Token().Kind() {
		case bibtex.KindName, bibtex.KindWord, bibtex.KindInteger:
			return tok.Token().Text(), [2]uint32{tok.Start, tok.End()}, true
		}
	}
	return "", [2]uint32{}, false
}

func findWordToken(n *green.Red) *green.Red {
	for _, c := range n.Tokens() {
		if c.Token().Kind() == latex.KindWord {
			return c
		}
	}
	return nil
}

func renameCommand(snap *workspace.Snapshot, g *graph.Graph, fullToken, newName string) WorkspaceEdit {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(fullToken, `\`), "*")
	newText := `\` + newName
	edit := WorkspaceEdit{Changes: map[workspace.URI][]TextRangeEdit{}}
	for _, uri := range preorderOrAll(snap, g) {
		d := snap.Lookup(uri)
		if d == nil || d.Tex == nil {
			continue
		}
		red := green.NewRoot(d.Tex.Green)
		for _, tok := range red.Tokens() {
			if tok.Token().Kind() != latex.KindCommandName {
				continue
			}
			text := tok.Token().Text()
			if strings.TrimSuffix(strings.TrimPrefix(text, `\`), "*") != trimmed {
				continue
			}
			suffix := newText
			if strings.HasSuffix(text, "*") {
				suffix += "*"
			}
			addEdit(&edit, uri, [2]uint32{tok.Start, tok.End()}, suffix)
		}
	}
	return edit
}

func renameLabel(snap *workspace.Snapshot, g *graph.Graph, name, newName string) WorkspaceEdit {
	edit := WorkspaceEdit{Changes: map[workspace.URI][]TextRangeEdit{}}
	for _, uri := range preorderOrAll(snap, g) {
		d := snap.Lookup(uri)
		if d == nil || d.Tex == nil {
			continue
		}
		for _, l := range d.Tex.Semantics.Labels {
			if l.Name.Text(d.Text) == name {
				addEdit(&edit, uri, [2]uint32{l.Name.Start, l.Name.End}, newName)
			}
		}
	}
	return edit
}

func renameCitation(snap *workspace.Snapshot, g *graph.Graph, name, newName string) WorkspaceEdit {
	edit := WorkspaceEdit{Changes: map[workspace.URI][]TextRangeEdit{}}
	for _, uri := range preorderOrAll(snap, g) {
		d := snap.Lookup(uri)
		if d == nil {
			continue
		}
		if d.Bib != nil {
			for _, e := range d.Bib.Semantics.Entries {
				if e.Name.Text(d.Text) == name {
					addEdit(&edit, uri, [2]uint32{e.Name.Start, e.Name.End}, newName)
				}
			}
		}
		if d.Tex != nil {
			for _, c := range d.Tex.Semantics.Citations {
				if c.Name.Text(d.Text) == name {
					addEdit(&edit, uri, [2]uint32{c.Name.Start, c.Name.End}, newName)
				}
			}
		}
	}
	return edit
}

func renameBibString(snap *workspace.Snapshot, doc *workspace.Document, name, newName string) WorkspaceEdit {
	edit := WorkspaceEdit{Changes: map[workspace.URI][]TextRangeEdit{}}
	red := green.NewRoot(doc.Bib.Green)
	for _, s := range doc.Bib.Semantics.Strings {
		if s.Name.Text(doc.Text) == name {
			addEdit(&edit, doc.URI, [2]uint32{s.Name.Start, s.Name.End}, newName)
		}
	}
	for _, tok := range red.Tokens() {
		if tok.Token().Kind() == bibtex.KindName && tok.Token().Text() == name {
			addEdit(&edit, doc.URI, [2]uint32{tok.Start, tok.End()}, newName)
		}
	}
	return edit
}

func addEdit(edit *WorkspaceEdit, uri workspace.URI, rng [2]uint32, newText string) {
	for _, e := range edit.Changes[uri] {
		if e.Range == rng {
			return
		}
	}
	edit.Changes[uri] = append(edit.Changes[uri], TextRangeEdit{Range: rng, NewText: newText})
}
