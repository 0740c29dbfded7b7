package query

import (
	"texlab/internal/semantics"
	"texlab/internal/workspace"
)

// HighlightKind mirrors LSP's DocumentHighlightKind: a definition site is
// tagged Write, every reference site Read.
type HighlightKind int

const (
	HighlightRead HighlightKind = iota
	HighlightWrite
)

// Highlight is one same-document occurrence of the construct under the
// cursor.
type Highlight struct {
	Range [2]uint32
	Kind  HighlightKind
}

// Highlights returns every occurrence, within doc only, of the label named
// at offset (spec §4.9: "same-label occurrences, each tagged Write
// (definition) / Read (reference)").
func Highlights(doc *workspace.Document, offset uint32) []Highlight {
	if doc.Tex == nil {
		return nil
	}
	name := labelNameAt(doc, offset)
	if name == "" {
		return nil
	}
	var out []Highlight
	for _, l := range doc.Tex.Semantics.Labels {
		if l.Name.Text(doc.Text) != name {
			continue
		}
		kind := HighlightRead
		if l.Kind == semantics.LabelDefinition {
			kind = HighlightWrite
		}
		out = append(out, Highlight{Range: [2]uint32{l.Name.Start, l.Name.End}, Kind: kind})
	}
	return out
}

func labelNameAt(doc *workspace.Document, offset uint32) string {
	for _, l := range doc.Tex.Semantics.Labels {
		if l.Name.Start <= offset && offset < l.Name.End {
			return l.Name.Text(doc.Text)
		}
	}
	return ""
}
