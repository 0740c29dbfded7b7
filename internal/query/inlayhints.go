package query

import (
	"texlab/internal/citeproc"
	"texlab/internal/graph"
	"texlab/internal/semantics"
	"texlab/internal/workspace"
)

// InlayHint is one rendered annotation anchored immediately after a
// position in the source (spec §4.9: "rendered label numbers at label
// definitions; rendered citation overview after citation keys").
type InlayHint struct {
	Position uint32
	Label    string
}

// InlayHints computes every inlay hint for doc within [start, end).
func InlayHints(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, start, end uint32) []InlayHint {
	if doc.Tex == nil {
		return nil
	}
	var out []InlayHint

	for _, l := range doc.Tex.Semantics.Labels {
		if l.Kind != semantics.LabelDefinition || l.Name.Start < start || l.Name.End > end {
			continue
		}
		name := l.Name.Text(doc.Text)
		if number, ok := labelNumberAnywhere(snap, g, name); ok {
			out = append(out, InlayHint{Position: l.Name.End, Label: number})
		}
	}

	for _, c := range doc.Tex.Semantics.Citations {
		if c.Name.Start < start || c.Name.End > end {
			continue
		}
		name := c.Name.Text(doc.Text)
		if rendered, ok := citationOverview(snap, g, name); ok {
			out = append(out, InlayHint{Position: c.Name.End, Label: rendered})
		}
	}
	return out
}

func labelNumberAnywhere(snap *workspace.Snapshot, g *graph.Graph, name string) (string, bool) {
	for _, uri := range preorderOrAll(snap, g) {
		d := snap.Lookup(uri)
		if d == nil || d.Tex == nil {
			continue
		}
		if n, ok := d.Tex.Semantics.LabelNumbers[name]; ok {
			return n, true
		}
	}
	return "", false
}

func citationOverview(snap *workspace.Snapshot, g *graph.Graph, name string) (string, bool) {
	for _, uri := range preorderOrAll(snap, g) {
		d := snap.Lookup(uri)
		if d == nil || d.Bib == nil {
			continue
		}
		for _, e := range d.Bib.Semantics.Entries {
			if e.Name.Text(d.Text) == name {
				return citeproc.Render(citeproc.Entry{Type: e.Type, Key: name}), true
			}
		}
	}
	return "", false
}
