package query

import (
	"texlab/internal/graph"
	"texlab/internal/workspace"
)

// DocumentLink is one resolved include/import-family directive in doc,
// spec §4.9 ("links") and §8 scenario 1 ("document-link query on foo.tex
// returns one link with range covering bar.tex in the directive, target
// bar.tex").
type DocumentLink struct {
	OriginRange [2]uint32
	TargetURI   workspace.URI
}

// DocumentLinks returns one DocumentLink per include-like directive in doc
// whose path resolves to an open workspace document, in the order the
// directives appear. A link whose target cannot be resolved is omitted,
// the same way an unresolved include contributes no project-graph edge.
func DocumentLinks(snap *workspace.Snapshot, doc *workspace.Document) []DocumentLink {
	if doc.Tex == nil {
		return nil
	}
	var out []DocumentLink
	for _, l := range doc.Tex.Semantics.Links {
		path := l.Path.Text(doc.Text)
		target := graph.ResolveLink(snap, doc, path, l.Kind)
		if target == nil {
			continue
		}
		out = append(out, DocumentLink{
			OriginRange: [2]uint32{l.Path.Start, l.Path.End},
			TargetURI:   target.URI,
		})
	}
	return out
}
