package commands

import (
	"fmt"
	"sort"
	"strings"

	"texlab/internal/graph"
	"texlab/internal/workspace"
)

// DependencyGraph renders the project graph as Graphviz DOT, for debugging
// (spec §3 supplement, original_source's dep_graph.rs). Every open document
// becomes a node, shaped by what it can do: a triple-octagon for a document
// that can itself be a project root (it loads a documentclass or has a
// document environment), a double-octagon for one that can be compiled but
// is not marked as a possible root, and a plain octagon otherwise. The
// extraction pass marks every compilable document as a possible root too,
// so a document with \begin{document} gets the triple-octagon. Edges come from g; their label names the
// kind of dependency.
func DependencyGraph(snap *workspace.Snapshot, g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	b.WriteString("rankdir = LR;\n")

	ids := map[workspace.URI]string{}
	var uris []workspace.URI
	snap.Iter(func(d *workspace.Document) { uris = append(uris, d.URI) })
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })

	for i, uri := range uris {
		node := fmt.Sprintf("v%05d", i)
		ids[uri] = node
		doc := snap.Lookup(uri)
		shape := "octagon"
		if doc.Tex != nil && doc.Tex.Semantics.CanBeRoot {
			shape = "tripleoctagon"
		} else if doc.Tex != nil && doc.Tex.Semantics.CanBeCompiled {
			shape = "doubleoctagon"
		}
		fmt.Fprintf(&b, "\t%s [label=%q, shape=%s];\n", node, string(uri), shape)
	}

	if g != nil {
		for _, uri := range g.Preorder() {
			doc := snap.Lookup(uri)
			if doc == nil {
				continue
			}
			for _, e := range g.Edges(doc) {
				if e.Target == nil {
					continue
				}
				label := edgeLabel(e)
				fmt.Fprintf(&b, "\t%s -> %s [label=%q];\n", ids[e.Source.URI], ids[e.Target.URI], label)
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func edgeLabel(e graph.Edge) string {
	switch e.Kind {
	case graph.EdgeDirectLink:
		if e.Link != nil {
			return e.Link.Path.Text(e.Source.Text)
		}
		return "<link>"
	case graph.EdgeAdditionalFiles:
		return "<project>"
	case graph.EdgeArtifact:
		return "<artifact>"
	case graph.EdgeFileList:
		return "<fls>"
	default:
		return ""
	}
}
