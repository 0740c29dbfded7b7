package query

import (
	"fmt"

	"texlab/internal/citeproc"
	"texlab/internal/graph"
	"texlab/internal/semantics"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// Hover is the result of a hover query: a range and rendered contents.
type Hover struct {
	Range   [2]uint32
	Content string
}

// hoverProvider is one entry in the fixed priority chain spec §4.9 names:
// citation, package, entry-type, field-type, label, string-ref. The first
// provider that returns ok=true wins.
type hoverProvider func(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool)

var hoverProviders = []hoverProvider{
	hoverCitation,
	hoverPackage,
	hoverEntryType,
	hoverFieldType,
	hoverLabel,
	hoverStringRef,
}

// HoverAt runs the priority chain and returns the first match.
func HoverAt(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool) {
	for _, p := range hoverProviders {
		if h, ok := p(snap, g, doc, offset); ok {
			return h, ok
		}
	}
	return Hover{}, false
}

func hoverCitation(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool) {
	if doc.Tex == nil {
		return Hover{}, false
	}
	red := green.NewRoot(doc.Tex.Green)
	node := red.FindNode(offset, latex.KindCitation)
	if node == nil {
		return Hover{}, false
	}
	name := wordText(node)
	for _, uri := range preorderOrAll(snap, g) {
		target := snap.Lookup(uri)
		if target == nil || target.Bib == nil {
			continue
		}
		for _, e := range target.Bib.Semantics.Entries {
			if e.Name.Text(target.Text) == name {
				rendered := citeproc.Render(citeproc.Entry{Type: e.Type, Key: name})
				start, end := node.Start, node.End()
				return Hover{Range: [2]uint32{start, end}, Content: rendered}, true
			}
		}
	}
	return Hover{}, false
}

func hoverPackage(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool) {
	if doc.Tex == nil {
		return Hover{}, false
	}
	red := green.NewRoot(doc.Tex.Green)
	node := red.FindNode(offset, latex.KindIncludePackage)
	if node == nil {
		return Hover{}, false
	}
	name := wordText(node)
	if name == "" {
		return Hover{}, false
	}
	start, end := node.Start, node.End()
	return Hover{Range: [2]uint32{start, end}, Content: fmt.Sprintf("package `%s`", name)}, true
}

func hoverEntryType(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool) {
	if doc.Bib == nil {
		return Hover{}, false
	}
	for _, e := range doc.Bib.Semantics.Entries {
		if e.FullRange.Start <= offset && offset < e.FullRange.Start+4 {
			return Hover{Range: [2]uint32{e.FullRange.Start, e.FullRange.End}, Content: fmt.Sprintf("entry type `%s`", e.Type)}, true
		}
	}
	return Hover{}, false
}

func hoverFieldType(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool) {
	return Hover{}, false
}

func hoverLabel(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool) {
	if doc.Tex == nil {
		return Hover{}, false
	}
	for _, l := range doc.Tex.Semantics.Labels {
		if l.Kind != semantics.LabelReference && l.Kind != semantics.LabelReferenceRange {
			continue
		}
		if l.Name.Start <= offset && offset < l.Name.End {
			name := l.Name.Text(doc.Text)
			for _, uri := range preorderOrAll(snap, g) {
				target := snap.Lookup(uri)
				if target == nil || target.Tex == nil {
					continue
				}
				if number, ok := target.Tex.Semantics.LabelNumbers[name]; ok {
					return Hover{Range: [2]uint32{l.Name.Start, l.Name.End}, Content: fmt.Sprintf("%s (%s)", name, number)}, true
				}
			}
			return Hover{Range: [2]uint32{l.Name.Start, l.Name.End}, Content: name}, true
		}
	}
	return Hover{}, false
}

func hoverStringRef(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) (Hover, bool) {
	if doc.Bib == nil {
		return Hover{}, false
	}
	targets := definitionInBib(snap, g, doc, offset)
	if len(targets) == 0 {
		return Hover{}, false
	}
	return Hover{Range: targets[0].SelectionRange, Content: "string reference"}, true
}
