package query

import (
	"texlab/internal/graph"
	"texlab/internal/semantics"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// OccurrenceKind tags a reference result as the declaration site or a use
// site (spec §4.9).
type OccurrenceKind int

const (
	OccurrenceDefinition OccurrenceKind = iota
	OccurrenceReference
)

// Occurrence is one reference-query result.
type Occurrence struct {
	URI   workspace.URI
	Range [2]uint32
	Kind  OccurrenceKind
}

// References returns every occurrence of the construct at offset within
// doc, across the whole project. includeDeclaration controls whether
// definition sites are included (spec §4.9).
func References(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32, includeDeclaration bool) []Occurrence {
	if doc.Tex == nil {
		return referencesInBib(snap, g, doc, offset, includeDeclaration)
	}

	red := green.NewRoot(doc.Tex.Green)
	if node := red.FindNode(offset, latex.KindLabelDefinition); node != nil {
		return labelOccurrences(snap, g, wordText(node), includeDeclaration)
	}
	if node := red.FindNode(offset, latex.KindLabelReference); node != nil {
		return labelOccurrences(snap, g, wordText(node), includeDeclaration)
	}
	if node := red.FindNode(offset, latex.KindLabelReferenceRange); node != nil {
		return labelOccurrences(snap, g, wordText(node), includeDeclaration)
	}
	if node := red.FindNode(offset, latex.KindCitation); node != nil {
		return citationOccurrences(snap, g, wordText(node), includeDeclaration)
	}
	return nil
}

func referencesInBib(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32, includeDeclaration bool) []Occurrence {
	for _, e := range doc.Bib.Semantics.Entries {
		if e.Name.Start <= offset && offset < e.Name.End {
			return citationOccurrences(snap, g, e.Name.Text(doc.Text), includeDeclaration)
		}
	}
	return nil
}

func labelOccurrences(snap *workspace.Snapshot, g *graph.Graph, name string, includeDeclaration bool) []Occurrence {
	if name == "" {
		return nil
	}
	var out []Occurrence
	for _, uri := range preorderOrAll(snap, g) {
		doc := snap.Lookup(uri)
		if doc == nil || doc.Tex == nil {
			continue
		}
		for _, l := range doc.Tex.Semantics.Labels {
			if l.Name.Text(doc.Text) != name {
				continue
			}
			if l.Kind == semantics.LabelDefinition {
				if !includeDeclaration {
					continue
				}
				out = append(out, Occurrence{URI: uri, Range: [2]uint32{l.Name.Start, l.Name.End}, Kind: OccurrenceDefinition})
			} else {
				out = append(out, Occurrence{URI: uri, Range: [2]uint32{l.Name.Start, l.Name.End}, Kind: OccurrenceReference})
			}
		}
	}
	return out
}

func citationOccurrences(snap *workspace.Snapshot, g *graph.Graph, name string, includeDeclaration bool) []Occurrence {
	if name == "" {
		return nil
	}
	var out []Occurrence
	for _, uri := range preorderOrAll(snap, g) {
		doc := snap.Lookup(uri)
		if doc == nil {
			continue
		}
		if doc.Bib != nil && includeDeclaration {
			for _, e := range doc.Bib.Semantics.Entries {
				if e.Name.Text(doc.Text) == name {
					out = append(out, Occurrence{URI: uri, Range: [2]uint32{e.Name.Start, e.Name.End}, Kind: OccurrenceDefinition})
				}
			}
		}
		if doc.Tex != nil {
			for _, c := range doc.Tex.Semantics.Citations {
				if c.Name.Text(doc.Text) == name {
					out = append(out, Occurrence{URI: uri, Range: [2]uint32{c.Name.Start, c.Name.End}, Kind: OccurrenceReference})
				}
			}
		}
	}
	return out
}
