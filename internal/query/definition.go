package query

import (
	"texlab/internal/graph"
	"texlab/internal/semantics"
	"texlab/internal/syntax/bibtex"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// DefinitionTarget is one candidate definition location (spec §4.9).
type DefinitionTarget struct {
	OriginRange     [2]uint32
	TargetURI       workspace.URI
	TargetRange     [2]uint32
	SelectionRange  [2]uint32
}

// Definition resolves include/citation/label/string-ref at offset within
// doc to its definition(s); command names are not resolved. Results are
// ordered nearest-project first, then insertion order (spec §4.9).
func Definition(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) []DefinitionTarget {
	if doc.Tex != nil {
		return definitionInTex(snap, g, doc, offset)
	}
	if doc.Bib != nil {
		return definitionInBib(snap, g, doc, offset)
	}
	return nil
}

func definitionInTex(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) []DefinitionTarget {
	red := green.NewRoot(doc.Tex.Green)
	tok := red.FindToken(offset)
	if tok == nil {
		return nil
	}

	if labelRef := red.FindNode(offset, latex.KindLabelReference); labelRef != nil {
		return findLabelDefinitions(snap, g, wordText(labelRef))
	}
	if labelRef := red.FindNode(offset, latex.KindLabelReferenceRange); labelRef != nil {
		return findLabelDefinitions(snap, g, wordText(labelRef))
	}
	if citation := red.FindNode(offset, latex.KindCitation); citation != nil {
		return findBibEntries(snap, g, wordText(citation))
	}
	for _, kind := range []green.Kind{
		latex.KindIncludeLatex, latex.KindIncludeBibtex, latex.KindIncludePackage,
		latex.KindIncludeClass, latex.KindIncludeGraphics, latex.KindIncludeSvg,
		latex.KindIncludeInkscape, latex.KindIncludeVerbatim, latex.KindImport,
	} {
		if inc := red.FindNode(offset, kind); inc != nil {
			return findIncludeTargets(snap, doc, inc)
		}
	}
	return nil
}

func definitionInBib(snap *workspace.Snapshot, g *graph.Graph, doc *workspace.Document, offset uint32) []DefinitionTarget {
	// A @string name used inside a value (spec §4.9: "string-ref") resolves
	// to the matching @string definition within the same file.
	red := green.NewRoot(doc.Bib.Green)
	tok := red.FindToken(offset)
	if tok == nil || tok.Token().Kind() != bibtex.KindName {
		return nil
	}
	name := tok.Token().Text()
	for _, s := range doc.Bib.Semantics.Strings {
		if s.Name.Text(doc.Text) == name {
			start, end := s.FullRange.Start, s.FullRange.End
			return []DefinitionTarget{{
				TargetURI:      doc.URI,
				TargetRange:    [2]uint32{start, end},
				SelectionRange: [2]uint32{s.Name.Start, s.Name.End},
			}}
		}
	}
	return nil
}

func wordText(r *green.Red) string {
	for _, c := range r.Tokens() {
		if c.Token().Kind() == latex.KindWord {
			return c.Token().Text()
		}
	}
	return ""
}

func findLabelDefinitions(snap *workspace.Snapshot, g *graph.Graph, name string) []DefinitionTarget {
	if name == "" {
		return nil
	}
	var out []DefinitionTarget
	for _, uri := range preorderOrAll(snap, g) {
		doc := snap.Lookup(uri)
		if doc == nil || doc.Tex == nil {
			continue
		}
		for _, l := range doc.Tex.Semantics.Labels {
			if l.Kind != semantics.LabelDefinition || l.Name.Text(doc.Text) != name {
				continue
			}
			out = append(out, DefinitionTarget{
				TargetURI:      doc.URI,
				TargetRange:    [2]uint32{l.FullRange.Start, l.FullRange.End},
				SelectionRange: [2]uint32{l.Name.Start, l.Name.End},
			})
		}
	}
	return out
}

func findBibEntries(snap *workspace.Snapshot, g *graph.Graph, name string) []DefinitionTarget {
	if name == "" {
		return nil
	}
	var out []DefinitionTarget
	for _, uri := range preorderOrAll(snap, g) {
		doc := snap.Lookup(uri)
		if doc == nil || doc.Bib == nil {
			continue
		}
		for _, e := range doc.Bib.Semantics.Entries {
			if e.Name.Text(doc.Text) != name {
				continue
			}
			out = append(out, DefinitionTarget{
				TargetURI:      doc.URI,
				TargetRange:    [2]uint32{e.FullRange.Start, e.FullRange.End},
				SelectionRange: [2]uint32{e.Name.Start, e.Name.End},
			})
		}
	}
	return out
}

func findIncludeTargets(snap *workspace.Snapshot, doc *workspace.Document, inc *green.Red) []DefinitionTarget {
	for _, l := range doc.Tex.Semantics.Links {
		if l.Path.Start < inc.Start || l.Path.End > inc.End() {
			continue
		}
		target := graph.ResolveLink(snap, doc, l.Path.Text(doc.Text), l.Kind)
		if target == nil {
			continue
		}
		targetRange := [2]uint32{0, 0}
		if end := uint32(len(target.Text)); end > 0 {
			if end > targetLeadingLineMax {
				end = targetLeadingLineMax
			}
			targetRange = [2]uint32{0, end}
		}
		return []DefinitionTarget{{
			TargetURI:      target.URI,
			TargetRange:    targetRange,
			SelectionRange: [2]uint32{0, 0},
		}}
	}
	return nil
}

// targetLeadingLineMax bounds how much of a linked-to document's leading
// text a go-to-include jump selects when no more precise anchor exists,
// so landing on a huge file doesn't highlight its entire contents.
const targetLeadingLineMax = 200

func preorderOrAll(snap *workspace.Snapshot, g *graph.Graph) []workspace.URI {
	if g != nil {
		return g.Preorder()
	}
	var out []workspace.URI
	snap.Iter(func(d *workspace.Document) { out = append(out, d.URI) })
	return out
}
