package query

import (
	"texlab/internal/syntax/bibtex"
	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
	"texlab/internal/workspace"
)

// FoldKind classifies a fold region for client rendering (e.g. a different
// icon for a section heading than for a generic block).
type FoldKind int

const (
	FoldRegion FoldKind = iota
	FoldSection
)

// FoldingRange is one collapsible region.
type FoldingRange struct {
	Range [2]uint32
	Kind  FoldKind
}

// sectionKinds is ordered by decreasing level, matching a LaTeX document's
// sectioning hierarchy; a heading at rank i closes the fold of every
// heading at rank >= i that is still open.
var sectionKinds = []green.Kind{
	latex.KindPart, latex.KindChapter, latex.KindSection,
	latex.KindSubsection, latex.KindSubsubsection, latex.KindParagraph, latex.KindSubparagraph,
}

func sectionRank(k green.Kind) int {
	for i, sk := range sectionKinds {
		if sk == k {
			return i
		}
	}
	return -1
}

// Folding computes folding ranges for doc (spec §4.9): LaTeX environments,
// sections and enumeration items; BibTeX preamble/string/entry nodes.
func Folding(doc *workspace.Document) []FoldingRange {
	if doc.Tex != nil {
		return foldingTex(doc)
	}
	if doc.Bib != nil {
		return foldingBib(doc)
	}
	return nil
}

type sectionFrame struct {
	kind  green.Kind
	start uint32
}

func foldingTex(doc *workspace.Document) []FoldingRange {
	var out []FoldingRange
	var stack []sectionFrame
	end := uint32(len(doc.Text))

	closeTo := func(rank int, upTo uint32) {
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if sectionRank(top.kind) < rank {
				break
			}
			out = append(out, FoldingRange{Range: [2]uint32{top.start, upTo}, Kind: FoldSection})
			stack = stack[:len(stack)-1]
		}
	}

	red := green.NewRoot(doc.Tex.Green)
	red.Preorder(func(r *green.Red) bool {
		n := r.Node()
		if n == nil {
			return true
		}
		switch n.Kind() {
		case latex.KindEnvironment:
			out = append(out, FoldingRange{Range: [2]uint32{r.Start, r.End()}, Kind: FoldRegion})
		case latex.KindEnumItem:
			out = append(out, FoldingRange{Range: [2]uint32{r.Start, r.End()}, Kind: FoldRegion})
		default:
			if rank := sectionRank(n.Kind()); rank >= 0 {
				closeTo(rank, r.Start)
				stack = append(stack, sectionFrame{kind: n.Kind(), start: r.Start})
			}
		}
		return true
	})
	closeTo(0, end)
	return out
}

func foldingBib(doc *workspace.Document) []FoldingRange {
	var out []FoldingRange
	red := green.NewRoot(doc.Bib.Green)
	for _, c := range red.Children() {
		if c.Node() == nil {
			continue
		}
		switch c.Node().Kind() {
		case bibtex.KindPreamble, bibtex.KindStringDef, bibtex.KindEntry:
			out = append(out, FoldingRange{Range: [2]uint32{c.Start, c.End()}, Kind: FoldRegion})
		}
	}
	return out
}
