package semantics

import (
	"strings"

	"texlab/internal/syntax/green"
	"texlab/internal/syntax/latex"
)

// LabelKind distinguishes label occurrences, spec §3.
type LabelKind int

const (
	LabelDefinition LabelKind = iota
	LabelReference
	LabelReferenceRange
)

// Label is one label definition/reference/reference-range occurrence.
type Label struct {
	Kind       LabelKind
	Name       Span
	Object     *Span // optional: the construct the label names (e.g. enclosing section)
	FullRange  Span
}

// Citation is one \cite{...}-family occurrence; a single command can name
// several comma-separated keys, each becoming its own Citation sharing the
// invocation's FullRange.
type Citation struct {
	Name      Span
	FullRange Span
}

// LinkKind classifies an include-like directive, spec §3.
type LinkKind int

const (
	LinkLatex LinkKind = iota
	LinkBib
	LinkPackage
	LinkClass
	LinkGraphic
	LinkSvg
	LinkVerbatim
	LinkImport
)

// Link is one include/import-family directive.
type Link struct {
	Kind    LinkKind
	Path    Span
	BaseDir *Span // second argument of \import{base}{file}, if present
}

// TheoremDefinition is a \newtheorem/\declaretheorem-family declaration.
type TheoremDefinition struct {
	Name        Span
	Description string
}

// Tex holds every fact extracted from a parsed LaTeX document (spec §3).
type Tex struct {
	Labels             []Label
	Citations          []Citation
	Commands           []Span // command names, without leading backslash
	Environments       []Span
	TheoremDefinitions []TheoremDefinition
	Links              []Link
	CanBeRoot          bool
	CanBeCompiled      bool
	// LabelNumbers maps a label name to its rendered number text, populated
	// only for Aux documents by ExtractAuxiliary (spec §4.8).
	LabelNumbers map[string]string
}

// Extract runs the semantic extraction pass over a parsed LaTeX green tree.
func Extract(root *green.Node) *Tex {
	tex := &Tex{}
	var offset uint32
	var walk func(n *green.Node, start uint32)
	walk = func(n *green.Node, start uint32) {
		switch n.Kind() {
		case latex.KindIncludeClass:
			tex.CanBeRoot = true
		case latex.KindEnvironment:
			if b := n.ChildrenOfKind(latex.KindEnvironmentBegin); len(b) > 0 {
				if name := firstWordSpan(b[0], start); name != nil {
					tex.Environments = append(tex.Environments, *name)
					if nameText(b[0]) == "document" {
						tex.CanBeCompiled = true
						tex.CanBeRoot = true
					}
				}
			}
		case latex.KindCitation:
			extractCitations(n, start, tex)
		case latex.KindLabelDefinition:
			if name := firstCurlyWordSpan(n, start); name != nil {
				tex.Labels = append(tex.Labels, Label{
					Kind: LabelDefinition, Name: *name,
					FullRange: Span{start, start + n.Len()},
				})
			}
		case latex.KindLabelReference:
			extractLabelRefs(n, start, tex, LabelReference)
		case latex.KindLabelReferenceRange:
			extractLabelRefs(n, start, tex, LabelReferenceRange)
		case latex.KindTheoremDefinition:
			extractTheorem(n, start, tex)
		case latex.KindIncludeLatex:
			extractLink(n, start, tex, LinkLatex)
		case latex.KindIncludeBibtex:
			extractLink(n, start, tex, LinkBib)
		case latex.KindIncludePackage:
			extractLink(n, start, tex, LinkPackage)
		case latex.KindIncludeGraphics:
			extractLink(n, start, tex, LinkGraphic)
		case latex.KindIncludeSvg:
			extractLink(n, start, tex, LinkSvg)
		case latex.KindIncludeVerbatim:
			extractLink(n, start, tex, LinkVerbatim)
		case latex.KindImport:
			extractImport(n, start, tex)
		case latex.KindGenericCommand:
			if tok := n.FirstTokenOfKind(latex.KindCommandName); tok != nil {
				name := strings.TrimPrefix(strings.TrimSuffix(tok.Text(), "*"), "\\")
				if name != "" {
					tex.Commands = append(tex.Commands, Span{start, start + uint32(len(tok.Text()))})
				}
			}
		}

		off := start
		for _, c := range n.Children() {
			if child, ok := c.(*green.Node); ok {
				walk(child, off)
			}
			off += c.Len()
		}
	}
	walk(root, offset)
	return tex
}

func nameText(n *green.Node) string {
	groups := n.ChildNodes()
	for _, g := range groups {
		if g.Kind() == 0 {
			continue
		}
		for _, c := range g.Children() {
			if tok, ok := c.(*green.Token); ok && tok.Kind() == latex.KindWord {
				return tok.Text()
			}
		}
	}
	return ""
}

// firstWordSpan finds the span of the first Word token inside n's first
// CurlyGroup child, offset by start.
func firstWordSpan(n *green.Node, start uint32) *Span {
	off := start
	for _, c := range n.Children() {
		if g, ok := c.(*green.Node); ok && g.Kind() == latex.KindCurlyGroup {
			inner := off + 1 // past '{'
			for _, gc := range g.Children() {
				if tok, ok := gc.(*green.Token); ok && tok.Kind() == latex.KindWord {
					s := Span{inner, inner + uint32(len(tok.Text()))}
					return &s
				}
				inner += gc.Len()
			}
		}
		off += c.Len()
	}
	return nil
}

func firstCurlyWordSpan(n *green.Node, start uint32) *Span {
	return firstWordSpan(n, start)
}

// extractCitations splits a \cite{a,b,c}-style invocation into one
// Citation per comma-separated key, all sharing the invocation's range.
func extractCitations(n *green.Node, start uint32, tex *Tex) {
	full := Span{start, start + n.Len()}
	off := start
	for _, c := range n.Children() {
		if g, ok := c.(*green.Node); ok && g.Kind() == latex.KindCurlyGroup {
			for _, key := range splitCommaWords(g, off) {
				tex.Citations = append(tex.Citations, Citation{Name: key, FullRange: full})
			}
		}
		off += c.Len()
	}
}

// splitCommaWords walks a CurlyGroup's direct Word-token children,
// returning the span of each (comma-separated keys share no whitespace
// trimming beyond what the lexer already produced as separate tokens).
func splitCommaWords(group *green.Node, groupStart uint32) []Span {
	var out []Span
	off := groupStart
	for _, c := range group.Children() {
		if tok, ok := c.(*green.Token); ok && tok.Kind() == latex.KindWord {
			out = append(out, Span{off, off + uint32(len(tok.Text()))})
		}
		off += c.Len()
	}
	return out
}

func extractLabelRefs(n *green.Node, start uint32, tex *Tex, kind LabelKind) {
	full := Span{start, start + n.Len()}
	off := start
	for _, c := range n.Children() {
		if g, ok := c.(*green.Node); ok && g.Kind() == latex.KindCurlyGroup {
			for _, key := range splitCommaWords(g, off) {
				tex.Labels = append(tex.Labels, Label{Kind: kind, Name: key, FullRange: full})
			}
		}
		off += c.Len()
	}
}

func extractTheorem(n *green.Node, start uint32, tex *Tex) {
	name := firstWordSpan(n, start)
	if name == nil {
		return
	}
	desc := ""
	// Second curly group (if present) holds the human-readable description,
	// e.g. \newtheorem{thm}{Theorem}.
	off := start
	seen := 0
	for _, c := range n.Children() {
		if g, ok := c.(*green.Node); ok && g.Kind() == latex.KindCurlyGroup {
			seen++
			if seen == 2 {
				desc = plainText(g)
			}
		}
		off += c.Len()
	}
	tex.TheoremDefinitions = append(tex.TheoremDefinitions, TheoremDefinition{Name: *name, Description: desc})
}

func plainText(g *green.Node) string {
	var b strings.Builder
	for _, c := range g.Children() {
		if tok, ok := c.(*green.Token); ok && (tok.Kind() == latex.KindWord || tok.Kind() == latex.KindWhitespace) {
			b.WriteString(tok.Text())
		}
	}
	return strings.TrimSpace(b.String())
}

func extractLink(n *green.Node, start uint32, tex *Tex, kind LinkKind) {
	off := start
	for _, c := range n.Children() {
		if g, ok := c.(*green.Node); ok && g.Kind() == latex.KindCurlyGroup {
			if p := firstWordSpan(nodeWrap(g), off); p != nil {
				tex.Links = append(tex.Links, Link{Kind: kind, Path: *p})
			}
		}
		off += c.Len()
	}
}

// nodeWrap lets firstWordSpan (which expects to find a CurlyGroup child)
// operate directly on a CurlyGroup by wrapping it as the sole child of a
// synthetic parent; used by extractLink/extractImport where we already
// have the group in hand.
func nodeWrap(g *green.Node) *green.Node {
	b := green.NewBuilder(0)
	b.Push(g)
	return b.Finish()
}

func extractImport(n *green.Node, start uint32, tex *Tex) {
	off := start
	var groups []*green.Node
	var groupOffsets []uint32
	for _, c := range n.Children() {
		if g, ok := c.(*green.Node); ok && g.Kind() == latex.KindCurlyGroup {
			groups = append(groups, g)
			groupOffsets = append(groupOffsets, off)
		}
		off += c.Len()
	}
	if len(groups) == 0 {
		return
	}
	if len(groups) == 1 {
		if p := firstWordSpan(nodeWrap(groups[0]), groupOffsets[0]); p != nil {
			tex.Links = append(tex.Links, Link{Kind: LinkImport, Path: *p})
		}
		return
	}
	base := firstWordSpan(nodeWrap(groups[0]), groupOffsets[0])
	path := firstWordSpan(nodeWrap(groups[1]), groupOffsets[1])
	if path != nil {
		tex.Links = append(tex.Links, Link{Kind: LinkImport, Path: *path, BaseDir: base})
	}
}
