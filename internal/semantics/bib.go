package semantics

import (
	"texlab/internal/syntax/bibtex"
	"texlab/internal/syntax/green"
)

// BibEntry is one @<type>{key, ...} declaration.
type BibEntry struct {
	Name      Span
	FullRange Span
	Type      string // the entry-type token text, e.g. "article"
}

// BibString is one @string{name = "..."} declaration.
type BibString struct {
	Name      Span
	FullRange Span
}

// Bib holds every fact extracted from a parsed BibTeX document (spec §3).
type Bib struct {
	Entries []BibEntry
	Strings []BibString
}

// ExtractBib runs the semantic extraction pass over a parsed BibTeX tree.
func ExtractBib(root *green.Node) *Bib {
	bib := &Bib{}
	var off uint32
	for _, c := range root.Children() {
		switch n := c.(type) {
		case *green.Node:
			switch n.Kind() {
			case bibtex.KindEntry:
				extractEntry(n, off, bib)
			case bibtex.KindStringDef:
				extractStringDef(n, off, bib)
			}
		}
		off += c.Len()
	}
	return bib
}

func extractEntry(n *green.Node, start uint32, bib *Bib) {
	atTok := n.FirstTokenOfKind(bibtex.KindAt)
	typ := ""
	if atTok != nil {
		typ = bibtex.EntryType(atTok.Text())
	}
	inner := start
	for _, c := range n.Children() {
		if tok, ok := c.(*green.Token); ok && (tok.Kind() == bibtex.KindName || tok.Kind() == bibtex.KindWord || tok.Kind() == bibtex.KindInteger) {
			bib.Entries = append(bib.Entries, BibEntry{
				Name:      Span{inner, inner + uint32(len(tok.Text()))},
				FullRange: Span{start, start + n.Len()},
				Type:      typ,
			})
			return
		}
		inner += c.Len()
	}
}

func extractStringDef(n *green.Node, start uint32, bib *Bib) {
	inner := start
	seenAt := false
	for _, c := range n.Children() {
		if tok, ok := c.(*green.Token); ok {
			if tok.Kind() == bibtex.KindAt {
				seenAt = true
			} else if seenAt && (tok.Kind() == bibtex.KindName || tok.Kind() == bibtex.KindWord) {
				bib.Strings = append(bib.Strings, BibString{
					Name:      Span{inner, inner + uint32(len(tok.Text()))},
					FullRange: Span{start, start + n.Len()},
				})
				return
			}
		}
		inner += c.Len()
	}
}
