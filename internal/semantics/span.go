// Package semantics implements the extraction pass (spec §4.8): a single
// traversal over a parsed LaTeX or BibTeX tree that yields the cached facts
// every query reads instead of re-walking the syntax tree.
package semantics

// Span is a half-open byte range into the owning document's text, spec §3.
type Span struct {
	Start uint32
	End   uint32
}

// Text slices the owning document's text using the span. Callers own the
// text; Span itself carries no reference to it so that Semantics values
// stay cheap to copy and independent of the tree that produced them.
func (s Span) Text(docText string) string {
	if int(s.End) > len(docText) || s.Start > s.End {
		return ""
	}
	return docText[s.Start:s.End]
}

func (s Span) Len() uint32 { return s.End - s.Start }
