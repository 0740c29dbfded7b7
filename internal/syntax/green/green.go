// Package green implements lossless, immutable concrete syntax trees shared
// by the LaTeX and BibTeX parsers.
//
// Nodes are "green": they carry no absolute position or parent pointer, only
// a kind, a byte length, and an ordered list of children, so that identical
// subtrees can in principle be shared between trees (structural sharing).
// Absolute positions are derived on demand by wrapping a green node in a Red
// cursor during traversal; nothing about the green tree itself ever needs to
// be rewritten when an ancestor's siblings change.
package green

// Kind identifies the syntactic category of a node or token. The LaTeX and
// BibTeX parsers each define their own Kind range; this package only fixes
// the representation.
type Kind uint16

// Element is the common interface of Node and Token: both have a Kind and a
// byte Length, and both know how to reconstruct their exact source text.
type Element interface {
	Kind() Kind
	Len() uint32
	Text() string
}

// Token is a leaf: a single terminal carrying its verbatim source text,
// including any whitespace or comment trivia that trails it when the
// grammar attaches trivia to tokens rather than modeling it as siblings.
type Token struct {
	kind Kind
	text string
}

// NewToken constructs a Token. The text is the exact source slice the token
// covers; it is never normalized or trimmed.
func NewToken(kind Kind, text string) *Token {
	return &Token{kind: kind, text: text}
}

func (t *Token) Kind() Kind   { return t.kind }
func (t *Token) Len() uint32  { return uint32(len(t.text)) }
func (t *Token) Text() string { return t.text }

// Node is an interior tree element: a kind plus an ordered list of children
// (each either a *Node or a *Token). Nodes are immutable once built; the
// Builder is the only way to construct one, and it precomputes Len so that
// Text() never needs to walk grandchildren more than once.
type Node struct {
	kind     Kind
	len      uint32
	children []Element
}

func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) Len() uint32       { return n.len }
func (n *Node) Children() []Element { return n.children }

// Text reconstructs the exact source text covered by the node by
// concatenating every descendant token's text in order. For any well-formed
// tree, concatenating the root's Text() reproduces the document byte for
// byte (the lossless invariant in spec §8).
func (n *Node) Text() string {
	var buf []byte
	n.appendText(&buf)
	return string(buf)
}

func (n *Node) appendText(buf *[]byte) {
	for _, c := range n.children {
		switch e := c.(type) {
		case *Token:
			*buf = append(*buf, e.text...)
		case *Node:
			e.appendText(buf)
		}
	}
}

// NthChild returns the i-th child, or nil if out of range.
func (n *Node) NthChild(i int) Element {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildNodes returns only the children that are Node (not Token), in order.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if nd, ok := c.(*Node); ok {
			out = append(out, nd)
		}
	}
	return out
}

// ChildrenOfKind returns direct-child nodes whose Kind matches k.
func (n *Node) ChildrenOfKind(k Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if nd, ok := c.(*Node); ok && nd.kind == k {
			out = append(out, nd)
		}
	}
	return out
}

// FirstToken returns the first direct-child Token, or nil.
func (n *Node) FirstToken() *Token {
	for _, c := range n.children {
		if tok, ok := c.(*Token); ok {
			return tok
		}
	}
	return nil
}

// FirstTokenOfKind returns the first direct-child Token with the given
// Kind, or nil.
func (n *Node) FirstTokenOfKind(k Kind) *Token {
	for _, c := range n.children {
		if tok, ok := c.(*Token); ok && tok.kind == k {
			return tok
		}
	}
	return nil
}

// Builder assembles a Node bottom-up: children are pushed as they're
// parsed, and Finish pops them into a new immutable Node. This mirrors how a
// recursive-descent parser naturally produces a tree: each grammar rule
// opens a Builder, recurses, then finishes it into the node it returns to
// its caller.
type Builder struct {
	kind     Kind
	children []Element
}

// NewBuilder starts building a node of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{kind: kind}
}

// Push appends a fully-built child (Node or Token).
func (b *Builder) Push(e Element) *Builder {
	b.children = append(b.children, e)
	return b
}

// PushToken is a convenience wrapper for Push(NewToken(kind, text)).
func (b *Builder) PushToken(kind Kind, text string) *Builder {
	return b.Push(NewToken(kind, text))
}

// Len returns the total byte length accumulated so far.
func (b *Builder) Len() uint32 {
	var total uint32
	for _, c := range b.children {
		total += c.Len()
	}
	return total
}

// Finish produces the immutable Node. The Builder must not be reused after
// this call.
func (b *Builder) Finish() *Node {
	n := &Node{kind: b.kind, children: b.children}
	for _, c := range b.children {
		n.len += c.Len()
	}
	return n
}

// SetKind overrides the node kind being built; used when a grammar rule
// needs to look ahead before committing to what it's parsing (e.g.
// distinguishing a GenericCommand from a Citation only after seeing the
// command name).
func (b *Builder) SetKind(kind Kind) *Builder {
	b.kind = kind
	return b
}
