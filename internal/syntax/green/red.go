package green

// Red is an offset-aware view over a green Element: it carries the absolute
// byte range the element covers in the owning document and a pointer to its
// parent Red, so callers can walk up as well as down without the green tree
// itself ever storing a parent pointer (which would make structural sharing
// impossible).
type Red struct {
	Element Element
	Start   uint32
	Parent  *Red
}

// NewRoot wraps a tree's root green Node as a Red rooted at offset 0.
func NewRoot(root *Node) *Red {
	return &Red{Element: root, Start: 0, Parent: nil}
}

// End returns the exclusive end offset of the element's span.
func (r *Red) End() uint32 {
	return r.Start + r.Element.Len()
}

// Range returns [Start, End) as a pair.
func (r *Red) Range() (start, end uint32) {
	return r.Start, r.End()
}

// Contains reports whether offset lies within [Start, End).
func (r *Red) Contains(offset uint32) bool {
	return offset >= r.Start && offset < r.End()
}

// Node returns the underlying green Node, or nil if this Red wraps a Token.
func (r *Red) Node() *Node {
	n, _ := r.Element.(*Node)
	return n
}

// Token returns the underlying green Token, or nil if this Red wraps a Node.
func (r *Red) Token() *Token {
	t, _ := r.Element.(*Token)
	return t
}

// Children returns Red views of the element's direct children, each with
// Start computed relative to this Red's Start.
func (r *Red) Children() []*Red {
	n := r.Node()
	if n == nil {
		return nil
	}
	out := make([]*Red, 0, len(n.children))
	offset := r.Start
	for _, c := range n.children {
		out = append(out, &Red{Element: c, Start: offset, Parent: r})
		offset += c.Len()
	}
	return out
}

// Preorder calls visit for r and every descendant, depth-first, parent
// before children. visit returns false to skip descending into that
// element's children (but siblings still continue).
func (r *Red) Preorder(visit func(*Red) bool) {
	if !visit(r) {
		return
	}
	for _, c := range r.Children() {
		c.Preorder(visit)
	}
}

// Tokens yields every Token descendant in document order. Concatenating
// their Text() values reproduces the source text covered by r (the lossless
// invariant from spec §8 applied at the Red layer).
func (r *Red) Tokens() []*Red {
	var out []*Red
	r.Preorder(func(cur *Red) bool {
		if cur.Token() != nil {
			out = append(out, cur)
		}
		return true
	})
	return out
}

// FindToken returns the deepest Red whose span contains offset and which
// wraps a Token, or nil if offset falls in trivia-only space outside the
// tree (should not happen for a well-formed root whose range covers the
// whole document).
func (r *Red) FindToken(offset uint32) *Red {
	if !r.Contains(offset) && !(offset == r.End() && r.Parent == nil) {
		return nil
	}
	for _, c := range r.Children() {
		if c.Contains(offset) || (offset == c.End() && offset == r.End()) {
			if found := c.FindToken(offset); found != nil {
				return found
			}
		}
	}
	if r.Token() != nil {
		return r
	}
	return nil
}

// FindNode returns the innermost Red wrapping a Node of kind k whose span
// contains offset, walking from r downward.
func (r *Red) FindNode(offset uint32, k Kind) *Red {
	var best *Red
	r.Preorder(func(cur *Red) bool {
		if !cur.Contains(offset) && offset != cur.End() {
			return false
		}
		if cur.Node() != nil && cur.Node().Kind() == k {
			best = cur
		}
		return true
	})
	return best
}

// Ancestors returns r's ancestor chain, nearest first, not including r.
func (r *Red) Ancestors() []*Red {
	var out []*Red
	for p := r.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}
