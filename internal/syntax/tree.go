package syntax

import (
	"lumen/internal/source"
	"lumen/internal/token"
)

// Element is either a *Node or a *Token of the syntax tree.
type Element interface {
	Span() source.Span
	Parent() *Node
	Text() string
}

// Node is an interior element of the lossless syntax tree.
// Nodes are immutable after the tree is built; a tree handle can be
// shared freely between readers.
type Node struct {
	kind     Kind
	span     source.Span
	parent   *Node
	children []Element
	tree     *Tree
}

// Token is a leaf element wrapping a lexed token together with its
// leading trivia. Trivia never forms separate tree elements; it rides
// on the token that follows it, which keeps indent reconstruction local.
type Token struct {
	tok    token.Token
	parent *Node
}

// Tree owns the root node and the file the tree was parsed from.
type Tree struct {
	file *source.File
	root *Node
}

// NewTree wires a built root node to its file and sets parent links.
func NewTree(file *source.File, root *Node) *Tree {
	t := &Tree{file: file, root: root}
	var link func(n *Node)
	link = func(n *Node) {
		n.tree = t
		for _, child := range n.children {
			if sub, ok := child.(*Node); ok {
				sub.parent = n
				link(sub)
			} else if tk, ok := child.(*Token); ok {
				tk.parent = n
			}
		}
	}
	link(root)
	return t
}

// Root returns the root node of the tree.
func (t *Tree) Root() *Node { return t.root }

// File returns the source file this tree was parsed from.
func (t *Tree) File() *source.File { return t.file }

// NewNode builds a node over the given children. The span covers all
// children; an empty child list yields an empty span at zero.
func NewNode(kind Kind, children ...Element) *Node {
	n := &Node{kind: kind, children: children}
	if len(children) > 0 {
		sp := children[0].Span()
		for _, c := range children[1:] {
			sp = sp.Cover(c.Span())
		}
		n.span = sp
	}
	return n
}

// NewToken wraps a lexed token as a tree leaf.
func NewToken(tok token.Token) *Token {
	return &Token{tok: tok}
}

func (n *Node) Kind() Kind          { return n.kind }
func (n *Node) Span() source.Span   { return n.span }
func (n *Node) Parent() *Node       { return n.parent }
func (n *Node) Children() []Element { return n.children }

// Text renders the exact source slice the node covers.
func (n *Node) Text() string {
	if n.tree == nil || n.tree.file == nil {
		return ""
	}
	content := n.tree.file.Content
	end := n.span.End
	if end > uint32(len(content)) {
		end = uint32(len(content))
	}
	if n.span.Start >= end {
		return ""
	}
	return string(content[n.span.Start:end])
}

// ChildNodes returns only the node children, skipping tokens.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if sub, ok := c.(*Node); ok {
			out = append(out, sub)
		}
	}
	return out
}

// FirstChildOfKind returns the first child node of the given kind.
func (n *Node) FirstChildOfKind(kind Kind) *Node {
	for _, c := range n.children {
		if sub, ok := c.(*Node); ok && sub.kind == kind {
			return sub
		}
	}
	return nil
}

// FirstToken returns the leftmost token under the node.
func (n *Node) FirstToken() *Token {
	for _, c := range n.children {
		switch el := c.(type) {
		case *Token:
			return el
		case *Node:
			if tk := el.FirstToken(); tk != nil {
				return tk
			}
		}
	}
	return nil
}

// TokenOfKind returns the first direct child token of the given kind.
func (n *Node) TokenOfKind(kind token.Kind) *Token {
	for _, c := range n.children {
		if tk, ok := c.(*Token); ok && tk.tok.Kind == kind {
			return tk
		}
	}
	return nil
}

// Ancestors returns the chain of nodes from the node itself up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

func (t *Token) Kind() token.Kind        { return t.tok.Kind }
func (t *Token) Span() source.Span       { return t.tok.Span }
func (t *Token) Parent() *Node           { return t.parent }
func (t *Token) Text() string            { return t.tok.Text }
func (t *Token) Leading() []token.Trivia { return t.tok.Leading }

// TokenAtOffset returns the token covering the offset, preferring the
// token that starts at the offset when two touch there.
func (t *Tree) TokenAtOffset(offset uint32) *Token {
	return tokenAt(t.root, offset)
}

func tokenAt(n *Node, offset uint32) *Token {
	var touching *Token
	for _, c := range n.children {
		switch el := c.(type) {
		case *Token:
			sp := el.Span()
			if sp.Contains(offset) {
				return el
			}
			if sp.End == offset && touching == nil {
				touching = el
			}
		case *Node:
			sp := el.Span()
			if !sp.Contains(offset) && sp.End != offset {
				continue
			}
			tk := tokenAt(el, offset)
			if tk == nil {
				continue
			}
			// токен из поддерева может лишь касаться offset концом;
			// тогда он остаётся запасным вариантом, а не ответом
			if tk.Span().Contains(offset) {
				return tk
			}
			if touching == nil {
				touching = tk
			}
		}
	}
	return touching
}

// CoveringElement returns the smallest element whose span contains the
// whole given range. The root covers everything as a last resort.
func (t *Tree) CoveringElement(span source.Span) Element {
	var cur Element = t.root
	for {
		n, ok := cur.(*Node)
		if !ok {
			return cur
		}
		var next Element
		for _, c := range n.children {
			if c.Span().ContainsSpan(span) {
				next = c
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// NodeAtOffset returns the innermost node of the given kind covering offset.
func (t *Tree) NodeAtOffset(kind Kind, offset uint32) *Node {
	tk := t.TokenAtOffset(offset)
	if tk == nil {
		return nil
	}
	for _, anc := range tk.parent.Ancestors() {
		if anc.Kind() == kind {
			return anc
		}
	}
	return nil
}
