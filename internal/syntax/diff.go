package syntax

import (
	"lumen/internal/source"
)

// Replacement is one textual operation produced by Diff: the old span
// in the original file is replaced by the new rendered text.
type Replacement struct {
	Old source.Span
	New string
}

// Diff computes a minimal structural diff between two trees of matching
// shape and lowers it into textual replacements against old's file.
//
// The walk recurses only while the nodes pair up kind-for-kind; at the
// first shape mismatch the whole old subtree is replaced with the new
// subtree's rendered text. Token pairs contribute a replacement only
// when their text differs, so surrounding trivia stays untouched.
func Diff(old, new *Node) []Replacement {
	var out []Replacement
	diffNodes(old, new, &out)
	return out
}

func diffNodes(old, new *Node, out *[]Replacement) {
	// A mid-walk shape mismatch discards everything this subtree
	// already contributed: the whole-subtree replacement covers those
	// spans and emitting both would overlap.
	mark := len(*out)
	replaceSubtree := func() {
		*out = append((*out)[:mark], Replacement{Old: old.Span(), New: new.Text()})
	}
	if old.Kind() != new.Kind() || len(old.children) != len(new.children) {
		replaceSubtree()
		return
	}
	for i := range old.children {
		oldChild, newChild := old.children[i], new.children[i]
		switch oc := oldChild.(type) {
		case *Node:
			nc, ok := newChild.(*Node)
			if !ok {
				replaceSubtree()
				return
			}
			diffNodes(oc, nc, out)
		case *Token:
			nc, ok := newChild.(*Token)
			if !ok {
				replaceSubtree()
				return
			}
			if oc.Kind() != nc.Kind() || oc.Text() != nc.Text() {
				*out = append(*out, Replacement{Old: oc.Span(), New: nc.Text()})
			}
		}
	}
}
