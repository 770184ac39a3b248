// Package ast provides typed views over the untyped syntax tree.
// A wrapper is a thin value around *syntax.Node; casting checks the
// node kind and never copies the tree.
package ast

import (
	"lumen/internal/syntax"
)

// Node is a typed view over a syntax node.
type Node interface {
	Syntax() *syntax.Node
	kind() syntax.Kind
	with(n *syntax.Node) Node
}

// Cast reinterprets a syntax node as the typed wrapper T.
// It fails when the node is nil or of a different kind.
func Cast[T Node](n *syntax.Node) (T, bool) {
	var zero T
	if n == nil || n.Kind() != zero.kind() {
		return zero, false
	}
	typed, ok := zero.with(n).(T)
	return typed, ok
}

// NearestAncestor walks from the node upward and returns the first
// ancestor castable to T, the node itself included.
func NearestAncestor[T Node](n *syntax.Node) (T, bool) {
	for _, anc := range n.Ancestors() {
		if typed, ok := Cast[T](anc); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}
