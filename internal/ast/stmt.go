package ast

import (
	"lumen/internal/syntax"
	"lumen/internal/token"
)

// Block is `{ stmt* }`.
type Block struct{ n *syntax.Node }

func (b Block) Syntax() *syntax.Node { return b.n }
func (Block) kind() syntax.Kind { return syntax.KindBlock }
func (Block) with(n *syntax.Node) Node { return Block{n: n} }

// Stmts returns the statement nodes in source order.
func (b Block) Stmts() []*syntax.Node {
	var out []*syntax.Node
	for _, child := range b.n.ChildNodes() {
		if child.Kind().IsStmt() {
			out = append(out, child)
		}
	}
	return out
}

// LetStmt is `let name (: type)? = expr;`.
type LetStmt struct{ n *syntax.Node }

func (s LetStmt) Syntax() *syntax.Node { return s.n }
func (LetStmt) kind() syntax.Kind { return syntax.KindLetStmt }
func (LetStmt) with(n *syntax.Node) Node { return LetStmt{n: n} }

// Name returns the bound name as written.
func (s LetStmt) Name() string {
	if name := s.n.FirstChildOfKind(syntax.KindName); name != nil {
		return name.Text()
	}
	return ""
}

// NameNode returns the binding's name node.
func (s LetStmt) NameNode() *syntax.Node {
	return s.n.FirstChildOfKind(syntax.KindName)
}

// TypeRef returns the explicit type annotation node, if any.
func (s LetStmt) TypeRef() *syntax.Node {
	return s.n.FirstChildOfKind(syntax.KindTypeRef)
}

// Initializer returns the expression after `=`, if any.
func (s LetStmt) Initializer() *syntax.Node {
	for _, child := range s.n.ChildNodes() {
		if child.Kind().IsExpr() {
			return child
		}
	}
	return nil
}

// AssignToken returns the `=` token of the binding.
func (s LetStmt) AssignToken() *syntax.Token {
	return s.n.TokenOfKind(token.Assign)
}

// ReturnStmt is `return expr?;`.
type ReturnStmt struct{ n *syntax.Node }

func (s ReturnStmt) Syntax() *syntax.Node { return s.n }
func (ReturnStmt) kind() syntax.Kind { return syntax.KindReturnStmt }
func (ReturnStmt) with(n *syntax.Node) Node { return ReturnStmt{n: n} }

// Value returns the returned expression, if any.
func (s ReturnStmt) Value() *syntax.Node {
	for _, child := range s.n.ChildNodes() {
		if child.Kind().IsExpr() {
			return child
		}
	}
	return nil
}

// ExprStmt is `expr;`.
type ExprStmt struct{ n *syntax.Node }

func (s ExprStmt) Syntax() *syntax.Node { return s.n }
func (ExprStmt) kind() syntax.Kind { return syntax.KindExprStmt }
func (ExprStmt) with(n *syntax.Node) Node { return ExprStmt{n: n} }

// Expr returns the wrapped expression.
func (s ExprStmt) Expr() *syntax.Node {
	for _, child := range s.n.ChildNodes() {
		if child.Kind().IsExpr() {
			return child
		}
	}
	return nil
}
