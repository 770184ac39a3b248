package ast

import (
	"lumen/internal/syntax"
	"lumen/internal/token"
)

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct{ n *syntax.Node }

func (e BinaryExpr) Syntax() *syntax.Node { return e.n }
func (BinaryExpr) kind() syntax.Kind { return syntax.KindBinaryExpr }
func (BinaryExpr) with(n *syntax.Node) Node { return BinaryExpr{n: n} }

// Lhs returns the left operand.
func (e BinaryExpr) Lhs() *syntax.Node {
	for _, child := range e.n.ChildNodes() {
		if child.Kind().IsExpr() {
			return child
		}
	}
	return nil
}

// Rhs returns the right operand.
func (e BinaryExpr) Rhs() *syntax.Node {
	var last *syntax.Node
	for _, child := range e.n.ChildNodes() {
		if child.Kind().IsExpr() {
			last = child
		}
	}
	if last == e.Lhs() {
		return nil
	}
	return last
}

// OpToken returns the operator token between the operands.
func (e BinaryExpr) OpToken() *syntax.Token {
	for _, child := range e.n.Children() {
		if tk, ok := child.(*syntax.Token); ok {
			return tk
		}
	}
	return nil
}

// ParenExpr is `(expr)`.
type ParenExpr struct{ n *syntax.Node }

func (e ParenExpr) Syntax() *syntax.Node { return e.n }
func (ParenExpr) kind() syntax.Kind { return syntax.KindParenExpr }
func (ParenExpr) with(n *syntax.Node) Node { return ParenExpr{n: n} }

// Inner returns the parenthesized expression.
func (e ParenExpr) Inner() *syntax.Node {
	for _, child := range e.n.ChildNodes() {
		if child.Kind().IsExpr() {
			return child
		}
	}
	return nil
}

// NameRef is a use of a name in expression position.
type NameRef struct{ n *syntax.Node }

func (e NameRef) Syntax() *syntax.Node { return e.n }
func (NameRef) kind() syntax.Kind { return syntax.KindNameRef }
func (NameRef) with(n *syntax.Node) Node { return NameRef{n: n} }

// Name returns the referenced name as written.
func (e NameRef) Name() string {
	if tk := e.n.TokenOfKind(token.Ident); tk != nil {
		return tk.Text()
	}
	return ""
}

// Literal is a numeric, string, or boolean literal.
type Literal struct{ n *syntax.Node }

func (e Literal) Syntax() *syntax.Node { return e.n }
func (Literal) kind() syntax.Kind { return syntax.KindLiteral }
func (Literal) with(n *syntax.Node) Node { return Literal{n: n} }

// Token returns the literal's token.
func (e Literal) Token() *syntax.Token {
	for _, child := range e.n.Children() {
		if tk, ok := child.(*syntax.Token); ok {
			return tk
		}
	}
	return nil
}

// CallExpr is `callee(args)`.
type CallExpr struct{ n *syntax.Node }

func (e CallExpr) Syntax() *syntax.Node { return e.n }
func (CallExpr) kind() syntax.Kind { return syntax.KindCallExpr }
func (CallExpr) with(n *syntax.Node) Node { return CallExpr{n: n} }

// Callee returns the called expression.
func (e CallExpr) Callee() *syntax.Node {
	for _, child := range e.n.ChildNodes() {
		if child.Kind().IsExpr() {
			return child
		}
	}
	return nil
}

// Args returns the argument expressions in order.
func (e CallExpr) Args() []*syntax.Node {
	list := e.n.FirstChildOfKind(syntax.KindArgList)
	if list == nil {
		return nil
	}
	var out []*syntax.Node
	for _, child := range list.ChildNodes() {
		if child.Kind().IsExpr() {
			out = append(out, child)
		}
	}
	return out
}
