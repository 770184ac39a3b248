// Package sema derives name-resolution facts for a scope on demand.
// Building an Analyzer walks the enclosing function or file once;
// assists request one only after their structural pre-checks pass.
package sema

import (
	"lumen/internal/ast"
	"lumen/internal/syntax"
	"lumen/internal/token"
)

// Analyzer answers name queries inside one scope node.
type Analyzer struct {
	scope *syntax.Node
}

// NewAnalyzer returns an analyzer scoped to the innermost block or
// file enclosing node.
func NewAnalyzer(node *syntax.Node) *Analyzer {
	for _, anc := range node.Ancestors() {
		if anc.Kind() == syntax.KindBlock || anc.Kind() == syntax.KindFile {
			return &Analyzer{scope: anc}
		}
	}
	return &Analyzer{scope: node}
}

// Scope returns the node the analyzer is scoped to.
func (a *Analyzer) Scope() *syntax.Node { return a.scope }

// ResolveLet finds the `let` binding of name visible at the given
// offset: the closest declaration before the offset in the scope chain.
func (a *Analyzer) ResolveLet(name string, offset uint32) (ast.LetStmt, bool) {
	var found ast.LetStmt
	ok := false
	for scope := a.scope; scope != nil; scope = enclosingScope(scope) {
		for _, stmt := range scope.ChildNodes() {
			letStmt, isLet := ast.Cast[ast.LetStmt](stmt)
			if !isLet || letStmt.Name() != name {
				continue
			}
			if stmt.Span().End > offset {
				continue
			}
			// ближайшее объявление побеждает
			if !ok || stmt.Span().End > found.Syntax().Span().End {
				found = letStmt
				ok = true
			}
		}
		if ok {
			return found, true
		}
	}
	return found, ok
}

// UsagesOf returns the NameRef nodes that read the given binding,
// in source order. References before the declaration or shadowed by a
// later binding of the same name are excluded.
func (a *Analyzer) UsagesOf(let ast.LetStmt) []*syntax.Node {
	name := let.Name()
	declEnd := let.Syntax().Span().End
	scope := let.Syntax().Parent()
	if scope == nil {
		return nil
	}

	shadowStart := ^uint32(0)
	for _, stmt := range scope.ChildNodes() {
		other, isLet := ast.Cast[ast.LetStmt](stmt)
		if !isLet || other.Syntax() == let.Syntax() || other.Name() != name {
			continue
		}
		if start := stmt.Span().Start; start >= declEnd && start < shadowStart {
			shadowStart = start
		}
	}

	var out []*syntax.Node
	collectNameRefs(scope, name, &out)
	filtered := out[:0]
	for _, ref := range out {
		start := ref.Span().Start
		if start >= declEnd && start < shadowStart {
			filtered = append(filtered, ref)
		}
	}
	return filtered
}

func collectNameRefs(n *syntax.Node, name string, out *[]*syntax.Node) {
	if n.Kind() == syntax.KindNameRef {
		if ref, ok := ast.Cast[ast.NameRef](n); ok && ref.Name() == name {
			*out = append(*out, n)
		}
		return
	}
	for _, child := range n.ChildNodes() {
		collectNameRefs(child, name, out)
	}
}

func enclosingScope(n *syntax.Node) *syntax.Node {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind() == syntax.KindBlock || cur.Kind() == syntax.KindFile {
			return cur
		}
	}
	return nil
}

// GuessType infers a display type for an expression from literal
// structure alone. This is deliberately shallow; it exists so assists
// can offer annotations without a full type checker.
func (a *Analyzer) GuessType(expr *syntax.Node) (string, bool) {
	if expr == nil {
		return "", false
	}
	switch expr.Kind() {
	case syntax.KindLiteral:
		lit, ok := ast.Cast[ast.Literal](expr)
		if !ok || lit.Token() == nil {
			return "", false
		}
		switch lit.Token().Kind() {
		case token.IntLit:
			return "int", true
		case token.FloatLit:
			return "float", true
		case token.StringLit:
			return "string", true
		case token.KwTrue, token.KwFalse:
			return "bool", true
		}
	case syntax.KindParenExpr:
		paren, ok := ast.Cast[ast.ParenExpr](expr)
		if !ok {
			return "", false
		}
		return a.GuessType(paren.Inner())
	case syntax.KindBinaryExpr:
		bin, ok := ast.Cast[ast.BinaryExpr](expr)
		if !ok || bin.OpToken() == nil {
			return "", false
		}
		switch bin.OpToken().Kind() {
		case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
			token.AndAnd, token.OrOr:
			return "bool", true
		}
		left, lok := a.GuessType(bin.Lhs())
		right, rok := a.GuessType(bin.Rhs())
		if lok && rok && left == right {
			return left, true
		}
	}
	return "", false
}
