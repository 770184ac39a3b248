package assists

import (
	"lumen/internal/assist"
	"lumen/internal/ast"
	"lumen/internal/syntax"
)

// RemoveParens drops parentheses that do not affect grouping: around
// atomic expressions, or when the parenthesized expression is used
// directly as a statement or initializer.
func RemoveParens(ctx *assist.Context) *assist.Assist {
	paren, ok := assist.FindNodeAt[ast.ParenExpr](ctx)
	if !ok {
		return nil
	}
	inner := paren.Inner()
	if inner == nil {
		return nil
	}
	if !redundantParens(paren.Syntax(), inner) {
		return nil
	}

	return ctx.Add("remove-parens", "Remove parentheses", func(b *assist.ActionBuilder) {
		b.Target(paren.Syntax().Span())
		b.Replace(paren.Syntax().Span(), inner.Text())
	})
}

func redundantParens(paren, inner *syntax.Node) bool {
	switch inner.Kind() {
	case syntax.KindLiteral, syntax.KindNameRef, syntax.KindPath, syntax.KindCallExpr, syntax.KindParenExpr:
		// атомарный операнд — скобки лишние всегда
		return true
	}
	parent := paren.Parent()
	if parent == nil {
		return false
	}
	// в позиции стейтмента или инициализатора скобки ничего не группируют
	return parent.Kind().IsStmt()
}
