package assists

import (
	"lumen/internal/assist"
	"lumen/internal/ast"
	"lumen/internal/parser"
	"lumen/internal/source"
	"lumen/internal/token"
)

// FlipBinExpr swaps the operands of a binary expression when the
// cursor rests on the operator. Comparison operators are mirrored so
// the expression keeps its meaning.
func FlipBinExpr(ctx *assist.Context) *assist.Assist {
	expr, ok := assist.FindNodeAt[ast.BinaryExpr](ctx)
	if !ok {
		return nil
	}
	op := expr.OpToken()
	lhs, rhs := expr.Lhs(), expr.Rhs()
	if op == nil || lhs == nil || rhs == nil {
		return nil
	}
	if !op.Span().Contains(ctx.Range().Start) {
		return nil
	}
	flipped, ok := flipOperator(op.Kind())
	if !ok {
		return nil
	}

	return ctx.Add("flip-binexpr", "Flip binary expression", func(b *assist.ActionBuilder) {
		b.Target(op.Span())

		// Собираем перевёрнутое выражение заново и опускаем его в
		// правки структурным диффом: совпадающие токены не трогаются.
		fs := source.NewFileSet()
		if _, root, err := parser.ParseExprText(fs, rhs.Text()+" "+flipped+" "+lhs.Text()); err == nil {
			b.ReplaceAST(expr.Syntax(), root)
			return
		}

		if flipped != op.Text() {
			b.Replace(op.Span(), flipped)
		}
		b.Replace(lhs.Span(), rhs.Text())
		b.Replace(rhs.Span(), lhs.Text())
	})
}

// flipOperator returns the operator text after the flip. Ordering
// comparisons mirror; arithmetic on non-commutative operators is
// refused outright.
func flipOperator(kind token.Kind) (string, bool) {
	switch kind {
	case token.Plus, token.Star, token.EqEq, token.BangEq, token.AndAnd, token.OrOr:
		return kind.String(), true
	case token.Lt:
		return ">", true
	case token.LtEq:
		return ">=", true
	case token.Gt:
		return "<", true
	case token.GtEq:
		return "<=", true
	default:
		return "", false
	}
}
