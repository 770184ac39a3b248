package assists

import (
	"lumen/internal/assist"
	"lumen/internal/format"
	"lumen/internal/syntax"
)

// ExtractVariable hoists the selected expression into a fresh `let`
// binding inserted before the enclosing statement. Requires a
// non-empty selection covered by a single expression.
func ExtractVariable(ctx *assist.Context) *assist.Assist {
	frange := ctx.Range()
	if frange.Empty() {
		return nil
	}
	expr := coveringExpr(ctx)
	if expr == nil {
		return nil
	}
	anchor := enclosingStmt(expr)
	if anchor == nil {
		return nil
	}

	return ctx.Add("extract-variable", "Extract variable", func(b *assist.ActionBuilder) {
		const name = "extracted"
		decl := "let " + name + " = " + expr.Text() + ";"

		anchorStart := anchor.Span().Start
		if anchorStart == expr.Span().Start {
			// выражение открывает стейтмент: одна замена вместо
			// вставки плюс замены с общей стартовой точкой
			b.ReplaceNodeAndIndent(anchor, decl+"\n"+name+anchor.Text()[expr.Span().Len():])
		} else {
			indent := indentOf(anchor)
			b.Insert(anchorStart, decl+"\n"+indent)
			b.Replace(expr.Span(), name)
		}
		b.SetCursor(anchorStart + uint32(len("let ")))
		b.Target(expr.Span())
	})
}

// coveringExpr returns the smallest expression node that covers the
// selection, or nil when the selection does not line up with one.
func coveringExpr(ctx *assist.Context) *syntax.Node {
	el := ctx.CoveringElement()
	if el == nil {
		return nil
	}
	node, ok := el.(*syntax.Node)
	if !ok {
		node = el.Parent()
	}
	for ; node != nil; node = node.Parent() {
		if node.Kind().IsExpr() {
			return node
		}
	}
	return nil
}

func indentOf(n *syntax.Node) string {
	indent, _ := format.LeadingIndent(n)
	return indent
}

func enclosingStmt(expr *syntax.Node) *syntax.Node {
	for _, anc := range expr.Ancestors() {
		if anc.Kind().IsStmt() {
			return anc
		}
	}
	return nil
}
