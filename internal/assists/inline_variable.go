package assists

import (
	"lumen/internal/assist"
	"lumen/internal/ast"
	"lumen/internal/edit"
	"lumen/internal/format"
	"lumen/internal/source"
	"lumen/internal/syntax"
)

// InlineVariable replaces every usage of a `let` binding with its
// initializer and removes the binding. Any cursor position inside the
// declaration qualifies, the initializer included.
func InlineVariable(ctx *assist.Context) *assist.Assist {
	let, ok := assist.FindNodeAt[ast.LetStmt](ctx)
	if !ok {
		return nil
	}
	init := let.Initializer()
	nameNode := let.NameNode()
	if init == nil || nameNode == nil {
		return nil
	}
	analyzer := ctx.Analyzer(let.Syntax())
	usages := analyzer.UsagesOf(let)
	if len(usages) == 0 {
		return nil
	}

	return ctx.Add("inline-variable", "Inline variable", func(b *assist.ActionBuilder) {
		delSpan := stmtLineSpan(ctx.Tree(), let.Syntax())
		replacement := init.Text()

		edits := []edit.TextEdit{{Span: delSpan}}
		for _, usage := range usages {
			text := replacement
			if needsParens(init, usage) {
				text = "(" + text + ")"
			}
			edits = append(edits, edit.TextEdit{Span: usage.Span(), NewText: text})
			b.Replace(usage.Span(), text)
		}
		b.Delete(delSpan)

		b.SetCursor(edit.MapOffset(edits, usages[0].Span().Start))
		b.Target(nameNode.Span())
	})
}

// stmtLineSpan widens a statement span to swallow its leading indent
// and the trailing newline, so deleting it leaves no blank line.
func stmtLineSpan(tree *syntax.Tree, stmt *syntax.Node) source.Span {
	span := stmt.Span()
	if indent, ok := format.LeadingIndent(stmt); ok {
		span.Start -= uint32(len(indent))
	}
	content := tree.File().Content
	if span.End < uint32(len(content)) && content[span.End] == '\n' {
		span.End++
	}
	return span
}

// needsParens reports whether the inlined initializer must be wrapped
// to survive the precedence of the usage site.
func needsParens(init, usage *syntax.Node) bool {
	switch init.Kind() {
	case syntax.KindBinaryExpr, syntax.KindUnaryExpr:
	default:
		return false
	}
	parent := usage.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case syntax.KindBinaryExpr, syntax.KindUnaryExpr:
		return true
	case syntax.KindCallExpr:
		// в позиции callee скобки обязательны, в аргументах — нет
		call, ok := ast.Cast[ast.CallExpr](parent)
		return ok && call.Callee() == usage
	default:
		return false
	}
}
