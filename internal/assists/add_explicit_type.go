package assists

import (
	"lumen/internal/assist"
	"lumen/internal/ast"
)

// AddExplicitType annotates a `let` binding with the type guessed from
// its initializer. Offered only when the binding has no annotation and
// the guess succeeds.
func AddExplicitType(ctx *assist.Context) *assist.Assist {
	let, ok := assist.FindNodeAt[ast.LetStmt](ctx)
	if !ok {
		return nil
	}
	if !cursorOnBinding(ctx, let) || let.TypeRef() != nil {
		return nil
	}
	nameNode := let.NameNode()
	init := let.Initializer()
	if nameNode == nil || init == nil {
		return nil
	}
	ty, ok := ctx.Analyzer(let.Syntax()).GuessType(init)
	if !ok {
		return nil
	}

	return ctx.Add("add-explicit-type", "Add explicit type", func(b *assist.ActionBuilder) {
		b.Insert(nameNode.Span().End, ": "+ty)
		b.Target(nameNode.Span())
	})
}

// cursorOnBinding reports whether the context offset is on the
// declaration side of the let, before the `=`. An annotation offered
// from deep inside the initializer would be noise.
func cursorOnBinding(ctx *assist.Context, let ast.LetStmt) bool {
	offset := ctx.Range().Start
	stmtSpan := let.Syntax().Span()
	boundary := stmtSpan.End
	if assign := let.AssignToken(); assign != nil {
		boundary = assign.Span().Start
	}
	return stmtSpan.Start <= offset && offset < boundary
}
