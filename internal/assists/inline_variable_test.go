package assists

import (
	"strings"
	"testing"

	"lumen/internal/syntax"
)

func TestInlineVariableWrapsBinaryInitializer(t *testing.T) {
	text := "fn main() {\n    let x = 1 + 2;\n    return x * 3;\n}\n"
	at := strings.Index(text, "x")

	checkOnly(t, InlineVariable, text, cursorAt(at), "inline-variable")

	res := InlineVariable(contextAt(t, text, cursorAt(at), true))
	out, action := applySingle(t, text, res)
	want := "fn main() {\n    return (1 + 2) * 3;\n}\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
	if action.Cursor == nil {
		t.Fatalf("expected a cursor position")
	}
	if wantCursor := uint32(strings.Index(out, "(")); *action.Cursor != wantCursor {
		t.Fatalf("expected cursor at %d, got %d", wantCursor, *action.Cursor)
	}
	if action.Target == nil || action.Target.Start != uint32(at) {
		t.Fatalf("expected target on the binding name, got %v", action.Target)
	}

	tree := reparse(t, out)
	if let := findKind(tree.Root(), syntax.KindLetStmt); let != nil {
		t.Fatalf("expected the binding to be gone, got %q", let.Text())
	}
	expr := findKind(tree.Root(), syntax.KindBinaryExpr)
	if expr == nil || expr.Text() != "(1 + 2) * 3" {
		t.Fatalf("expected inlined expression in the reparsed result, got %v", expr)
	}
}

func TestInlineVariablePlainInitializer(t *testing.T) {
	text := "fn main() {\n    let x = 1;\n    return x;\n}\n"
	at := strings.Index(text, "x")

	res := InlineVariable(contextAt(t, text, cursorAt(at), true))
	out, _ := applySingle(t, text, res)
	want := "fn main() {\n    return 1;\n}\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestInlineVariableReplacesEveryUsage(t *testing.T) {
	text := "fn main() {\n    let x = 1;\n    let y = x + x;\n    return y;\n}\n"
	at := strings.Index(text, "x")

	res := InlineVariable(contextAt(t, text, cursorAt(at), true))
	out, _ := applySingle(t, text, res)
	want := "fn main() {\n    let y = 1 + 1;\n    return y;\n}\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestInlineVariableNeedsUsages(t *testing.T) {
	text := "fn main() {\n    let x = 1;\n}\n"
	at := strings.Index(text, "x")

	if res := InlineVariable(contextAt(t, text, cursorAt(at), true)); res != nil {
		t.Fatalf("expected nil for unused binding, got %q", res.Label.ID)
	}
}

func TestInlineVariableFromInitializerSide(t *testing.T) {
	// курсор на `+` внутри инициализатора тоже считается
	text := "fn main() {\n    let x = 1 + 1;\n    return x;\n}\n"
	at := strings.Index(text, "+")

	checkOnly(t, InlineVariable, text, cursorAt(at), "inline-variable")

	res := InlineVariable(contextAt(t, text, cursorAt(at), true))
	out, _ := applySingle(t, text, res)
	want := "fn main() {\n    return 1 + 1;\n}\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestInlineVariableNotOfferedOutsideDeclaration(t *testing.T) {
	text := "fn main() {\n    let x = 1;\n    return x;\n}\n"
	at := strings.LastIndex(text, "x")

	if res := InlineVariable(contextAt(t, text, cursorAt(at), true)); res != nil {
		t.Fatalf("expected nil at a usage site, got %q", res.Label.ID)
	}
}
