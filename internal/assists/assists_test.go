package assists

import (
	"testing"

	"lumen/internal/assist"
	"lumen/internal/edit"
	"lumen/internal/engine"
	"lumen/internal/parser"
	"lumen/internal/source"
	"lumen/internal/syntax"
)

// contextAt parses text into a fresh database and builds a context for
// the given range within it.
func contextAt(t *testing.T, text string, span source.Span, compute bool) *assist.Context {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lum", []byte(text))
	span.File = id
	ctx, err := assist.NewContext(engine.NewDatabase(fs), span, compute)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

func cursorAt(offset int) source.Span {
	return source.Span{Start: uint32(offset), End: uint32(offset)}
}

// applySingle applies a resolved single-action assist to text.
func applySingle(t *testing.T, text string, res *assist.Assist) (string, assist.Action) {
	t.Helper()
	if res == nil {
		t.Fatalf("expected an applicable assist, got nil")
	}
	single, ok := res.Data.(assist.Single)
	if !ok {
		t.Fatalf("expected single action payload, got %T", res.Data)
	}
	out, err := edit.Apply([]byte(text), single.Action.Edits)
	if err != nil {
		t.Fatalf("apply edits: %v", err)
	}
	return string(out), single.Action
}

// reparse parses an applied result and fails the test on any syntax
// error: an assist must never leave the file unparseable.
func reparse(t *testing.T, text string) *syntax.Tree {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("applied.lum", []byte(text))
	tree, errs := parser.ParseFile(fs.Get(id))
	if len(errs) > 0 {
		t.Fatalf("applied result does not reparse: %v", errs)
	}
	return tree
}

// findKind returns the first node of the given kind, depth first.
func findKind(n *syntax.Node, kind syntax.Kind) *syntax.Node {
	if n.Kind() == kind {
		return n
	}
	for _, child := range n.ChildNodes() {
		if found := findKind(child, kind); found != nil {
			return found
		}
	}
	return nil
}

// checkOnly runs a handler in check-only mode and asserts the verdict
// carries a label but no edits.
func checkOnly(t *testing.T, handler assist.Handler, text string, span source.Span, wantID assist.ID) {
	t.Helper()
	res := handler(contextAt(t, text, span, false))
	if res == nil {
		t.Fatalf("check pass: expected applicable, got nil")
	}
	if res.IsResolved() {
		t.Fatalf("check pass must not compute edits, got %T", res.Data)
	}
	if res.Label.ID != wantID {
		t.Fatalf("expected id %q, got %q", wantID, res.Label.ID)
	}
}
