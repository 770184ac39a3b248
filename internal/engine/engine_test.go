package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lumen/internal/assist"
	"lumen/internal/assists"
	"lumen/internal/source"
)

func testEngine(t *testing.T, text string, opts Options) (*Engine, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lum", []byte(text))
	db := NewDatabase(fs)
	return New(db, assists.All(nil), opts), id
}

func cursorSpan(id source.FileID, offset int) source.Span {
	return source.Span{File: id, Start: uint32(offset), End: uint32(offset)}
}

func TestListReportsOnlyApplicableHandlers(t *testing.T) {
	text := "fn main() {\n    let x = 1 < 2;\n}\n"
	eng, id := testEngine(t, text, Options{})

	labels, err := eng.List(context.Background(), cursorSpan(id, strings.Index(text, "<")))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d: %+v", len(labels), labels)
	}
	if labels[0].ID != "flip-binexpr" {
		t.Fatalf("expected flip-binexpr, got %q", labels[0].ID)
	}
}

func TestListFiltersDisabled(t *testing.T) {
	text := "fn main() {\n    let x = 1 < 2;\n}\n"
	eng, id := testEngine(t, text, Options{Disabled: []string{"flip-binexpr"}})

	labels, err := eng.List(context.Background(), cursorSpan(id, strings.Index(text, "<")))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(labels) != 0 {
		t.Fatalf("expected no labels, got %+v", labels)
	}
}

func TestResolveRecomputesById(t *testing.T) {
	text := "fn main() {\n    let x = 1;\n    return x;\n}\n"
	eng, id := testEngine(t, text, Options{})
	frange := cursorSpan(id, strings.Index(text, "x"))

	res, err := eng.Resolve(frange, "inline-variable")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.IsResolved() {
		t.Fatalf("resolved assist must carry edits")
	}
	if len(res.Actions()) != 1 {
		t.Fatalf("expected one action, got %d", len(res.Actions()))
	}
}

func TestResolveUnknownId(t *testing.T) {
	text := "fn main() {\n    let x = 1;\n}\n"
	eng, id := testEngine(t, text, Options{})

	_, err := eng.Resolve(cursorSpan(id, 0), "no-such-assist")
	if !errors.Is(err, ErrUnknownAssist) {
		t.Fatalf("expected ErrUnknownAssist, got %v", err)
	}
}

func TestResolveDisabledId(t *testing.T) {
	text := "fn main() {\n    let x = 1;\n    return x;\n}\n"
	eng, id := testEngine(t, text, Options{Disabled: []string{"inline-variable"}})

	_, err := eng.Resolve(cursorSpan(id, strings.Index(text, "x")), "inline-variable")
	if !errors.Is(err, ErrUnknownAssist) {
		t.Fatalf("expected ErrUnknownAssist for disabled id, got %v", err)
	}
}

func TestResolveAllBreaksTiesByRegistrationOrder(t *testing.T) {
	// оба ассиста целятся в имя биндинга, длина таргета одинаковая
	text := "fn main() {\n    let x = 1;\n    return x;\n}\n"
	eng, id := testEngine(t, text, Options{})

	results, err := eng.ResolveAll(cursorSpan(id, strings.Index(text, "x")))
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 assists, got %d", len(results))
	}
	if results[0].Label.ID != "inline-variable" || results[1].Label.ID != "add-explicit-type" {
		t.Fatalf("unexpected order: %q, %q", results[0].Label.ID, results[1].Label.ID)
	}
}

func TestDatabaseCachesTrees(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lum", []byte("let x = 1;\n"))
	db := NewDatabase(fs)

	first, err := db.Parse(id)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := db.Parse(id)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached tree on the second parse")
	}

	db.Invalidate(id)
	third, err := db.Parse(id)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if third == first {
		t.Fatalf("expected a fresh tree after invalidation")
	}
}

func TestDatabaseUnknownFile(t *testing.T) {
	db := NewDatabase(source.NewFileSet())
	if _, err := db.Parse(source.FileID(42)); err == nil {
		t.Fatalf("expected error for unknown file id")
	}
}

var _ assist.DB = (*Database)(nil)
