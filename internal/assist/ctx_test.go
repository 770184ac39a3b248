package assist_test

import (
	"strings"
	"testing"

	"lumen/internal/assist"
	"lumen/internal/engine"
	"lumen/internal/source"
)

func contextFor(t *testing.T, text string, span source.Span, compute bool) *assist.Context {
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

func TestCheckModeSkipsPopulate(t *testing.T) {
	ctx := contextFor(t, "let x = 1;\n", source.Span{}, false)

	populated := false
	res := ctx.Add("demo", "Demo assist", func(b *assist.ActionBuilder) {
		populated = true
	})
	if populated {
		t.Fatalf("populate must not run in check-only mode")
	}
	if res.IsResolved() {
		t.Fatalf("check-only result must carry no data, got %T", res.Data)
	}
	if res.Label.ID != "demo" || res.Label.Label != "Demo assist" {
		t.Fatalf("unexpected label: %+v", res.Label)
	}
}

func TestComputeModeBuildsSingleAction(t *testing.T) {
	text := "let x = 1;\n"
	ctx := contextFor(t, text, source.Span{}, true)

	res := ctx.Add("demo", "Demo assist", func(b *assist.ActionBuilder) {
		b.Replace(source.Span{Start: 8, End: 9}, "2")
	})
	if !res.IsResolved() {
		t.Fatalf("compute mode must resolve the assist")
	}
	actions := res.Actions()
	if len(actions) != 1 || len(actions[0].Edits) != 1 {
		t.Fatalf("expected one action with one edit, got %+v", actions)
	}
}

func TestLowercaseLabelPanics(t *testing.T) {
	ctx := contextFor(t, "let x = 1;\n", source.Span{}, false)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic for lowercase label")
		}
		if !strings.Contains(r.(error).Error(), "uppercase") {
			t.Fatalf("unexpected panic message: %v", r)
		}
	}()
	ctx.Add("demo", "demo assist", func(b *assist.ActionBuilder) {})
}

func TestEmptyGroupPanics(t *testing.T) {
	ctx := contextFor(t, "let x = 1;\n", source.Span{}, true)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty group")
		}
	}()
	ctx.AddGroup("demo", "Demo group", func() []*assist.ActionBuilder { return nil })
}

func TestOverlappingEditsPanic(t *testing.T) {
	ctx := contextFor(t, "let x = 1;\n", source.Span{}, true)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for overlapping edits")
		}
	}()
	ctx.Add("demo", "Demo assist", func(b *assist.ActionBuilder) {
		b.Replace(source.Span{Start: 0, End: 5}, "a")
		b.Replace(source.Span{Start: 3, End: 7}, "b")
	})
}

func TestFindTokenAtChecksKind(t *testing.T) {
	text := "let x = 1;\n"
	ctx := contextFor(t, text, source.Span{Start: 4, End: 4}, false)

	if tk := ctx.TokenAt(); tk == nil || tk.Text() != "x" {
		t.Fatalf("expected token 'x' at offset 4, got %v", tk)
	}
}
