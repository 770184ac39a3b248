package assists

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lumen/internal/assist"
	"lumen/internal/ast"
	"lumen/internal/edit"
	"lumen/internal/project"
)

func buildTestIndex(t *testing.T) *project.Index {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "math")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := "fn sin(x: float) -> float {\n    return x;\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "trig.lum"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	idx, err := project.BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return idx
}

func TestAutoImportOffersIndexedModule(t *testing.T) {
	handler := AutoImport(buildTestIndex(t))
	text := "fn main() {\n    sin(1);\n}\n"
	at := strings.Index(text, "sin")

	checkOnly(t, handler, text, cursorAt(at), "auto-import")

	res := handler(contextAt(t, text, cursorAt(at), true))
	if res == nil {
		t.Fatalf("expected an applicable assist, got nil")
	}
	group, ok := res.Data.(assist.Group)
	if !ok {
		t.Fatalf("expected group payload, got %T", res.Data)
	}
	if len(group.Actions) != 1 {
		t.Fatalf("expected 1 import candidate, got %d", len(group.Actions))
	}
	action := group.Actions[0]
	if action.Label != "Import math::trig" {
		t.Fatalf("expected candidate label, got %q", action.Label)
	}

	out, err := edit.Apply([]byte(text), action.Edits)
	if err != nil {
		t.Fatalf("apply edits: %v", err)
	}
	want := "import math::trig;\nfn main() {\n    sin(1);\n}\n"
	if string(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}

	file, ok := ast.Cast[ast.File](reparse(t, string(out)).Root())
	if !ok {
		t.Fatalf("expected a file root in the reparsed result")
	}
	imports := file.Imports()
	if len(imports) != 1 || imports[0].PathText() != "math::trig" {
		t.Fatalf("expected the new import in the reparsed result, got %v", imports)
	}
}

func TestAutoImportInsertsAfterExistingImports(t *testing.T) {
	handler := AutoImport(buildTestIndex(t))
	text := "import core::io;\nfn main() {\n    sin(1);\n}\n"
	at := strings.Index(text, "sin")

	res := handler(contextAt(t, text, cursorAt(at), true))
	if res == nil {
		t.Fatalf("expected an applicable assist, got nil")
	}
	action := res.Actions()[0]
	out, err := edit.Apply([]byte(text), action.Edits)
	if err != nil {
		t.Fatalf("apply edits: %v", err)
	}
	want := "import core::io;\nimport math::trig;\nfn main() {\n    sin(1);\n}\n"
	if string(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestAutoImportSkipsAlreadyImported(t *testing.T) {
	handler := AutoImport(buildTestIndex(t))
	text := "import math::trig;\nfn main() {\n    sin(1);\n}\n"
	at := strings.Index(text, "sin")

	if res := handler(contextAt(t, text, cursorAt(at), true)); res != nil {
		t.Fatalf("expected nil for already imported module, got %q", res.Label.ID)
	}
}

func TestAutoImportSkipsResolvedNames(t *testing.T) {
	handler := AutoImport(buildTestIndex(t))
	text := "fn sin(x: float) -> float {\n    return x;\n}\nfn main() {\n    sin(1);\n}\n"
	at := strings.LastIndex(text, "sin")

	if res := handler(contextAt(t, text, cursorAt(at), true)); res != nil {
		t.Fatalf("expected nil for locally declared fn, got %q", res.Label.ID)
	}
}
