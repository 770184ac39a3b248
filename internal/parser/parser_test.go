package parser

import (
	"testing"

	"lumen/internal/ast"
	"lumen/internal/source"
	"lumen/internal/syntax"
)

func parseText(t *testing.T, text string) (*syntax.Tree, []ParseError) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lum", []byte(text))
	return ParseFile(fs.Get(id))
}

func TestParseFileStructure(t *testing.T) {
	text := "import math::trig;\nfn main() {\n    let x = 1;\n    return x;\n}\n"
	tree, errs := parseText(t, text)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	file, ok := ast.Cast[ast.File](tree.Root())
	if !ok {
		t.Fatalf("expected File root, got %v", tree.Root().Kind())
	}

	imports := file.Imports()
	if len(imports) != 1 || imports[0].PathText() != "math::trig" {
		t.Fatalf("unexpected imports: %+v", imports)
	}

	fns := file.Fns()
	if len(fns) != 1 || fns[0].Name() != "main" {
		t.Fatalf("unexpected fns: %+v", fns)
	}
	body, ok := fns[0].Body()
	if !ok {
		t.Fatalf("expected fn body")
	}
	stmts := body.Stmts()
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].Kind() != syntax.KindLetStmt || stmts[1].Kind() != syntax.KindReturnStmt {
		t.Fatalf("unexpected statement kinds: %v, %v", stmts[0].Kind(), stmts[1].Kind())
	}
}

func TestParseImportAlias(t *testing.T) {
	tree, errs := parseText(t, "import math::trig as t;\n")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	file, _ := ast.Cast[ast.File](tree.Root())
	alias, ok := file.Imports()[0].Alias()
	if !ok || alias != "t" {
		t.Fatalf("expected alias 't', got %q ok=%v", alias, ok)
	}
}

func TestParsePrecedence(t *testing.T) {
	text := "let x = 1 + 2 * 3;\n"
	tree, errs := parseText(t, text)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	let, ok := ast.Cast[ast.LetStmt](tree.Root().ChildNodes()[0])
	if !ok {
		t.Fatalf("expected LetStmt")
	}
	top, ok := ast.Cast[ast.BinaryExpr](let.Initializer())
	if !ok {
		t.Fatalf("expected BinaryExpr initializer")
	}
	if top.OpToken().Text() != "+" {
		t.Fatalf("expected '+' at the top, got %q", top.OpToken().Text())
	}
	if top.Rhs().Text() != "2 * 3" {
		t.Fatalf("expected '2 * 3' on the right, got %q", top.Rhs().Text())
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	tree, errs := parseText(t, "let x = 1 - 2 - 3;\n")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	let, _ := ast.Cast[ast.LetStmt](tree.Root().ChildNodes()[0])
	top, _ := ast.Cast[ast.BinaryExpr](let.Initializer())
	if top.Lhs().Text() != "1 - 2" {
		t.Fatalf("expected left-assoc grouping, got lhs %q", top.Lhs().Text())
	}
}

func TestParseRecoversFromBadToken(t *testing.T) {
	text := "fn main() {\n    let = 1;\n    return 2;\n}\n"
	tree, errs := parseText(t, text)
	if len(errs) == 0 {
		t.Fatalf("expected parse errors")
	}
	file, ok := ast.Cast[ast.File](tree.Root())
	if !ok {
		t.Fatalf("expected File root despite errors")
	}
	body, ok := file.Fns()[0].Body()
	if !ok {
		t.Fatalf("expected fn body despite errors")
	}
	found := false
	for _, stmt := range body.Stmts() {
		if stmt.Kind() == syntax.KindReturnStmt {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the return statement after the bad one")
	}
}

func TestParseExprTextFragment(t *testing.T) {
	fs := source.NewFileSet()
	_, root, err := ParseExprText(fs, "(1 + 2)")
	if err != nil {
		t.Fatalf("ParseExprText: %v", err)
	}
	if root.Kind() != syntax.KindParenExpr {
		t.Fatalf("expected ParenExpr, got %v", root.Kind())
	}

	if _, _, err := ParseExprText(fs, "1 +"); err == nil {
		t.Fatalf("expected error for broken fragment")
	}
}
