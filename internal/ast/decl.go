package ast

import (
	"strings"

	"lumen/internal/syntax"
	"lumen/internal/token"
)

// File is the root of a parsed source file.
type File struct{ n *syntax.Node }

func (f File) Syntax() *syntax.Node { return f.n }
func (File) kind() syntax.Kind { return syntax.KindFile }
func (File) with(n *syntax.Node) Node { return File{n: n} }

// Imports returns the file's import declarations in source order.
func (f File) Imports() []ImportDecl {
	var out []ImportDecl
	for _, child := range f.n.ChildNodes() {
		if imp, ok := Cast[ImportDecl](child); ok {
			out = append(out, imp)
		}
	}
	return out
}

// Fns returns the file's function declarations in source order.
func (f File) Fns() []FnDecl {
	var out []FnDecl
	for _, child := range f.n.ChildNodes() {
		if fn, ok := Cast[FnDecl](child); ok {
			out = append(out, fn)
		}
	}
	return out
}

// ImportDecl is `import path::to::module;` with an optional alias.
type ImportDecl struct{ n *syntax.Node }

func (d ImportDecl) Syntax() *syntax.Node { return d.n }
func (ImportDecl) kind() syntax.Kind { return syntax.KindImportDecl }
func (ImportDecl) with(n *syntax.Node) Node { return ImportDecl{n: n} }

// PathText returns the dotted module path as written, e.g. "math::trig".
func (d ImportDecl) PathText() string {
	path := d.n.FirstChildOfKind(syntax.KindPath)
	if path == nil {
		return ""
	}
	var sb strings.Builder
	for _, el := range path.Children() {
		sb.WriteString(el.Text())
	}
	return sb.String()
}

// Alias returns the `as name` alias if present.
func (d ImportDecl) Alias() (string, bool) {
	if asTok := d.n.TokenOfKind(token.KwAs); asTok == nil {
		return "", false
	}
	name := d.n.FirstChildOfKind(syntax.KindName)
	if name == nil {
		return "", false
	}
	return name.Text(), true
}

// FnDecl is a function declaration with its parameter list and body.
type FnDecl struct{ n *syntax.Node }

func (d FnDecl) Syntax() *syntax.Node { return d.n }
func (FnDecl) kind() syntax.Kind { return syntax.KindFnDecl }
func (FnDecl) with(n *syntax.Node) Node { return FnDecl{n: n} }

// Name returns the function's declared name.
func (d FnDecl) Name() string {
	if name := d.n.FirstChildOfKind(syntax.KindName); name != nil {
		return name.Text()
	}
	return ""
}

// Body returns the function body block.
func (d FnDecl) Body() (Block, bool) {
	return Cast[Block](d.n.FirstChildOfKind(syntax.KindBlock))
}

// Params returns the parameter names in declaration order.
func (d FnDecl) Params() []string {
	list := d.n.FirstChildOfKind(syntax.KindParamList)
	if list == nil {
		return nil
	}
	var out []string
	for _, p := range list.ChildNodes() {
		if p.Kind() != syntax.KindParam {
			continue
		}
		if name := p.FirstChildOfKind(syntax.KindName); name != nil {
			out = append(out, name.Text())
		}
	}
	return out
}
