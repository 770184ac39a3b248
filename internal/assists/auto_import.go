package assists

import (
	"lumen/internal/assist"
	"lumen/internal/ast"
	"lumen/internal/project"
)

// AutoImport offers an import for an unresolved name at the cursor,
// one action per indexed module exporting it. With a nil index the
// handler reports itself inapplicable.
func AutoImport(index *project.Index) assist.Handler {
	return func(ctx *assist.Context) *assist.Assist {
		if index == nil {
			return nil
		}
		ref, ok := assist.FindNodeAt[ast.NameRef](ctx)
		if !ok {
			return nil
		}
		name := ref.Name()
		if name == "" || resolvesLocally(ctx, ref) {
			return nil
		}

		file, ok := ast.Cast[ast.File](ctx.Tree().Root())
		if !ok {
			return nil
		}
		candidates := importCandidates(index, file, name)
		if len(candidates) == 0 {
			return nil
		}

		return ctx.AddGroup("auto-import", "Import "+name, func() []*assist.ActionBuilder {
			offset, prefix := importInsertPoint(ctx, file)
			builders := make([]*assist.ActionBuilder, 0, len(candidates))
			for _, mod := range candidates {
				b := assist.NewActionBuilder(ctx)
				b.Insert(offset, prefix+"import "+mod+";\n")
				b.SetLabel("Import " + mod)
				b.Target(ref.Syntax().Span())
				builders = append(builders, b)
			}
			return builders
		})
	}
}

// resolvesLocally reports whether name already has a meaning in the
// file: a visible let binding or a declared function.
func resolvesLocally(ctx *assist.Context, ref ast.NameRef) bool {
	name := ref.Name()
	analyzer := ctx.Analyzer(ref.Syntax())
	if _, ok := analyzer.ResolveLet(name, ref.Syntax().Span().Start); ok {
		return true
	}
	file, ok := ast.Cast[ast.File](ctx.Tree().Root())
	if !ok {
		return false
	}
	for _, fn := range file.Fns() {
		if fn.Name() == name {
			return true
		}
	}
	return false
}

// importCandidates filters the index down to modules that export name
// and are not already imported.
func importCandidates(index *project.Index, file ast.File, name string) []string {
	imported := make(map[string]bool)
	for _, imp := range file.Imports() {
		imported[imp.PathText()] = true
	}
	var out []string
	for _, mod := range index.ModulesExporting(name) {
		if !imported[mod] {
			out = append(out, mod)
		}
	}
	return out
}

// importInsertPoint picks where a new import goes: after the last
// existing import, else at the top of the file. The prefix carries a
// newline when the insertion point does not start a line.
func importInsertPoint(ctx *assist.Context, file ast.File) (uint32, string) {
	imports := file.Imports()
	if len(imports) == 0 {
		return 0, ""
	}
	last := imports[len(imports)-1]
	end := last.Syntax().Span().End
	content := ctx.Tree().File().Content
	if end < uint32(len(content)) && content[end] == '\n' {
		return end + 1, ""
	}
	return end, "\n"
}
