package assist

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"lumen/internal/ast"
	"lumen/internal/sema"
	"lumen/internal/source"
	"lumen/internal/syntax"
	"lumen/internal/token"
)

// DB supplies parsed trees and semantic views. Providers are injected
// here rather than reached through ambient state so tests can run the
// core against fakes.
type DB interface {
	// Parse returns the current immutable tree for the file.
	// Deterministic for a fixed (id, content) pair.
	Parse(id source.FileID) (*syntax.Tree, error)
	// Analyze derives a semantic view scoped to node. May be
	// expensive; call only after structural pre-checks pass.
	Analyze(node *syntax.Node) *sema.Analyzer
}

// Context carries everything one handler invocation may look at: the
// parsed file, the target range, and the execution mode. Immutable
// after construction; lifetime is a single applicability query.
type Context struct {
	db                DB
	frange            source.Span
	tree              *syntax.Tree
	shouldComputeEdit bool
}

// NewContext builds a context for the given file range. It fails only
// when the provider cannot produce a tree for the file id, which for a
// live editor document indicates a caller bug upstream.
func NewContext(db DB, frange source.Span, computeEdit bool) (*Context, error) {
	tree, err := db.Parse(frange.File)
	if err != nil {
		return nil, fmt.Errorf("assist: parse %d: %w", frange.File, err)
	}
	return &Context{
		db:                db,
		frange:            frange,
		tree:              tree,
		shouldComputeEdit: computeEdit,
	}, nil
}

// Clone returns an independent context over the same tree snapshot.
// The tree handle is shared; trees are immutable so this is cheap.
func (ctx *Context) Clone() *Context {
	copied := *ctx
	return &copied
}

// Range returns the target range of the query.
func (ctx *Context) Range() source.Span { return ctx.frange }

// Tree returns the parsed file.
func (ctx *Context) Tree() *syntax.Tree { return ctx.tree }

// ShouldComputeEdit reports whether the query wants concrete edits or
// only labels.
func (ctx *Context) ShouldComputeEdit() bool { return ctx.shouldComputeEdit }

// TokenAt returns the token covering the start of the target range.
func (ctx *Context) TokenAt() *syntax.Token {
	return ctx.tree.TokenAtOffset(ctx.frange.Start)
}

// FindTokenAt returns the token at the target offset if it has the
// requested kind.
func (ctx *Context) FindTokenAt(kind token.Kind) *syntax.Token {
	tk := ctx.TokenAt()
	if tk == nil || tk.Kind() != kind {
		return nil
	}
	return tk
}

// CoveringElement returns the smallest element containing the whole
// target range.
func (ctx *Context) CoveringElement() syntax.Element {
	return ctx.tree.CoveringElement(ctx.frange)
}

// Analyzer lazily derives a semantic view scoped to node.
func (ctx *Context) Analyzer(node *syntax.Node) *sema.Analyzer {
	return ctx.db.Analyze(node)
}

// FindNodeAt returns the innermost node of type T covering the start
// of the context's range. The zero-cost "no such ancestor" answer is
// how handlers decide non-applicability.
func FindNodeAt[T ast.Node](ctx *Context) (T, bool) {
	tk := ctx.TokenAt()
	if tk == nil || tk.Parent() == nil {
		var zero T
		return zero, false
	}
	return ast.NearestAncestor[T](tk.Parent())
}

// Add registers a single-action assist. In check-only mode populate is
// never invoked. A lowercase-first label is a bug in the handler and
// panics immediately.
func (ctx *Context) Add(id ID, label string, populate func(*ActionBuilder)) *Assist {
	assertLabel(label)
	result := &Assist{Label: Label{ID: id, Label: label}}
	if !ctx.shouldComputeEdit {
		return result
	}
	builder := newActionBuilder(ctx)
	populate(builder)
	result.Data = Single{Action: builder.build()}
	return result
}

// AddGroup registers an assist whose resolution yields alternative
// actions. The populate callback must produce at least one builder.
func (ctx *Context) AddGroup(id ID, label string, populate func() []*ActionBuilder) *Assist {
	assertLabel(label)
	result := &Assist{Label: Label{ID: id, Label: label}}
	if !ctx.shouldComputeEdit {
		return result
	}
	builders := populate()
	if len(builders) == 0 {
		panic(fmt.Errorf("assist: group %q resolved to no actions", id))
	}
	actions := make([]Action, 0, len(builders))
	for _, b := range builders {
		actions = append(actions, b.build())
	}
	result.Data = Group{Actions: actions}
	return result
}

func assertLabel(label string) {
	first, _ := utf8.DecodeRuneInString(label)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		panic(fmt.Errorf("assist: label %q must start with an uppercase letter", label))
	}
}
