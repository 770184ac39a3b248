package assist

import (
	"fmt"

	"lumen/internal/edit"
	"lumen/internal/format"
	"lumen/internal/source"
	"lumen/internal/syntax"
)

// ActionBuilder accumulates the pieces of one Action. Single-use: the
// registration entry point builds it, hands it to the handler's
// populate callback, and finalizes it exactly once.
type ActionBuilder struct {
	ctx    *Context
	edits  []edit.TextEdit
	cursor *uint32
	target *source.Span
	label  string
	built  bool
}

func newActionBuilder(ctx *Context) *ActionBuilder {
	return &ActionBuilder{ctx: ctx}
}

// NewActionBuilder returns a standalone builder for the context.
// Exposed for group handlers that construct several actions.
func NewActionBuilder(ctx *Context) *ActionBuilder {
	return newActionBuilder(ctx)
}

// Replace replaces the text covered by span with the given string.
func (b *ActionBuilder) Replace(span source.Span, text string) {
	b.edits = append(b.edits, edit.TextEdit{Span: span, NewText: text})
}

// ReplaceGuarded replaces span with text, recording the expected old
// content so stale applications fail instead of corrupting the file.
func (b *ActionBuilder) ReplaceGuarded(span source.Span, text, expect string) {
	b.edits = append(b.edits, edit.TextEdit{Span: span, NewText: text, OldText: expect})
}

// Insert appends text at the given offset.
func (b *ActionBuilder) Insert(offset uint32, text string) {
	span := source.Span{File: b.ctx.frange.File, Start: offset, End: offset}
	b.edits = append(b.edits, edit.TextEdit{Span: span, NewText: text})
}

// Delete removes the text covered by span.
func (b *ActionBuilder) Delete(span source.Span) {
	b.edits = append(b.edits, edit.TextEdit{Span: span})
}

// ReplaceNodeAndIndent replaces node with text, reindenting every line
// of text to the node's existing leading indentation first. Naively
// replacing a multi-line node would misalign its continuation lines.
func (b *ActionBuilder) ReplaceNodeAndIndent(node *syntax.Node, text string) {
	if indent, ok := format.LeadingIndent(node); ok {
		text = format.Reindent(text, indent)
	}
	b.Replace(node.Span(), text)
}

// ReplaceAST lowers a structural diff of two trees into text edits.
// Preferred over hand-computed spans when a handler rewrites a whole
// syntactic value.
func (b *ActionBuilder) ReplaceAST(old, new *syntax.Node) {
	for _, r := range syntax.Diff(old, new) {
		b.Replace(r.Old, r.New)
	}
}

// SetCursor records the desired caret offset after applying.
// Last write wins; an action holds at most one cursor position.
func (b *ActionBuilder) SetCursor(offset uint32) {
	b.cursor = &offset
}

// Target records the span the action is most specific to.
// Targets rank simultaneously offered assists: smaller sorts first.
func (b *ActionBuilder) Target(span source.Span) {
	b.target = &span
}

// SetLabel overrides the assist label for this particular action.
func (b *ActionBuilder) SetLabel(label string) {
	b.label = label
}

// build freezes the accumulated state into an Action. Overlapping
// edits or a second build are handler bugs and panic.
func (b *ActionBuilder) build() Action {
	if b.built {
		panic(fmt.Errorf("assist: action built twice"))
	}
	b.built = true
	if err := edit.Validate(b.edits); err != nil {
		panic(fmt.Errorf("assist: %w", err))
	}
	edit.Sort(b.edits)
	return Action{
		Edits:  b.edits,
		Cursor: b.cursor,
		Target: b.target,
		Label:  b.label,
	}
}
