// Package assist implements the two-phase protocol behind structural
// code actions.
//
// The workflow has two phases. First the editor asks for the list of
// assists available at a position: every handler runs against a
// check-only Context and reports at most a label. Then the user picks
// one assist and it is applied: the same handler runs again, this time
// computing the concrete edit. Source text may have changed between
// the phases, so the apply pass re-derives applicability from scratch
// and never trusts the earlier verdict. Sharing one handler body for
// both phases is what keeps the two verdicts from diverging.
package assist

import (
	"lumen/internal/edit"
	"lumen/internal/source"
)

// ID is a stable identifier of one assist, e.g. "inline-variable".
type ID string

// Label pairs an assist's identity with its human-readable title.
// The title's first character is uppercase by UI convention; the
// registration entry point enforces this.
type Label struct {
	ID    ID
	Label string
}

// Action is the finalized output of one applicable assist: the text
// edit plus presentation metadata. Immutable after build.
type Action struct {
	// Edits are ordered and pairwise disjoint.
	Edits []edit.TextEdit
	// Cursor is the desired caret offset after applying, if any.
	Cursor *uint32
	// Target is the span the assist is most relevant to. Smaller
	// targets sort first when several assists are offered together.
	Target *source.Span
	// Label overrides the assist label for this particular action.
	// Used by group members that need distinguishing titles.
	Label string
}

// ActionData is the payload of a resolved assist: exactly one action,
// or a non-empty ordered group of alternative actions.
type ActionData interface {
	isActionData()
}

// Single wraps the common case of one concrete action.
type Single struct {
	Action Action
}

// Group wraps alternative variants of the same assist, e.g. several
// import candidates. Never empty.
type Group struct {
	Actions []Action
}

func (Single) isActionData() {}
func (Group) isActionData()  {}

// Assist is the result of one applicable handler. Data is nil in
// check-only mode (the label is known, the edit was never computed).
type Assist struct {
	Label Label
	Data  ActionData
}

// IsResolved reports whether the assist carries a computed edit.
func (a *Assist) IsResolved() bool { return a.Data != nil }

// Actions returns the assist's actions regardless of payload shape.
// Nil for an unresolved assist.
func (a *Assist) Actions() []Action {
	switch data := a.Data.(type) {
	case Single:
		return []Action{data.Action}
	case Group:
		return data.Actions
	default:
		return nil
	}
}

// Handler is one pluggable assist. It inspects the context and returns
// nil when not applicable; otherwise it registers itself via
// Context.Add or Context.AddGroup and returns the result.
type Handler func(*Context) *Assist
