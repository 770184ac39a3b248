// Package edit holds the textual edit primitive: ordered,
// non-overlapping replace/insert/delete operations over one file.
package edit

import (
	"fmt"
	"sort"

	"lumen/internal/source"
)

// TextEdit replaces the text covered by Span with NewText.
// Insertions use an empty span, deletions an empty NewText.
// OldText, when non-empty, guards application: the current buffer
// content must match or the edit is rejected.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// IsInsert reports whether the edit inserts without removing text.
func (e TextEdit) IsInsert() bool { return e.Span.Empty() }

// Conflicts reports whether two edits' spans overlap.
// Spans are half-open [Start, End). Two insertions at the same offset
// conflict; an insertion inside a replaced range conflicts with it.
func Conflicts(a, b TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return aStart == bStart
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// Sort orders edits by start offset, longer spans first on ties.
func Sort(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start == edits[j].Span.Start {
			return edits[i].Span.End > edits[j].Span.End
		}
		return edits[i].Span.Start < edits[j].Span.Start
	})
}

// Validate checks pairwise disjointness of the edits.
func Validate(edits []TextEdit) error {
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if Conflicts(edits[i], edits[j]) {
				return fmt.Errorf("edit: overlapping spans %s and %s", edits[i].Span, edits[j].Span)
			}
		}
	}
	return nil
}

// Apply performs the edits against content and returns the new buffer.
// Edits are applied back to front so earlier offsets stay valid; a
// failed old-text guard or an out-of-range span aborts with an error
// and the original content is returned untouched.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	if err := Validate(edits); err != nil {
		return content, err
	}

	ordered := make([]TextEdit, len(edits))
	copy(ordered, edits)
	Sort(ordered)

	working := append([]byte(nil), content...)
	// применяем с конца, чтобы офсеты не съезжали
	for i := len(ordered) - 1; i >= 0; i-- {
		e := ordered[i]
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < 0 || end < start || end > len(working) {
			return content, fmt.Errorf("edit: span %s out of range", e.Span)
		}
		if e.OldText != "" && string(working[start:end]) != e.OldText {
			return content, fmt.Errorf("edit: existing text does not match expected content at %s", e.Span)
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], []byte(e.NewText)...), suffix...)
	}
	return working, nil
}

// MapOffset translates a pre-edit offset into the post-edit buffer,
// assuming the given edits were applied. Offsets inside a replaced
// range map to the start of the replacement.
func MapOffset(edits []TextEdit, offset uint32) uint32 {
	ordered := make([]TextEdit, len(edits))
	copy(ordered, edits)
	Sort(ordered)

	delta := int64(0)
	for _, e := range ordered {
		if e.Span.Start >= offset {
			break
		}
		if e.Span.End > offset {
			return uint32(int64(e.Span.Start) + delta)
		}
		delta += int64(len(e.NewText)) - int64(e.Span.Len())
	}
	return uint32(int64(offset) + delta)
}
