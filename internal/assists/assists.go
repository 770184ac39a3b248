// Package assists contains the pluggable transformations offered at a
// cursor position or selection. Each handler performs its structural
// pre-checks through the assist context and registers a result only
// when applicable; returning nil is the cheap, expected outcome.
package assists

import (
	"lumen/internal/assist"
	"lumen/internal/project"
)

// All returns the handler set in registration order. The order is
// stable and user-visible: it breaks ties between equally specific
// results.
func All(index *project.Index) []assist.Handler {
	return []assist.Handler{
		FlipBinExpr,
		RemoveParens,
		InlineVariable,
		ExtractVariable,
		AddExplicitType,
		AutoImport(index),
	}
}
