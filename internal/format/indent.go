// Package format provides text shaping helpers for generated edits.
package format

import (
	"strings"

	"lumen/internal/syntax"
	"lumen/internal/token"
)

// LeadingIndent returns the whitespace between the start of the node's
// line and the node itself. The second result is false when the node
// does not start a line.
func LeadingIndent(node *syntax.Node) (string, bool) {
	first := node.FirstToken()
	if first == nil {
		return "", false
	}
	leading := first.Leading()
	if len(leading) == 0 {
		return "", false
	}
	last := leading[len(leading)-1]
	switch last.Kind {
	case token.TriviaNewline:
		// узел стоит в начале строки без отступа
		return "", true
	case token.TriviaSpace:
		if len(leading) >= 2 && leading[len(leading)-2].Kind == token.TriviaNewline {
			return last.Text, true
		}
	}
	return "", false
}

// Reindent prefixes every line of text after the first with indent,
// preserving the text's own relative indentation.
func Reindent(text, indent string) string {
	if indent == "" {
		return text
	}
	return strings.ReplaceAll(text, "\n", "\n"+indent)
}
