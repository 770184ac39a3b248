package token

import "lumen/internal/source"

// TriviaKind classifies non-semantic text between tokens.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

// Trivia is a run of whitespace or comment text preceding a token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
