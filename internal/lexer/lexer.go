package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"lumen/internal/source"
	"lumen/internal/token"
)

// Lexer produces tokens for a single Lumen source file.
// Whitespace and comments are collected as leading trivia of the
// following significant token, which keeps the token stream lossless.
type Lexer struct {
	file  *source.File
	off   uint32
	limit uint32
	look  *token.Token   // 1-элементный буфер для токена
	hold  []token.Trivia // накопленные leading trivia
}

func New(file *source.File) *Lexer {
	limit, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return &Lexer{
		file:  file,
		off:   0,
		limit: limit,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.eof() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.spanFrom(lx.off),
			Text: "",
		}
	}

	ch := lx.peek()
	var tok token.Token

	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil

	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) eof() bool {
	return lx.off >= lx.limit
}

func (lx *Lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.file.Content[lx.off]
}

func (lx *Lexer) peekAt(n uint32) byte {
	if lx.off+n >= lx.limit {
		return 0
	}
	return lx.file.Content[lx.off+n]
}

func (lx *Lexer) bump() {
	if !lx.eof() {
		lx.off++
	}
}

func (lx *Lexer) spanFrom(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

// collectLeadingTrivia набивает lx.hold пробелами, переводами строк и комментариями.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.eof() {
		start := lx.off
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t':
			for !lx.eof() && (lx.peek() == ' ' || lx.peek() == '\t') {
				lx.bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case ch == '\n' || ch == '\r':
			lx.bump()
			lx.pushTrivia(token.TriviaNewline, start)
		case ch == '/' && lx.peekAt(1) == '/':
			for !lx.eof() && lx.peek() != '\n' {
				lx.bump()
			}
			lx.pushTrivia(token.TriviaLineComment, start)
		case ch == '/' && lx.peekAt(1) == '*':
			lx.bump()
			lx.bump()
			for !lx.eof() {
				if lx.peek() == '*' && lx.peekAt(1) == '/' {
					lx.bump()
					lx.bump()
					break
				}
				lx.bump()
			}
			lx.pushTrivia(token.TriviaBlockComment, start)
		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start uint32) {
	sp := lx.spanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: lx.text(sp),
	})
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.off
	for !lx.eof() && isIdentContinue(lx.peek()) {
		lx.bump()
	}
	sp := lx.spanFrom(start)
	text := lx.text(sp)
	kind := token.Ident
	if kw, ok := token.LookupKeyword(text); ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.off
	kind := token.IntLit
	for !lx.eof() && (isDec(lx.peek()) || lx.peek() == '_') {
		lx.bump()
	}
	if lx.peek() == '.' && isDec(lx.peekAt(1)) {
		kind = token.FloatLit
		lx.bump()
		for !lx.eof() && (isDec(lx.peek()) || lx.peek() == '_') {
			lx.bump()
		}
	}
	sp := lx.spanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.off
	lx.bump() // открывающая кавычка
	for !lx.eof() {
		switch lx.peek() {
		case '\\':
			lx.bump()
			lx.bump()
		case '"':
			lx.bump()
			sp := lx.spanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\n':
			// незакрытая строка обрывается на конце строки
			sp := lx.spanFrom(start)
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			lx.bump()
		}
	}
	sp := lx.spanFrom(start)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.off
	ch := lx.peek()
	next := lx.peekAt(1)
	kind := token.Invalid
	size := uint32(1)

	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		if next == '>' {
			kind, size = token.Arrow, 2
		} else {
			kind = token.Minus
		}
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '=':
		if next == '=' {
			kind, size = token.EqEq, 2
		} else {
			kind = token.Assign
		}
	case '!':
		if next == '=' {
			kind, size = token.BangEq, 2
		} else {
			kind = token.Bang
		}
	case '<':
		if next == '=' {
			kind, size = token.LtEq, 2
		} else {
			kind = token.Lt
		}
	case '>':
		if next == '=' {
			kind, size = token.GtEq, 2
		} else {
			kind = token.Gt
		}
	case '&':
		if next == '&' {
			kind, size = token.AndAnd, 2
		}
	case '|':
		if next == '|' {
			kind, size = token.OrOr, 2
		}
	case ':':
		if next == ':' {
			kind, size = token.ColonColon, 2
		} else {
			kind = token.Colon
		}
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	}

	for i := uint32(0); i < size; i++ {
		lx.bump()
	}
	sp := lx.spanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func isDec(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDec(ch)
}
