// Package parser builds the lossless syntax tree for Lumen sources.
// The parser is error-tolerant: unexpected tokens are wrapped into
// Error nodes and parsing continues, so assists can work on files the
// user is still typing.
package parser

import (
	"fmt"

	"lumen/internal/lexer"
	"lumen/internal/source"
	"lumen/internal/syntax"
	"lumen/internal/token"
)

// ParseError records one recoverable syntax error.
type ParseError struct {
	Span source.Span
	Msg  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse: %s at %s", e.Msg, e.Span)
}

type parser struct {
	lx     *lexer.Lexer
	errors []ParseError
}

// ParseFile parses a whole file into a syntax tree.
// Top-level statements are allowed alongside imports and functions,
// which keeps scratch files and editor snippets parseable.
func ParseFile(file *source.File) (*syntax.Tree, []ParseError) {
	p := &parser{lx: lexer.New(file)}

	var children []syntax.Element
	for !p.at(token.EOF) {
		switch {
		case p.at(token.KwImport):
			children = append(children, p.parseImport())
		case p.at(token.KwFn):
			children = append(children, p.parseFn())
		case p.at(token.KwLet), p.at(token.KwReturn):
			children = append(children, p.parseStmt())
		default:
			if el := p.parseStmtOrBail(); el != nil {
				children = append(children, el)
			}
		}
	}
	root := syntax.NewNode(syntax.KindFile, children...)
	return syntax.NewTree(file, root), p.errors
}

// ParseExprText parses a standalone expression fragment, registering it
// as a virtual file in the given FileSet. Assists use this to build
// replacement trees from generated text.
func ParseExprText(fs *source.FileSet, text string) (*syntax.Tree, *syntax.Node, error) {
	id := fs.AddVirtual("fragment.lum", []byte(text))
	file := fs.Get(id)
	p := &parser{lx: lexer.New(file)}
	expr := p.parseExpr(0)
	if expr == nil || len(p.errors) > 0 {
		return nil, nil, fmt.Errorf("parser: invalid expression fragment %q", text)
	}
	tree := syntax.NewTree(file, expr)
	return tree, tree.Root(), nil
}

func (p *parser) at(kind token.Kind) bool {
	return p.lx.Peek().Kind == kind
}

func (p *parser) bump() *syntax.Token {
	return syntax.NewToken(p.lx.Next())
}

func (p *parser) expect(kind token.Kind) *syntax.Token {
	if p.at(kind) {
		return p.bump()
	}
	got := p.lx.Peek()
	p.errors = append(p.errors, ParseError{
		Span: got.Span,
		Msg:  fmt.Sprintf("expected %s, got %s", kind, got.Kind),
	})
	return nil
}

func appendNode(children []syntax.Element, n *syntax.Node) []syntax.Element {
	if n == nil {
		return children
	}
	return append(children, n)
}

func appendTok(children []syntax.Element, tk *syntax.Token) []syntax.Element {
	if tk == nil {
		return children
	}
	return append(children, tk)
}

// parseStmtOrBail wraps an unexpected token into an Error node so the
// main loop always makes progress.
func (p *parser) parseStmtOrBail() syntax.Element {
	if p.at(token.Ident) || p.at(token.LParen) || p.lx.Peek().IsLiteral() ||
		p.at(token.Bang) || p.at(token.Minus) {
		return p.parseStmt()
	}
	bad := p.bump()
	p.errors = append(p.errors, ParseError{
		Span: bad.Span(),
		Msg:  fmt.Sprintf("unexpected token %s", bad.Kind()),
	})
	return syntax.NewNode(syntax.KindError, bad)
}

func (p *parser) parseImport() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.KwImport))
	children = append(children, p.parsePath())
	if p.at(token.KwAs) {
		children = appendTok(children, p.bump())
		children = append(children, p.parseName())
	}
	children = appendTok(children, p.expect(token.Semicolon))
	return syntax.NewNode(syntax.KindImportDecl, children...)
}

func (p *parser) parsePath() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.Ident))
	for p.at(token.ColonColon) {
		children = appendTok(children, p.bump())
		children = appendTok(children, p.expect(token.Ident))
	}
	return syntax.NewNode(syntax.KindPath, children...)
}

func (p *parser) parseName() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.Ident))
	return syntax.NewNode(syntax.KindName, children...)
}

func (p *parser) parseFn() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.KwFn))
	children = append(children, p.parseName())
	children = append(children, p.parseParamList())
	if p.at(token.Arrow) {
		children = appendTok(children, p.bump())
		children = append(children, p.parseTypeRef())
	}
	children = append(children, p.parseBlock())
	return syntax.NewNode(syntax.KindFnDecl, children...)
}

func (p *parser) parseParamList() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.LParen))
	for !p.at(token.RParen) && !p.at(token.EOF) {
		children = append(children, p.parseParam())
		if p.at(token.Comma) {
			children = appendTok(children, p.bump())
		} else {
			break
		}
	}
	children = appendTok(children, p.expect(token.RParen))
	return syntax.NewNode(syntax.KindParamList, children...)
}

func (p *parser) parseParam() *syntax.Node {
	var children []syntax.Element
	children = append(children, p.parseName())
	children = appendTok(children, p.expect(token.Colon))
	children = append(children, p.parseTypeRef())
	return syntax.NewNode(syntax.KindParam, children...)
}

func (p *parser) parseTypeRef() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.Ident))
	for p.at(token.ColonColon) {
		children = appendTok(children, p.bump())
		children = appendTok(children, p.expect(token.Ident))
	}
	return syntax.NewNode(syntax.KindTypeRef, children...)
}

func (p *parser) parseBlock() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.LBrace))
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.KwLet) || p.at(token.KwReturn) {
			children = append(children, p.parseStmt())
			continue
		}
		if el := p.parseStmtOrBail(); el != nil {
			children = append(children, el)
		}
	}
	children = appendTok(children, p.expect(token.RBrace))
	return syntax.NewNode(syntax.KindBlock, children...)
}

func (p *parser) parseStmt() *syntax.Node {
	switch {
	case p.at(token.KwLet):
		return p.parseLet()
	case p.at(token.KwReturn):
		return p.parseReturn()
	default:
		var children []syntax.Element
		children = appendNode(children, p.parseExpr(0))
		children = appendTok(children, p.expect(token.Semicolon))
		return syntax.NewNode(syntax.KindExprStmt, children...)
	}
}

func (p *parser) parseLet() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.KwLet))
	if p.at(token.KwMut) {
		children = appendTok(children, p.bump())
	}
	children = append(children, p.parseName())
	if p.at(token.Colon) {
		children = appendTok(children, p.bump())
		children = append(children, p.parseTypeRef())
	}
	children = appendTok(children, p.expect(token.Assign))
	children = appendNode(children, p.parseExpr(0))
	children = appendTok(children, p.expect(token.Semicolon))
	return syntax.NewNode(syntax.KindLetStmt, children...)
}

func (p *parser) parseReturn() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.KwReturn))
	if !p.at(token.Semicolon) && !p.at(token.EOF) {
		children = appendNode(children, p.parseExpr(0))
	}
	children = appendTok(children, p.expect(token.Semicolon))
	return syntax.NewNode(syntax.KindReturnStmt, children...)
}

// binding powers, от слабого к сильному
func bindingPower(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return 1
	case token.AndAnd:
		return 2
	case token.EqEq, token.BangEq:
		return 3
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return 4
	case token.Plus, token.Minus:
		return 5
	case token.Star, token.Slash, token.Percent:
		return 6
	default:
		return 0
	}
}

func (p *parser) parseExpr(minBP int) *syntax.Node {
	lhs := p.parsePrefix()
	if lhs == nil {
		return nil
	}
	for {
		bp := bindingPower(p.lx.Peek().Kind)
		if bp == 0 || bp <= minBP {
			return lhs
		}
		op := p.bump()
		rhs := p.parseExpr(bp)
		if rhs == nil {
			return syntax.NewNode(syntax.KindBinaryExpr, lhs, op)
		}
		lhs = syntax.NewNode(syntax.KindBinaryExpr, lhs, op, rhs)
	}
}

func (p *parser) parsePrefix() *syntax.Node {
	if p.at(token.Bang) || p.at(token.Minus) {
		op := p.bump()
		operand := p.parsePrefix()
		if operand == nil {
			return syntax.NewNode(syntax.KindUnaryExpr, op)
		}
		return syntax.NewNode(syntax.KindUnaryExpr, op, operand)
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() *syntax.Node {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for p.at(token.LParen) {
		args := p.parseArgList()
		expr = syntax.NewNode(syntax.KindCallExpr, expr, args)
	}
	return expr
}

func (p *parser) parseArgList() *syntax.Node {
	var children []syntax.Element
	children = appendTok(children, p.expect(token.LParen))
	for !p.at(token.RParen) && !p.at(token.EOF) {
		children = appendNode(children, p.parseExpr(0))
		if p.at(token.Comma) {
			children = appendTok(children, p.bump())
		} else {
			break
		}
	}
	children = appendTok(children, p.expect(token.RParen))
	return syntax.NewNode(syntax.KindArgList, children...)
}

func (p *parser) parsePrimary() *syntax.Node {
	peeked := p.lx.Peek()
	switch {
	case peeked.IsLiteral():
		return syntax.NewNode(syntax.KindLiteral, p.bump())
	case peeked.Kind == token.Ident:
		ident := p.bump()
		if p.at(token.ColonColon) {
			children := []syntax.Element{ident}
			for p.at(token.ColonColon) {
				children = appendTok(children, p.bump())
				children = appendTok(children, p.expect(token.Ident))
			}
			return syntax.NewNode(syntax.KindPath, children...)
		}
		return syntax.NewNode(syntax.KindNameRef, ident)
	case peeked.Kind == token.LParen:
		var children []syntax.Element
		children = appendTok(children, p.bump())
		children = appendNode(children, p.parseExpr(0))
		children = appendTok(children, p.expect(token.RParen))
		return syntax.NewNode(syntax.KindParenExpr, children...)
	default:
		p.errors = append(p.errors, ParseError{
			Span: peeked.Span,
			Msg:  fmt.Sprintf("expected expression, got %s", peeked.Kind),
		})
		return nil
	}
}
