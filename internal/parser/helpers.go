package parser

import (
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/token"
)

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.current().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.tokens) || p.current().Kind == token.EOF
}

// current never runs past the slice: a missing EOF token is synthesised from
// the last token's position.
func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return token.Token{Kind: token.EOF, Pos: token.Position{Line: 1, Column: 1}}
		}
		return token.Token{Kind: token.EOF, Pos: p.tokens[len(p.tokens)-1].Pos}
	}
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAtCurrent(message)
}

// consumeName expects an identifier and names the offending keyword when a
// reserved word is used in its place.
func (p *Parser) consumeName(message string) (token.Token, error) {
	if tok := p.current(); tok.Kind.IsKeyword() {
		return token.Token{}, europaerrors.Newf(tok.Pos, europaerrors.SyntaxError,
			"%s, found reserved word '%s'", message, tok.Lexeme)
	}
	return p.consume(token.Identifier, message)
}

// nest tracks recursion through the grammar so deeply nested input fails
// with a SyntaxError instead of exhausting the Go stack.
func (p *Parser) nest() error {
	if p.depth >= MaxNestingDepth {
		return p.errorAtCurrent("nesting too deep")
	}
	p.depth++
	return nil
}

func (p *Parser) unnest() {
	p.depth--
}

func (p *Parser) errorAtCurrent(message string) error {
	tok := p.current()
	return europaerrors.Newf(tok.Pos, europaerrors.SyntaxError, "%s, found %s", message, tok)
}
