package parser

import (
	"github.com/dueldanov/europa/internal/ast"
	"github.com/dueldanov/europa/internal/token"
)

// MaxArgs bounds the number of parameters and call arguments.
const MaxArgs = 255

// MaxNestingDepth bounds nested expressions, unary chains and blocks.
const MaxNestingDepth = 256

// Parser is a recursive-descent parser with one token of lookahead. It stops
// at the first syntax error; there is no recovery.
type Parser struct {
	tokens []token.Token
	pos    int
	depth  int
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse is shorthand for NewParser().Parse(tokens).
func Parse(tokens []token.Token) ([]ast.Stmt, error) {
	return NewParser().Parse(tokens)
}

// Parse turns a token sequence ending in EOF into a program. The error, if
// any, is a *errors.Error with SyntaxError category.
func (p *Parser) Parse(tokens []token.Token) ([]ast.Stmt, error) {
	p.tokens = tokens
	p.pos = 0
	p.depth = 0

	stmts := make([]ast.Stmt, 0)

	for !p.isAtEnd() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts, nil
}

func (p *Parser) parseDeclaration() (ast.Stmt, error) {
	switch {
	case p.match(token.Semicolon):
		return nil, nil
	case p.match(token.Var):
		return p.parseVar()
	case p.match(token.Fn):
		return p.parseFunction()
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch {
	case p.match(token.If):
		return p.parseIf()
	case p.match(token.While):
		return p.parseWhile()
	case p.match(token.Return):
		return p.parseReturn()
	case p.match(token.Break):
		stmt := &ast.BreakStmt{Keyword: p.previous().Pos}
		p.match(token.Semicolon)
		return stmt, nil
	case p.match(token.Continue):
		stmt := &ast.ContinueStmt{Keyword: p.previous().Pos}
		p.match(token.Semicolon)
		return stmt, nil
	case p.check(token.LeftBrace):
		return p.parseBlock()
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(token.Semicolon)

	return &ast.ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) parseVar() (*ast.VarStmt, error) {
	keyword := p.previous().Pos

	name, err := p.consumeName("expected variable name after 'var'")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expr
	if p.match(token.Assign) {
		initializer, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.match(token.Semicolon)

	return &ast.VarStmt{Name: name, Initializer: initializer, Keyword: keyword}, nil
}

func (p *Parser) parseFunction() (*ast.FunctionStmt, error) {
	keyword := p.previous().Pos

	name, err := p.consumeName("expected function name after 'fn'")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LeftParen, "expected '(' after function name"); err != nil {
		return nil, err
	}

	params := make([]token.Token, 0)
	if !p.check(token.RightParen) {
		for {
			if len(params) >= MaxArgs {
				return nil, p.errorAtCurrent("too many parameters")
			}
			param, err := p.consumeName("expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	if _, err := p.consume(token.RightParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if !p.check(token.LeftBrace) {
		return nil, p.errorAtCurrent("expected '{' before function body")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionStmt{
		Name:    name,
		Params:  params,
		Body:    body.Statements,
		Keyword: keyword,
	}, nil
}

func (p *Parser) parseIf() (*ast.IfStmt, error) {
	keyword := p.previous().Pos

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.check(token.LeftBrace) {
		return nil, p.errorAtCurrent("expected '{' after if condition")
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if p.match(token.Else) {
		switch {
		case p.match(token.If):
			elseBranch, err = p.parseIf()
		case p.check(token.LeftBrace):
			elseBranch, err = p.parseBlock()
		default:
			return nil, p.errorAtCurrent("expected '{' or 'if' after 'else'")
		}
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStmt{
		Condition: condition,
		Then:      then,
		Else:      elseBranch,
		Keyword:   keyword,
	}, nil
}

func (p *Parser) parseWhile() (*ast.WhileStmt, error) {
	keyword := p.previous().Pos

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.check(token.LeftBrace) {
		return nil, p.errorAtCurrent("expected '{' after while condition")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{Condition: condition, Body: body, Keyword: keyword}, nil
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, error) {
	keyword := p.previous().Pos

	var value ast.Expr
	if !p.check(token.Semicolon) && !p.check(token.RightBrace) && !p.isAtEnd() {
		var err error
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.match(token.Semicolon)

	return &ast.ReturnStmt{Value: value, Keyword: keyword}, nil
}

// parseBlock expects the current token to be '{'.
func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()

	brace, err := p.consume(token.LeftBrace, "expected '{'")
	if err != nil {
		return nil, err
	}

	stmts := make([]ast.Stmt, 0)
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	if _, err := p.consume(token.RightBrace, "expected '}' after block"); err != nil {
		return nil, err
	}

	return &ast.BlockStmt{Statements: stmts, LeftBrace: brace.Pos}, nil
}
