package parser

import (
	"github.com/dueldanov/europa/internal/ast"
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/token"
)

func (p *Parser) parseExpression() (ast.Expr, error) {
	if err := p.nest(); err != nil {
		return nil, err
	}
	defer p.unnest()

	return p.parseAssignment()
}

// parseAssignment is right-associative: a = b = c assigns c to b, then to a.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.match(token.Assign) {
		equals := p.previous()

		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if variable, ok := expr.(*ast.VariableExpr); ok {
			return &ast.AssignExpr{Name: variable.Name, Value: value, Equals: equals.Pos}, nil
		}

		return nil, europaerrors.New(equals.Pos, europaerrors.SyntaxError, "invalid assignment target")
	}

	return expr, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	expr, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.match(token.Or) {
		op := p.previous()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.LogicalExpr{Left: expr, Operator: op, Right: right}
	}

	return expr, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	expr, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	for p.match(token.And) {
		op := p.previous()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		expr = &ast.LogicalExpr{Left: expr, Operator: op, Right: right}
	}

	return expr, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinary(p.parseComparison, token.Equal, token.NotEqual)
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.parseBinary(p.parseTerm, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseBinary(p.parseFactor, token.Plus, token.Minus)
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	return p.parseBinary(p.parseUnary, token.Star, token.Slash, token.Percent)
}

// parseBinary parses a left-associative tier whose operands come from next.
func (p *Parser) parseBinary(next func() (ast.Expr, error), operators ...token.Kind) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}

	for p.match(operators...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right}
	}

	return expr, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		if err := p.nest(); err != nil {
			return nil, err
		}
		defer p.unnest()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operator: op, Right: right}, nil
	}

	return p.parseCall()
}

func (p *Parser) parseCall() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.match(token.LeftParen) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}

	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	paren := p.previous()
	args := make([]ast.Expr, 0)

	if !p.check(token.RightParen) {
		for {
			if len(args) >= MaxArgs {
				return nil, p.errorAtCurrent("too many arguments")
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	if _, err := p.consume(token.RightParen, "expected ')' after arguments"); err != nil {
		return nil, err
	}

	return &ast.CallExpr{Callee: callee, Args: args, Paren: paren.Pos}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.current()

	switch tok.Kind {
	case token.True:
		p.advance()
		return &ast.LiteralExpr{Value: true, Position: tok.Pos}, nil
	case token.False:
		p.advance()
		return &ast.LiteralExpr{Value: false, Position: tok.Pos}, nil
	case token.Nil:
		p.advance()
		return &ast.LiteralExpr{Value: nil, Position: tok.Pos}, nil
	case token.Number, token.String:
		p.advance()
		return &ast.LiteralExpr{Value: tok.Literal, Position: tok.Pos}, nil
	case token.Identifier:
		p.advance()
		return &ast.VariableExpr{Name: tok}, nil
	case token.LeftParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{Expression: expr, LeftParen: tok.Pos}, nil
	}

	return nil, p.errorAtCurrent("expected expression")
}
