package interpreter

import (
	"cmp"
	"math"

	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/token"
	"github.com/dueldanov/europa/internal/value"
)

func unary(op token.Token, right value.Value) (value.Value, error) {
	switch op.Kind {
	case token.Minus:
		n, ok := right.(value.Number)
		if !ok {
			return nil, europaerrors.Newf(op.Pos, europaerrors.TypeError,
				"operand of '-' must be a number, got %s", right.Type())
		}
		return -n, nil
	case token.Bang:
		return value.Bool(!value.Truthy(right)), nil
	}

	return nil, europaerrors.Newf(op.Pos, europaerrors.RuntimeError, "unknown unary operator: %s", op.Lexeme)
}

func binary(op token.Token, left, right value.Value) (value.Value, error) {
	switch op.Kind {
	case token.Equal:
		return value.Bool(value.Equal(left, right)), nil
	case token.NotEqual:
		return value.Bool(!value.Equal(left, right)), nil
	case token.Plus:
		if ls, ok := left.(value.String); ok {
			if rs, ok := right.(value.String); ok {
				return ls + rs, nil
			}
			return nil, operandError(op, left, right, "strings can only be concatenated with strings")
		}
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		if ls, ok := left.(value.String); ok {
			rs, ok := right.(value.String)
			if !ok {
				return nil, operandError(op, left, right, "operands must be two numbers or two strings")
			}
			return value.Bool(compare(op.Kind, ls, rs)), nil
		}
	}

	l, lok := left.(value.Number)
	r, rok := right.(value.Number)
	if !lok || !rok {
		return nil, operandError(op, left, right, "operands must be numbers")
	}

	switch op.Kind {
	case token.Plus:
		return l + r, nil
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash:
		if r == 0 {
			return nil, europaerrors.New(op.Pos, europaerrors.MathError, "division by zero")
		}
		return l / r, nil
	case token.Percent:
		if r == 0 {
			return nil, europaerrors.New(op.Pos, europaerrors.MathError, "modulo by zero")
		}
		return value.Number(math.Mod(float64(l), float64(r))), nil
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		return value.Bool(compare(op.Kind, l, r)), nil
	}

	return nil, europaerrors.Newf(op.Pos, europaerrors.RuntimeError, "unknown binary operator: %s", op.Lexeme)
}

func compare[T cmp.Ordered](kind token.Kind, l, r T) bool {
	switch kind {
	case token.Less:
		return l < r
	case token.LessEqual:
		return l <= r
	case token.Greater:
		return l > r
	default:
		return l >= r
	}
}

func operandError(op token.Token, left, right value.Value, reason string) error {
	return europaerrors.Newf(op.Pos, europaerrors.TypeError,
		"unsupported operands for '%s': %s and %s (%s)", op.Lexeme, left.Type(), right.Type(), reason)
}
