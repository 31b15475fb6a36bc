package interpreter

import (
	"github.com/dueldanov/europa/internal/ast"
	"github.com/dueldanov/europa/internal/environment"
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/token"
	"github.com/dueldanov/europa/internal/value"
)

func (in *Interpreter) evaluate(expr ast.Expr, env *environment.Environment) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return value.FromLiteral(e.Value), nil

	case *ast.GroupingExpr:
		return in.evaluate(e.Expression, env)

	case *ast.VariableExpr:
		v, err := env.Get(e.Name.Lexeme)
		if err != nil {
			return nil, undefinedVariable(e.Name)
		}
		return v, nil

	case *ast.AssignExpr:
		v, err := in.evaluate(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(e.Name.Lexeme, v); err != nil {
			return nil, undefinedVariable(e.Name)
		}
		return v, nil

	case *ast.UnaryExpr:
		right, err := in.evaluate(e.Right, env)
		if err != nil {
			return nil, err
		}
		return unary(e.Operator, right)

	case *ast.BinaryExpr:
		left, err := in.evaluate(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.evaluate(e.Right, env)
		if err != nil {
			return nil, err
		}
		return binary(e.Operator, left, right)

	case *ast.LogicalExpr:
		left, err := in.evaluate(e.Left, env)
		if err != nil {
			return nil, err
		}
		if e.Operator.Kind == token.Or {
			if value.Truthy(left) {
				return left, nil
			}
		} else if !value.Truthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right, env)

	case *ast.CallExpr:
		return in.evaluateCall(e, env)
	}

	return nil, europaerrors.Newf(expr.Pos(), europaerrors.RuntimeError, "unsupported expression %T", expr)
}

func undefinedVariable(name token.Token) error {
	return europaerrors.Newf(name.Pos, europaerrors.RuntimeError, "undefined variable '%s'", name.Lexeme)
}

func (in *Interpreter) evaluateCall(e *ast.CallExpr, env *environment.Environment) (value.Value, error) {
	callee, err := in.evaluate(e.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(e.Args))
	for i, arg := range e.Args {
		args[i], err = in.evaluate(arg, env)
		if err != nil {
			return nil, err
		}
	}

	fn, ok := callee.(value.Callable)
	if !ok {
		return nil, europaerrors.Newf(e.Paren, europaerrors.TypeError,
			"can only call functions, got %s", callee.Type())
	}

	if fn.Arity() >= 0 && len(args) != fn.Arity() {
		return nil, europaerrors.Newf(e.Paren, europaerrors.RuntimeError,
			"%s expects %d argument%s but got %d", fn.Name(), fn.Arity(), plural(fn.Arity()), len(args))
	}

	switch f := fn.(type) {
	case *Function:
		return in.callFunction(f, args, e.Paren)
	case *value.Builtin:
		result, err := f.Call(args)
		if err != nil {
			return nil, atCallSite(err, e.Paren)
		}
		return result, nil
	}

	return nil, europaerrors.Newf(e.Paren, europaerrors.TypeError, "unsupported callable %s", fn)
}

func (in *Interpreter) callFunction(fn *Function, args []value.Value, pos token.Position) (value.Value, error) {
	if in.depth >= in.maxCallDepth {
		return nil, europaerrors.Newf(pos, europaerrors.RuntimeError,
			"stack overflow: call depth exceeded %d", in.maxCallDepth)
	}
	in.depth++
	defer func() { in.depth-- }()

	env := environment.New(fn.closure)
	for i, param := range fn.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	out, err := in.executeBlock(fn.decl.Body, env)
	if err != nil {
		return nil, err
	}

	switch out.signal {
	case signalReturn:
		return out.value, nil
	case signalBreak:
		return nil, europaerrors.New(out.pos, europaerrors.RuntimeError, "'break' outside of a loop")
	case signalContinue:
		return nil, europaerrors.New(out.pos, europaerrors.RuntimeError, "'continue' outside of a loop")
	}

	return value.Nil, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
