// Package interpreter executes parsed Europa programs by walking the AST.
//
// Statement execution returns an outcome alongside the error: return, break
// and continue travel as outcomes, never as errors, until the construct that
// owns them (call site or loop) consumes them.
package interpreter

import (
	"io"
	"os"
	"time"

	"github.com/dueldanov/europa/internal/ast"
	"github.com/dueldanov/europa/internal/environment"
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/token"
	"github.com/dueldanov/europa/internal/value"
)

// DefaultMaxCallDepth bounds nested calls before a "stack overflow"
// RuntimeError is raised.
const DefaultMaxCallDepth = 512

// MaxCallDepthLimit is the highest accepted call limit. Deeper recursion
// would risk exhausting the Go stack before the limit is reached.
const MaxCallDepthLimit = 10000

type signal int

const (
	signalNone signal = iota
	signalReturn
	signalBreak
	signalContinue
)

// outcome is the non-error result of executing a statement.
type outcome struct {
	signal signal
	value  value.Value
	pos    token.Position
}

var normal = outcome{}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer used by print. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithMaxCallDepth sets the nested call limit; n <= 0 keeps the default and
// values above MaxCallDepthLimit are clamped to it.
func WithMaxCallDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxCallDepth = min(n, MaxCallDepthLimit)
		}
	}
}

// WithClock replaces the time source of the clock builtin.
func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) {
		in.now = now
	}
}

// Interpreter walks statements against an environment. It is not safe for
// concurrent use.
type Interpreter struct {
	out          io.Writer
	maxCallDepth int
	now          func() time.Time
	depth        int
}

// New creates an interpreter.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		out:          os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Execute runs stmts in order against env and returns the value of the last
// top-level expression statement (nil otherwise). Execution stops at the
// first error; effects of earlier statements remain in env.
func (in *Interpreter) Execute(stmts []ast.Stmt, env *environment.Environment) (value.Value, error) {
	var last value.Value = value.Nil

	for _, stmt := range stmts {
		if exprStmt, ok := stmt.(*ast.ExpressionStmt); ok {
			v, err := in.evaluate(exprStmt.Expression, env)
			if err != nil {
				return nil, err
			}
			last = v
			continue
		}

		out, err := in.execute(stmt, env)
		if err != nil {
			return nil, err
		}
		if err := strayTopLevel(out); err != nil {
			return nil, err
		}
		last = value.Nil
	}

	return last, nil
}

func strayTopLevel(out outcome) error {
	switch out.signal {
	case signalReturn:
		return europaerrors.New(out.pos, europaerrors.RuntimeError, "'return' outside of a function")
	case signalBreak:
		return europaerrors.New(out.pos, europaerrors.RuntimeError, "'break' outside of a loop")
	case signalContinue:
		return europaerrors.New(out.pos, europaerrors.RuntimeError, "'continue' outside of a loop")
	}
	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt, env *environment.Environment) (outcome, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		if _, err := in.evaluate(s.Expression, env); err != nil {
			return normal, err
		}
		return normal, nil

	case *ast.VarStmt:
		var v value.Value = value.Nil
		if s.Initializer != nil {
			var err error
			v, err = in.evaluate(s.Initializer, env)
			if err != nil {
				return normal, err
			}
		}
		env.Define(s.Name.Lexeme, v)
		return normal, nil

	case *ast.BlockStmt:
		return in.executeBlock(s.Statements, environment.New(env))

	case *ast.IfStmt:
		cond, err := in.evaluate(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if value.Truthy(cond) {
			return in.executeBlock(s.Then.Statements, environment.New(env))
		}
		if s.Else != nil {
			return in.execute(s.Else, env)
		}
		return normal, nil

	case *ast.WhileStmt:
		return in.executeWhile(s, env)

	case *ast.FunctionStmt:
		env.Define(s.Name.Lexeme, &Function{decl: s, closure: env})
		return normal, nil

	case *ast.ReturnStmt:
		var v value.Value = value.Nil
		if s.Value != nil {
			var err error
			v, err = in.evaluate(s.Value, env)
			if err != nil {
				return normal, err
			}
		}
		return outcome{signal: signalReturn, value: v, pos: s.Keyword}, nil

	case *ast.BreakStmt:
		return outcome{signal: signalBreak, pos: s.Keyword}, nil

	case *ast.ContinueStmt:
		return outcome{signal: signalContinue, pos: s.Keyword}, nil
	}

	return normal, europaerrors.Newf(stmt.Pos(), europaerrors.RuntimeError, "unsupported statement %T", stmt)
}

// executeBlock runs stmts in env and stops at the first error or signal.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *environment.Environment) (outcome, error) {
	for _, stmt := range stmts {
		out, err := in.execute(stmt, env)
		if err != nil {
			return normal, err
		}
		if out.signal != signalNone {
			return out, nil
		}
	}
	return normal, nil
}

func (in *Interpreter) executeWhile(s *ast.WhileStmt, env *environment.Environment) (outcome, error) {
	for {
		cond, err := in.evaluate(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if !value.Truthy(cond) {
			return normal, nil
		}

		out, err := in.executeBlock(s.Body.Statements, environment.New(env))
		if err != nil {
			return normal, err
		}

		switch out.signal {
		case signalBreak:
			return normal, nil
		case signalReturn:
			return out, nil
		}
	}
}
