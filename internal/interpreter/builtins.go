package interpreter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dueldanov/europa/internal/environment"
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/token"
	"github.com/dueldanov/europa/internal/value"
)

// BuiltinFunction describes a builtin registered in the global scope.
type BuiltinFunction struct {
	Name    string
	Arity   int
	Handler value.BuiltinFunc
}

// hostError is returned by builtin handlers; the interpreter turns it into a
// positioned script error at the call site.
type hostError struct {
	category europaerrors.Category
	message  string
}

func (e *hostError) Error() string {
	return e.message
}

func typeError(format string, args ...interface{}) error {
	return &hostError{category: europaerrors.TypeError, message: fmt.Sprintf(format, args...)}
}

func mathError(format string, args ...interface{}) error {
	return &hostError{category: europaerrors.MathError, message: fmt.Sprintf(format, args...)}
}

func atCallSite(err error, pos token.Position) error {
	var he *hostError
	if errors.As(err, &he) {
		return europaerrors.New(pos, he.category, he.message)
	}
	if scriptErr, ok := europaerrors.As(err); ok {
		return scriptErr
	}
	return europaerrors.New(pos, europaerrors.RuntimeError, err.Error())
}

// Builtins returns the builtin table bound to this interpreter.
func (in *Interpreter) Builtins() []BuiltinFunction {
	return []BuiltinFunction{
		{Name: "print", Arity: -1, Handler: in.builtinPrint},
		{Name: "str", Arity: 1, Handler: builtinStr},
		{Name: "num", Arity: 1, Handler: builtinNum},
		{Name: "len", Arity: 1, Handler: builtinLen},
		{Name: "type", Arity: 1, Handler: builtinType},
		{Name: "sqrt", Arity: 1, Handler: builtinSqrt},
		{Name: "floor", Arity: 1, Handler: builtinFloor},
		{Name: "clock", Arity: 0, Handler: in.builtinClock},
	}
}

// DefineBuiltins binds every builtin in env.
func (in *Interpreter) DefineBuiltins(env *environment.Environment) {
	for _, fn := range in.Builtins() {
		env.Define(fn.Name, value.NewBuiltin(fn.Name, fn.Arity, fn.Handler))
	}
}

// Globals creates a global scope holding the builtins.
func (in *Interpreter) Globals() *environment.Environment {
	env := environment.NewGlobal()
	in.DefineBuiltins(env)
	return env
}

func (in *Interpreter) builtinPrint(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	if _, err := fmt.Fprintln(in.out, strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return value.Nil, nil
}

func (in *Interpreter) builtinClock(args []value.Value) (value.Value, error) {
	now := in.now()
	return value.Number(float64(now.UnixNano()) / 1e9), nil
}

func builtinStr(args []value.Value) (value.Value, error) {
	return value.String(args[0].String()), nil
}

func builtinNum(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Number:
		return v, nil
	case value.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, typeError("cannot convert %q to a number", string(v))
		}
		return value.Number(n), nil
	}
	return nil, typeError("num expects a number or string, got %s", args[0].Type())
}

func builtinLen(args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, typeError("len expects a string, got %s", args[0].Type())
	}
	return value.Number(utf8.RuneCountInString(string(s))), nil
}

func builtinType(args []value.Value) (value.Value, error) {
	return value.String(args[0].Type()), nil
}

func builtinSqrt(args []value.Value) (value.Value, error) {
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, typeError("sqrt expects a number, got %s", args[0].Type())
	}
	if n < 0 {
		return nil, mathError("square root of negative number %s", n)
	}
	return value.Number(math.Sqrt(float64(n))), nil
}

func builtinFloor(args []value.Value) (value.Value, error) {
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, typeError("floor expects a number, got %s", args[0].Type())
	}
	return value.Number(math.Floor(float64(n))), nil
}
