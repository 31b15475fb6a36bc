package interpreter

import (
	"fmt"

	"github.com/dueldanov/europa/internal/ast"
	"github.com/dueldanov/europa/internal/environment"
	"github.com/dueldanov/europa/internal/value"
)

// Function is a user-defined function value. closure is the scope the
// declaration ran in; every call gets a fresh scope enclosed by it, so the
// function sees later changes to variables in that scope.
type Function struct {
	decl    *ast.FunctionStmt
	closure *environment.Environment
}

var _ value.Callable = (*Function)(nil)

func (f *Function) Type() string   { return value.TypeFunction }
func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }
func (f *Function) Name() string   { return f.decl.Name.Lexeme }
func (f *Function) Arity() int     { return len(f.decl.Params) }
