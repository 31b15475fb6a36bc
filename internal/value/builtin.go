package value

import "fmt"

// BuiltinFunc is the host implementation of a builtin. Errors it returns are
// attributed to the call site by the interpreter.
type BuiltinFunc func(args []Value) (Value, error)

// Builtin is a host-provided callable.
type Builtin struct {
	name  string
	arity int
	fn    BuiltinFunc
}

// NewBuiltin creates a builtin; arity -1 accepts any number of arguments.
func NewBuiltin(name string, arity int, fn BuiltinFunc) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

func (b *Builtin) Type() string   { return TypeFunction }
func (b *Builtin) String() string { return fmt.Sprintf("<builtin %s>", b.name) }
func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) Arity() int     { return b.arity }

// Call runs the host function. Arity is checked by the caller.
func (b *Builtin) Call(args []Value) (Value, error) {
	result, err := b.fn(args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return Nil, nil
	}
	return result, nil
}
