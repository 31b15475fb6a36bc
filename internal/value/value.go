// Package value defines the runtime values of Europa programs.
package value

import (
	"math"
	"strconv"
)

// Value is any runtime value: Number, String, Bool, Nil or a Callable.
type Value interface {
	// Type returns the name reported by the type() builtin.
	Type() string
	// String returns the display form used by print and str.
	String() string
}

// Type names
const (
	TypeNumber   = "number"
	TypeString   = "string"
	TypeBool     = "bool"
	TypeNil      = "nil"
	TypeFunction = "function"
)

type Number float64

type String string

type Bool bool

// NilValue is the single nil value; use Nil.
type NilValue struct{}

// Nil is the unit value produced by missing initializers, bare returns and
// functions that fall off their end.
var Nil Value = NilValue{}

func (Number) Type() string   { return TypeNumber }
func (String) Type() string   { return TypeString }
func (Bool) Type() string     { return TypeBool }
func (NilValue) Type() string { return TypeNil }

func (n Number) String() string {
	f := float64(n)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (s String) String() string { return string(s) }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (NilValue) String() string { return "nil" }

// Callable is implemented by user functions and builtins.
type Callable interface {
	Value
	Name() string
	// Arity is the required argument count, or -1 for variadic callables.
	Arity() int
}

// FromLiteral converts a parsed literal payload into a Value.
func FromLiteral(v interface{}) Value {
	switch val := v.(type) {
	case float64:
		return Number(val)
	case string:
		return String(val)
	case bool:
		return Bool(val)
	default:
		return Nil
	}
}

// Truthy reports whether v counts as true in a condition: only nil and false
// are falsy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// Equal compares two values. Values of different kinds are never equal and
// callables compare by identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case Callable:
		bv, ok := b.(Callable)
		return ok && av == bv
	}
	return false
}

// Quote renders v the way the REPL echoes it: strings are quoted.
func Quote(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}
