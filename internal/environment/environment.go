package environment

import (
	"errors"
	"sort"

	"github.com/dueldanov/europa/internal/value"
)

// Errors
var (
	ErrUndefinedVariable = errors.New("undefined variable")
)

// Environment is one scope of the variable chain. The parent link is only
// used for lookups; closures keep their defining scope alive by holding a
// pointer to it.
type Environment struct {
	values map[string]value.Value
	parent *Environment
}

// New creates a scope enclosed by parent; parent is nil for the global scope.
func New(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]value.Value),
		parent: parent,
	}
}

// NewGlobal creates an empty outermost scope.
func NewGlobal() *Environment {
	return New(nil)
}

// Parent returns the enclosing scope, or nil.
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define binds name in this scope, replacing any existing binding here and
// shadowing bindings in enclosing scopes.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get returns the value bound to name in the nearest scope that defines it.
func (e *Environment) Get(name string) (value.Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, ErrUndefinedVariable
}

// Assign updates name in the nearest scope that defines it.
func (e *Environment) Assign(name string, v value.Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return nil
		}
	}
	return ErrUndefinedVariable
}

// Names returns the names bound in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings in this scope.
func (e *Environment) Len() int {
	return len(e.values)
}

// Snapshot is a copy of the bindings of one scope.
type Snapshot map[string]value.Value

// Snapshot copies the bindings of this scope. Parents are not included and
// values are shared, not deep-copied.
func (e *Environment) Snapshot() Snapshot {
	snap := make(Snapshot, len(e.values))
	for name, v := range e.values {
		snap[name] = v
	}
	return snap
}

// Restore replaces the bindings of this scope with snap. The scope keeps its
// identity, so closures that captured it see the restored bindings.
func (e *Environment) Restore(snap Snapshot) {
	values := make(map[string]value.Value, len(snap))
	for name, v := range snap {
		values[name] = v
	}
	e.values = values
}
