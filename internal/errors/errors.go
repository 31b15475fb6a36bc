// Package errors is the uniform error carrier used by every stage of the
// Europa pipeline: a source position, a fixed category and a message.
package errors

import (
	"errors"
	"fmt"
	"io"

	"github.com/dueldanov/europa/internal/token"
)

// Category classifies a script failure.
type Category int

const (
	MathError Category = iota
	TypeError
	SyntaxError
	RuntimeError
)

func (c Category) String() string {
	switch c {
	case MathError:
		return "MathError"
	case TypeError:
		return "TypeError"
	case SyntaxError:
		return "SyntaxError"
	case RuntimeError:
		return "RuntimeError"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Error is a positioned, categorised script error. It is built where the
// failure is detected and returned unchanged to the caller.
type Error struct {
	Pos      token.Position
	Category Category
	Message  string
}

// New creates a new script error
func New(pos token.Position, category Category, message string) *Error {
	return &Error{Pos: pos, Category: category, Message: message}
}

// Newf creates a new script error with a formatted message
func Newf(pos token.Position, category Category, format string, args ...interface{}) *Error {
	return New(pos, category, fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%d:%d] %s: %s", e.Pos.Line, e.Pos.Column, e.Category, e.Message)
}

// Display writes the one-line diagnostic to w.
func (e *Error) Display(w io.Writer) {
	fmt.Fprintln(w, e.Error())
}

// As extracts a script error from err.
func As(err error) (*Error, bool) {
	var scriptErr *Error
	if errors.As(err, &scriptErr) {
		return scriptErr, true
	}
	return nil, false
}

// IsCategory reports whether err is a script error of the given category.
func IsCategory(err error, category Category) bool {
	scriptErr, ok := As(err)
	return ok && scriptErr.Category == category
}
