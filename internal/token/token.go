package token

import "fmt"

// Position is a 1-based line/column location in source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota

	// Literals
	Number
	String
	Identifier

	// Keywords
	Var
	Fn
	Return
	If
	Else
	While
	Break
	Continue
	True
	False
	Nil

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Assign
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	And
	Or

	// Punctuation
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Semicolon
)

var kindNames = map[Kind]string{
	EOF:          "end of input",
	Number:       "number",
	String:       "string",
	Identifier:   "identifier",
	Var:          "var",
	Fn:           "fn",
	Return:       "return",
	If:           "if",
	Else:         "else",
	While:        "while",
	Break:        "break",
	Continue:     "continue",
	True:         "true",
	False:        "false",
	Nil:          "nil",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Percent:      "%",
	Bang:         "!",
	Assign:       "=",
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	And:          "&&",
	Or:           "||",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Semicolon:    ";",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"var":      Var,
	"fn":       Fn,
	"return":   Return,
	"if":       If,
	"else":     Else,
	"while":    While,
	"break":    Break,
	"continue": Continue,
	"true":     True,
	"false":    False,
	"nil":      Nil,
}

// Lookup returns the keyword kind for ident, or Identifier.
func Lookup(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= Var && k <= Nil
}

// Token represents a lexical token. Literal holds the decoded payload for
// numbers (float64) and strings (string); it is nil for every other kind.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal interface{}
	Pos     Position
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case String:
		return fmt.Sprintf("%q", t.Literal)
	default:
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
}
