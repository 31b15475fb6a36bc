package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dueldanov/europa/internal/ast"
	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/lexer"
	"github.com/dueldanov/europa/internal/token"
)

func parseSource(t *testing.T, source string) ([]ast.Stmt, error) {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	return Parse(tokens)
}

func mustParse(t *testing.T, source string) string {
	t.Helper()
	stmts, err := parseSource(t, source)
	require.NoError(t, err)
	return ast.SprintProgram(stmts)
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"-a * b", "(* (- a) b)"},
		{"!!ok", "(! (! ok))"},
		{"a < b == c >= d", "(== (< a b) (>= c d))"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c && d", "(|| (&& a b) (&& c d))"},
		{"a == b && c != d", "(&& (== a b) (!= c d))"},
		{"a = b = 1 + 2", "(= a (= b (+ 1 2)))"},
		{"x = a || b", "(= x (|| a b))"},
		{"7 % 3 + 1", "(+ (% 7 3) 1)"},
		{"f(1, g(2))(3)", "(call (call f 1 (call g 2)) 3)"},
		{"-f(x)", "(- (call f x))"},
		{`"a" + nil + true`, `(+ (+ "a" nil) true)`},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.source))
		})
	}
}

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"var with initializer", "var x = 1;", "(var x 1)"},
		{"var without initializer", "var x", "(var x)"},
		{"optional semicolons", "var x = 1 print(x)", "(var x 1)\n(call print x)"},
		{"empty statements", ";; x ;", "x"},
		{"block", "{ var x = 2; x }", "(block (var x 2) x)"},
		{"nested blocks", "{ { } }", "(block (block))"},
		{"if", "if x { y }", "(if x (block y))"},
		{"if else", `if true { print("a") } else { print("b") }`, `(if true (block (call print "a")) (block (call print "b")))`},
		{"else if chain", "if a { 1 } else if b { 2 } else { 3 }", "(if a (block 1) (if b (block 2) (block 3)))"},
		{"while", "while i < 3 { i = i + 1 }", "(while (< i 3) (block (= i (+ i 1))))"},
		{"break and continue", "while true { break; continue }", "(while true (block (break) (continue)))"},
		{"function", "fn add(a, b) { return a + b }", "(fn add (a b) (return (+ a b)))"},
		{"function without params", "fn f() {}", "(fn f ())"},
		{"bare return before brace", "fn f() { return }", "(fn f () (return))"},
		{"bare return before semicolon", "fn f() { return; }", "(fn f () (return))"},
		{"top-level return parses", "return 1", "(return 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.source))
		})
	}
}

func TestParse_Positions(t *testing.T) {
	stmts, err := parseSource(t, "var x = 1\nfoo(x + 2)")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Equal(t, token.Position{Line: 1, Column: 1}, stmts[0].Pos())

	call := stmts[1].(*ast.ExpressionStmt).Expression.(*ast.CallExpr)
	assert.Equal(t, token.Position{Line: 2, Column: 4}, call.Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 7}, call.Args[0].Pos())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		pos    token.Position
	}{
		{"missing variable name", "var = ;", token.Position{Line: 1, Column: 5}},
		{"missing expression", "var x = ;", token.Position{Line: 1, Column: 9}},
		{"unclosed paren", "print(1", token.Position{Line: 1, Column: 8}},
		{"unclosed grouping", "(1 + 2", token.Position{Line: 1, Column: 7}},
		{"unclosed block", "{ var x = 1", token.Position{Line: 1, Column: 12}},
		{"invalid assignment target", "1 + 2 = 3", token.Position{Line: 1, Column: 7}},
		{"call is not assignable", "f() = 3", token.Position{Line: 1, Column: 5}},
		{"if without block", "if x y", token.Position{Line: 1, Column: 6}},
		{"while without block", "while x\n  y", token.Position{Line: 2, Column: 3}},
		{"else without block", "if x {} else y", token.Position{Line: 1, Column: 14}},
		{"fn without name", "fn (a) {}", token.Position{Line: 1, Column: 4}},
		{"fn bad parameter", "fn f(a, 1) {}", token.Position{Line: 1, Column: 9}},
		{"fn without body", "fn f(a) a", token.Position{Line: 1, Column: 9}},
		{"stray closing brace", "}", token.Position{Line: 1, Column: 1}},
		{"trailing comma in call", "f(1,)", token.Position{Line: 1, Column: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := parseSource(t, tt.source)
			require.Error(t, err)
			assert.Nil(t, stmts)

			scriptErr, ok := europaerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, europaerrors.SyntaxError, scriptErr.Category)
			assert.Equal(t, tt.pos, scriptErr.Pos)
		})
	}
}

func TestParse_EndOfInputMessage(t *testing.T) {
	_, err := parseSource(t, "var x =")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end of input")
}

func TestParse_TooManyArguments(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Identifier, Lexeme: "f", Pos: token.Position{Line: 1, Column: 1}},
		{Kind: token.LeftParen, Lexeme: "(", Pos: token.Position{Line: 1, Column: 2}},
	}
	for i := 0; i <= MaxArgs; i++ {
		if i > 0 {
			tokens = append(tokens, token.Token{Kind: token.Comma, Lexeme: ",", Pos: token.Position{Line: 1, Column: 3}})
		}
		tokens = append(tokens, token.Token{Kind: token.Number, Lexeme: "1", Literal: 1.0, Pos: token.Position{Line: 1, Column: 4}})
	}
	tokens = append(tokens,
		token.Token{Kind: token.RightParen, Lexeme: ")", Pos: token.Position{Line: 1, Column: 5}},
		token.Token{Kind: token.EOF, Pos: token.Position{Line: 1, Column: 6}},
	)

	_, err := Parse(tokens)
	require.Error(t, err)
	assert.True(t, europaerrors.IsCategory(err, europaerrors.SyntaxError))
	assert.Contains(t, err.Error(), "too many arguments")
}

func TestParse_ReservedWordAsName(t *testing.T) {
	tests := []struct {
		name   string
		source string
		pos    token.Position
	}{
		{"variable", "var while = 1;", token.Position{Line: 1, Column: 5}},
		{"function", "fn nil() {}", token.Position{Line: 1, Column: 4}},
		{"parameter", "fn f(a, return) {}", token.Position{Line: 1, Column: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.source)
			require.Error(t, err)

			scriptErr, ok := europaerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, europaerrors.SyntaxError, scriptErr.Category)
			assert.Equal(t, tt.pos, scriptErr.Pos)
			assert.Contains(t, scriptErr.Message, "reserved word")
		})
	}
}

func TestParse_NestingLimit(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"parentheses", strings.Repeat("(", 520000) + "1" + strings.Repeat(")", 520000)},
		{"unary chain", strings.Repeat("-", 100000) + "1"},
		{"blocks", strings.Repeat("{", 100000) + strings.Repeat("}", 100000)},
		{"assignment chain", strings.Repeat("a = ", 100000) + "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.source)
			require.Error(t, err)
			assert.True(t, europaerrors.IsCategory(err, europaerrors.SyntaxError))
			assert.Contains(t, err.Error(), "nesting too deep")
		})
	}
}

func TestParse_NestingBelowLimit(t *testing.T) {
	source := strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200)
	stmts, err := parseSource(t, source)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	_, err = parseSource(t, strings.Repeat("{", 200)+strings.Repeat("}", 200))
	require.NoError(t, err)
}
