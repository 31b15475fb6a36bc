package lexer

import (
	"errors"
	"strconv"
	"strings"

	europaerrors "github.com/dueldanov/europa/internal/errors"
	"github.com/dueldanov/europa/internal/token"
)

// TabWidth is the tab stop used when computing columns.
const TabWidth = 4

const eof rune = -1

// Lexer scans source text into tokens. It is a pure function of its input:
// a Lexer is single use and holds no state beyond the scan position.
type Lexer struct {
	input   []rune
	pos     int
	readPos int
	ch      rune
	line    int
	column  int
}

// New creates a lexer over source.
func New(source string) *Lexer {
	l := &Lexer{
		input: []rune(source),
		line:  1,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input. The returned slice always ends with an EOF
// token. On failure the error is a *errors.Error with SyntaxError category.
func Tokenize(source string) ([]token.Token, error) {
	return New(source).Tokenize()
}

// Tokenize scans the remaining input.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token

	for {
		if err := l.skipWhitespace(); err != nil {
			return nil, err
		}

		if l.ch == eof {
			break
		}

		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}

	tokens = append(tokens, token.Token{Kind: token.EOF, Pos: l.position()})
	return tokens, nil
}

func (l *Lexer) nextToken() (token.Token, error) {
	start := l.pos
	pos := l.position()

	var kind token.Kind

	switch l.ch {
	case '=':
		kind = l.either('=', token.Equal, token.Assign)
	case '!':
		kind = l.either('=', token.NotEqual, token.Bang)
	case '<':
		kind = l.either('=', token.LessEqual, token.Less)
	case '>':
		kind = l.either('=', token.GreaterEqual, token.Greater)
	case '&':
		if l.peekChar() != '&' {
			return token.Token{}, unexpectedChar(pos, l.ch)
		}
		l.readChar()
		kind = token.And
	case '|':
		if l.peekChar() != '|' {
			return token.Token{}, unexpectedChar(pos, l.ch)
		}
		l.readChar()
		kind = token.Or
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '(':
		kind = token.LeftParen
	case ')':
		kind = token.RightParen
	case '{':
		kind = token.LeftBrace
	case '}':
		kind = token.RightBrace
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case '"':
		str, err := l.readString()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{
			Kind:    token.String,
			Lexeme:  string(l.input[start:l.pos]),
			Literal: str,
			Pos:     pos,
		}, nil
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return token.Token{Kind: token.Lookup(ident), Lexeme: ident, Pos: pos}, nil
		}
		if isDigit(l.ch) {
			return l.readNumber(pos)
		}
		return token.Token{}, unexpectedChar(pos, l.ch)
	}

	l.readChar()
	return token.Token{Kind: kind, Lexeme: string(l.input[start:l.pos]), Pos: pos}, nil
}

// either consumes next when it follows the current character.
func (l *Lexer) either(next rune, matched, single token.Kind) token.Kind {
	if l.peekChar() == next {
		l.readChar()
		return matched
	}
	return single
}

func (l *Lexer) readChar() {
	switch {
	case l.ch == '\n':
		l.line++
		l.column = 1
	case l.ch == '\t':
		l.column = ((l.column-1)/TabWidth+1)*TabWidth + 1
	default:
		l.column++
	}

	if l.readPos >= len(l.input) {
		l.ch = eof
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return eof
	}
	return l.input[l.readPos]
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

func (l *Lexer) skipWhitespace() error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != eof {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) skipBlockComment() error {
	pos := l.position()

	l.readChar() // '/'
	l.readChar() // '*'

	for l.ch != eof {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return nil
		}
		l.readChar()
	}

	return europaerrors.New(pos, europaerrors.SyntaxError, "unterminated block comment")
}

func (l *Lexer) readString() (string, error) {
	open := l.position()
	var str strings.Builder

	l.readChar() // skip opening quote

	for l.ch != '"' && l.ch != eof {
		if l.ch == '\\' {
			escape := l.position()
			l.readChar()
			switch l.ch {
			case 'n':
				str.WriteByte('\n')
			case 't':
				str.WriteByte('\t')
			case 'r':
				str.WriteByte('\r')
			case '0':
				str.WriteByte(0)
			case '\\':
				str.WriteByte('\\')
			case '"':
				str.WriteByte('"')
			case eof:
				return "", europaerrors.New(open, europaerrors.SyntaxError, "unterminated string")
			default:
				return "", europaerrors.Newf(escape, europaerrors.SyntaxError, "invalid escape sequence: \\%c", l.ch)
			}
		} else {
			str.WriteRune(l.ch)
		}
		l.readChar()
	}

	if l.ch != '"' {
		return "", europaerrors.New(open, europaerrors.SyntaxError, "unterminated string")
	}

	l.readChar() // skip closing quote
	return str.String(), nil
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' {
		if !isDigit(l.peekChar()) {
			return token.Token{}, europaerrors.New(l.position(), europaerrors.SyntaxError,
				"malformed number: expected digit after '.'")
		}
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := string(l.input[start:l.pos])
	// Literals beyond float64 range become +Inf; ParseFloat reports that as
	// ErrRange alongside the rounded value.
	num, err := strconv.ParseFloat(lexeme, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return token.Token{}, europaerrors.Newf(pos, europaerrors.SyntaxError, "invalid number: %s", lexeme)
	}

	return token.Token{Kind: token.Number, Lexeme: lexeme, Literal: num, Pos: pos}, nil
}

func unexpectedChar(pos token.Position, ch rune) error {
	return europaerrors.Newf(pos, europaerrors.SyntaxError, "unexpected character: %q", ch)
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
