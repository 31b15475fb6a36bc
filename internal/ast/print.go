package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders a node as a parenthesised prefix form, e.g.
// "(var x (+ 1 (* 2 3)))". It is used for debugging and tests.
func Sprint(node Node) string {
	var b strings.Builder
	write(&b, node)
	return b.String()
}

// SprintProgram renders each statement on its own line.
func SprintProgram(stmts []Stmt) string {
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = Sprint(stmt)
	}
	return strings.Join(lines, "\n")
}

func write(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *ExpressionStmt:
		write(b, n.Expression)
	case *VarStmt:
		if n.Initializer == nil {
			parens(b, "var", n.Name.Lexeme)
		} else {
			parens(b, "var", n.Name.Lexeme, n.Initializer)
		}
	case *BlockStmt:
		b.WriteString("(block")
		for _, stmt := range n.Statements {
			b.WriteByte(' ')
			write(b, stmt)
		}
		b.WriteByte(')')
	case *IfStmt:
		if n.Else == nil {
			parens(b, "if", n.Condition, n.Then)
		} else {
			parens(b, "if", n.Condition, n.Then, n.Else)
		}
	case *WhileStmt:
		parens(b, "while", n.Condition, n.Body)
	case *FunctionStmt:
		names := make([]string, len(n.Params))
		for i, param := range n.Params {
			names[i] = param.Lexeme
		}
		fmt.Fprintf(b, "(fn %s (%s)", n.Name.Lexeme, strings.Join(names, " "))
		for _, stmt := range n.Body {
			b.WriteByte(' ')
			write(b, stmt)
		}
		b.WriteByte(')')
	case *ReturnStmt:
		if n.Value == nil {
			b.WriteString("(return)")
		} else {
			parens(b, "return", n.Value)
		}
	case *BreakStmt:
		b.WriteString("(break)")
	case *ContinueStmt:
		b.WriteString("(continue)")
	case *LiteralExpr:
		b.WriteString(literal(n.Value))
	case *VariableExpr:
		b.WriteString(n.Name.Lexeme)
	case *AssignExpr:
		parens(b, "=", n.Name.Lexeme, n.Value)
	case *UnaryExpr:
		parens(b, n.Operator.Lexeme, n.Right)
	case *BinaryExpr:
		parens(b, n.Operator.Lexeme, n.Left, n.Right)
	case *LogicalExpr:
		parens(b, n.Operator.Lexeme, n.Left, n.Right)
	case *CallExpr:
		parts := append([]interface{}{n.Callee}, exprsToParts(n.Args)...)
		parens(b, "call", parts...)
	case *GroupingExpr:
		parens(b, "group", n.Expression)
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

func parens(b *strings.Builder, head string, parts ...interface{}) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, part := range parts {
		b.WriteByte(' ')
		switch p := part.(type) {
		case Node:
			write(b, p)
		case string:
			b.WriteString(p)
		}
	}
	b.WriteByte(')')
}

func exprsToParts(exprs []Expr) []interface{} {
	parts := make([]interface{}, len(exprs))
	for i, expr := range exprs {
		parts[i] = expr
	}
	return parts
}

func literal(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
