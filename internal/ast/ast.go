package ast

import "github.com/dueldanov/europa/internal/token"

// Node is implemented by every statement and expression. Pos is the position
// of the token runtime errors for the node are attributed to.
type Node interface {
	Pos() token.Position
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node. Expression trees are immutable once parsed and
// are never shared between statements.
type Expr interface {
	Node
	exprNode()
}

// Statements

type ExpressionStmt struct {
	Expression Expr
}

type VarStmt struct {
	Name        token.Token
	Initializer Expr // nil when absent
	Keyword     token.Position
}

type BlockStmt struct {
	Statements []Stmt
	LeftBrace  token.Position
}

type IfStmt struct {
	Condition Expr
	Then      *BlockStmt
	Else      Stmt // *BlockStmt, *IfStmt or nil
	Keyword   token.Position
}

type WhileStmt struct {
	Condition Expr
	Body      *BlockStmt
	Keyword   token.Position
}

type FunctionStmt struct {
	Name    token.Token
	Params  []token.Token
	Body    []Stmt
	Keyword token.Position
}

type ReturnStmt struct {
	Value   Expr // nil when absent
	Keyword token.Position
}

type BreakStmt struct {
	Keyword token.Position
}

type ContinueStmt struct {
	Keyword token.Position
}

func (s *ExpressionStmt) Pos() token.Position { return s.Expression.Pos() }
func (s *VarStmt) Pos() token.Position        { return s.Keyword }
func (s *BlockStmt) Pos() token.Position      { return s.LeftBrace }
func (s *IfStmt) Pos() token.Position         { return s.Keyword }
func (s *WhileStmt) Pos() token.Position      { return s.Keyword }
func (s *FunctionStmt) Pos() token.Position   { return s.Keyword }
func (s *ReturnStmt) Pos() token.Position     { return s.Keyword }
func (s *BreakStmt) Pos() token.Position      { return s.Keyword }
func (s *ContinueStmt) Pos() token.Position   { return s.Keyword }

func (*ExpressionStmt) stmtNode() {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}

// Expressions

// LiteralExpr holds a float64, string, bool or nil.
type LiteralExpr struct {
	Value    interface{}
	Position token.Position
}

type VariableExpr struct {
	Name token.Token
}

type AssignExpr struct {
	Name   token.Token
	Value  Expr
	Equals token.Position
}

type UnaryExpr struct {
	Operator token.Token
	Right    Expr
}

type BinaryExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// LogicalExpr is a short-circuiting && or ||.
type LogicalExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Paren  token.Position
}

type GroupingExpr struct {
	Expression Expr
	LeftParen  token.Position
}

func (e *LiteralExpr) Pos() token.Position  { return e.Position }
func (e *VariableExpr) Pos() token.Position { return e.Name.Pos }
func (e *AssignExpr) Pos() token.Position   { return e.Equals }
func (e *UnaryExpr) Pos() token.Position    { return e.Operator.Pos }
func (e *BinaryExpr) Pos() token.Position   { return e.Operator.Pos }
func (e *LogicalExpr) Pos() token.Position  { return e.Operator.Pos }
func (e *CallExpr) Pos() token.Position     { return e.Paren }
func (e *GroupingExpr) Pos() token.Position { return e.LeftParen }

func (*LiteralExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*CallExpr) exprNode()     {}
func (*GroupingExpr) exprNode() {}
