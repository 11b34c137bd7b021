package ast

import "fmt"

// ExprVisitor has one method per expression shape. Traversals assert that they
// implement it, so a new shape fails to compile until every traversal handles it.
type ExprVisitor[R any] interface {
	VisitVariable(*Variable) (R, error)
	VisitAssign(*Assign) (R, error)
	VisitThis(*This) (R, error)
	VisitCall(*Call) (R, error)
	VisitGet(*Get) (R, error)
	VisitSet(*Set) (R, error)
	VisitLogical(*Logical) (R, error)
	VisitBinary(*Binary) (R, error)
	VisitUnary(*Unary) (R, error)
	VisitLiteral(*Literal) (R, error)
	VisitGrouping(*Grouping) (R, error)
}

type StmtVisitor[R any] interface {
	VisitBlock(*Block) (R, error)
	VisitVar(*Var) (R, error)
	VisitFunction(*Function) (R, error)
	VisitClass(*Class) (R, error)
	VisitIf(*If) (R, error)
	VisitPrint(*Print) (R, error)
	VisitReturn(*Return) (R, error)
	VisitWhile(*While) (R, error)
	VisitExpression(*Expression) (R, error)
}

func WalkExpr[R any](v ExprVisitor[R], expr Expr) (R, error) {
	switch n := expr.(type) {
	case *Variable:
		return v.VisitVariable(n)
	case *Assign:
		return v.VisitAssign(n)
	case *This:
		return v.VisitThis(n)
	case *Call:
		return v.VisitCall(n)
	case *Get:
		return v.VisitGet(n)
	case *Set:
		return v.VisitSet(n)
	case *Logical:
		return v.VisitLogical(n)
	case *Binary:
		return v.VisitBinary(n)
	case *Unary:
		return v.VisitUnary(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *Grouping:
		return v.VisitGrouping(n)
	}
	// Expr is sealed, so only a nil interface can get here.
	panic(fmt.Sprintf("ast: unexpected expression %T", expr))
}

func WalkStmt[R any](v StmtVisitor[R], stmt Stmt) (R, error) {
	switch n := stmt.(type) {
	case *Block:
		return v.VisitBlock(n)
	case *Var:
		return v.VisitVar(n)
	case *Function:
		return v.VisitFunction(n)
	case *Class:
		return v.VisitClass(n)
	case *If:
		return v.VisitIf(n)
	case *Print:
		return v.VisitPrint(n)
	case *Return:
		return v.VisitReturn(n)
	case *While:
		return v.VisitWhile(n)
	case *Expression:
		return v.VisitExpression(n)
	}
	panic(fmt.Sprintf("ast: unexpected statement %T", stmt))
}
