package resolver

import (
	"log/slog"
	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/token"
)

type FunctionType int

const (
	NO_FUNCTION FunctionType = iota
	FUNCTION
	METHOD
)

type ClassType int

const (
	NO_CLASS ClassType = iota
	CLASS
)

type void = struct{}

var (
	_ ast.ExprVisitor[void] = (*Resolver)(nil)
	_ ast.StmtVisitor[void] = (*Resolver)(nil)
)

// Resolver is a single forward pass over the statements that records, for
// every reference to a local binding, how many scopes lie between the
// reference and the declaration. It evaluates nothing: both branches of an
// if are visited and loop bodies are visited once.
//
// Each scope maps a name to whether its initializer has finished. The global
// scope is never pushed, so globals are left unresolved and looked up
// dynamically.
type Resolver struct {
	reporter diag.Reporter
	locals   *Locals
	scopes   []map[string]bool

	currentFunction FunctionType
	currentClass    ClassType
}

func New(reporter diag.Reporter) *Resolver {
	return &Resolver{reporter: reporter}
}

// Resolve walks statements and returns the distances it found. Problems go
// to the reporter and resolution carries on past them.
func (r *Resolver) Resolve(statements []ast.Stmt) *Locals {
	r.locals = NewLocals()
	r.scopes = nil
	r.currentFunction = NO_FUNCTION
	r.currentClass = NO_CLASS

	r.resolveStatements(statements)

	return r.locals
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	_, _ = ast.WalkStmt[void](r, stmt)
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	_, _ = ast.WalkExpr[void](r, expr)
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Literal]; exists {
		r.reporter.Report(name, "Already a variable with this name in this scope.")
	}
	scope[name.Literal] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Literal] = true
}

// resolveLocal records the distance to the innermost scope declaring the
// reference's name. A miss leaves the reference global.
func (r *Resolver) resolveLocal(ref ast.Reference) {
	name := ref.RefName().Literal

	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			depth := len(r.scopes) - 1 - i
			r.locals.Record(ref.RefID(), depth)
			slog.Debug("resolved local",
				slog.String("name", name),
				slog.Int("line", ref.RefName().Line),
				slog.Int("depth", depth))
			return
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind FunctionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()
}

// Statements

func (r *Resolver) VisitBlock(stmt *ast.Block) (void, error) {
	r.beginScope()
	r.resolveStatements(stmt.Statements)
	r.endScope()
	return void{}, nil
}

func (r *Resolver) VisitVar(stmt *ast.Var) (void, error) {
	r.declare(stmt.Name)
	if stmt.Initializer != nil {
		r.resolveExpr(stmt.Initializer)
	}
	r.define(stmt.Name)
	return void{}, nil
}

// VisitFunction defines the name before the body is resolved so the
// function can refer to itself.
func (r *Resolver) VisitFunction(stmt *ast.Function) (void, error) {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt, FUNCTION)
	return void{}, nil
}

// VisitClass resolves methods inside a scope holding "this", matching the
// frame Bind creates at run time.
func (r *Resolver) VisitClass(stmt *ast.Class) (void, error) {
	enclosingClass := r.currentClass
	r.currentClass = CLASS
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range stmt.Methods {
		r.resolveFunction(method, METHOD)
	}

	r.endScope()
	return void{}, nil
}

func (r *Resolver) VisitIf(stmt *ast.If) (void, error) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Then)
	if stmt.Else != nil {
		r.resolveStmt(stmt.Else)
	}
	return void{}, nil
}

func (r *Resolver) VisitPrint(stmt *ast.Print) (void, error) {
	r.resolveExpr(stmt.Expression)
	return void{}, nil
}

func (r *Resolver) VisitReturn(stmt *ast.Return) (void, error) {
	if r.currentFunction == NO_FUNCTION {
		r.reporter.Report(stmt.Keyword, "Can't return from top-level code.")
	}
	if stmt.Value != nil {
		r.resolveExpr(stmt.Value)
	}
	return void{}, nil
}

func (r *Resolver) VisitWhile(stmt *ast.While) (void, error) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Body)
	return void{}, nil
}

func (r *Resolver) VisitExpression(stmt *ast.Expression) (void, error) {
	r.resolveExpr(stmt.Expression)
	return void{}, nil
}

// Expressions

func (r *Resolver) VisitVariable(expr *ast.Variable) (void, error) {
	if len(r.scopes) > 0 {
		if defined, declared := r.scopes[len(r.scopes)-1][expr.Name.Literal]; declared && !defined {
			r.reporter.Report(expr.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(expr)
	return void{}, nil
}

func (r *Resolver) VisitAssign(expr *ast.Assign) (void, error) {
	r.resolveExpr(expr.Value)
	r.resolveLocal(expr)
	return void{}, nil
}

func (r *Resolver) VisitThis(expr *ast.This) (void, error) {
	if r.currentClass == NO_CLASS {
		r.reporter.Report(expr.Keyword, "Can't use 'this' outside of a class.")
		return void{}, nil
	}
	r.resolveLocal(expr)
	return void{}, nil
}

func (r *Resolver) VisitCall(expr *ast.Call) (void, error) {
	r.resolveExpr(expr.Callee)
	for _, arg := range expr.Arguments {
		r.resolveExpr(arg)
	}
	return void{}, nil
}

// VisitGet resolves only the object: property names are looked up
// dynamically on the instance.
func (r *Resolver) VisitGet(expr *ast.Get) (void, error) {
	r.resolveExpr(expr.Object)
	return void{}, nil
}

func (r *Resolver) VisitSet(expr *ast.Set) (void, error) {
	r.resolveExpr(expr.Value)
	r.resolveExpr(expr.Object)
	return void{}, nil
}

func (r *Resolver) VisitLogical(expr *ast.Logical) (void, error) {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return void{}, nil
}

func (r *Resolver) VisitBinary(expr *ast.Binary) (void, error) {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return void{}, nil
}

func (r *Resolver) VisitUnary(expr *ast.Unary) (void, error) {
	r.resolveExpr(expr.Right)
	return void{}, nil
}

func (r *Resolver) VisitLiteral(expr *ast.Literal) (void, error) {
	return void{}, nil
}

func (r *Resolver) VisitGrouping(expr *ast.Grouping) (void, error) {
	r.resolveExpr(expr.Expression)
	return void{}, nil
}
