package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"lox/internal/ast"
	"lox/internal/object"
	"lox/internal/resolver"
	"lox/internal/token"
)

// maxCallDepth bounds nested calls so runaway recursion fails as a runtime
// error instead of exhausting the goroutine stack.
const maxCallDepth = 4096

var (
	_ ast.ExprVisitor[object.Object] = (*Evaluator)(nil)
	_ ast.StmtVisitor[object.Object] = (*Evaluator)(nil)
	_ object.Executor                = (*Evaluator)(nil)
)

// Evaluator walks resolved statements. Statement visitors return nil for
// normal completion and *object.ReturnValue when a return statement ran;
// runtime faults come back as *object.RuntimeError.
type Evaluator struct {
	envStack []*object.Environment // Environment stack encapsulated in an evaluator struct
	globals  *object.Environment
	locals   *resolver.Locals
	out      io.Writer

	ctx       context.Context
	callDepth int
}

// New creates an evaluator whose print statements write to out. The global
// frame starts with the builtins installed.
func New(out io.Writer) *Evaluator {
	e := &Evaluator{
		globals: object.NewEnvironment(),
		locals:  resolver.NewLocals(),
		out:     out,
		ctx:     context.Background(),
	}
	for name, fn := range builtins {
		e.globals.Define(name, fn)
	}
	e.PushEnv(e.globals)
	return e
}

func (e *Evaluator) Globals() *object.Environment {
	return e.globals
}

// AddLocals makes the distances of a newly resolved program available.
// Earlier entries are kept, so functions defined by previous programs keep
// working.
func (e *Evaluator) AddLocals(locals *resolver.Locals) {
	e.locals.Merge(locals)
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	// Access the current environment from the top frame
	if len(e.envStack) == 0 {
		panic("Environment stack is empty in the current frame")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("Attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

// Interpret executes statements in the global frame and stops at the first
// runtime error. Cancelling ctx stops loops and calls with an "Interrupted."
// error.
func (e *Evaluator) Interpret(ctx context.Context, statements []ast.Stmt) error {
	e.ctx = ctx
	e.callDepth = 0
	defer func() { e.ctx = context.Background() }()

	for _, stmt := range statements {
		if _, err := e.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteBlock runs statements with env as the current frame and restores
// the previous frame afterwards, also on error.
func (e *Evaluator) ExecuteBlock(statements []ast.Stmt, env *object.Environment) (object.Object, error) {
	e.PushEnv(env)
	defer e.PopEnv()

	for _, stmt := range statements {
		result, err := e.execute(stmt)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	return nil, nil
}

// interrupted reports cancellation of the running program at tok.
func (e *Evaluator) interrupted(tok token.Token) error {
	if e.ctx.Err() != nil {
		return object.NewRuntimeError(tok, "Interrupted.")
	}
	return nil
}

func (e *Evaluator) execute(stmt ast.Stmt) (object.Object, error) {
	return ast.WalkStmt[object.Object](e, stmt)
}

func (e *Evaluator) evaluate(expr ast.Expr) (object.Object, error) {
	return ast.WalkExpr[object.Object](e, expr)
}

// lookUpVariable reads a resolved reference at its recorded distance and
// falls back to the global frame for everything else.
func (e *Evaluator) lookUpVariable(ref ast.Reference) (object.Object, error) {
	if distance, ok := e.locals.Depth(ref.RefID()); ok {
		return e.CurrentEnv().GetAt(distance, ref.RefName())
	}
	return e.globals.Get(ref.RefName())
}

// Statements

func (e *Evaluator) VisitBlock(stmt *ast.Block) (object.Object, error) {
	return e.ExecuteBlock(stmt.Statements, object.NewEnclosedEnvironment(e.CurrentEnv()))
}

func (e *Evaluator) VisitVar(stmt *ast.Var) (object.Object, error) {
	var value object.Object = object.NIL
	if stmt.Initializer != nil {
		val, err := e.evaluate(stmt.Initializer)
		if err != nil {
			return nil, err
		}
		value = val
	}

	e.CurrentEnv().Define(stmt.Name.Literal, value)
	return nil, nil
}

func (e *Evaluator) VisitFunction(stmt *ast.Function) (object.Object, error) {
	fn := &object.Function{Declaration: stmt, Closure: e.CurrentEnv()}
	e.CurrentEnv().Define(stmt.Name.Literal, fn)
	return nil, nil
}

func (e *Evaluator) VisitClass(stmt *ast.Class) (object.Object, error) {
	class := &object.Class{
		Name:    stmt.Name.Literal,
		Methods: make(map[string]*object.Function, len(stmt.Methods)),
	}
	for _, method := range stmt.Methods {
		class.Methods[method.Name.Literal] = &object.Function{Declaration: method, Closure: e.CurrentEnv()}
	}

	e.CurrentEnv().Define(stmt.Name.Literal, class)
	return nil, nil
}

func (e *Evaluator) VisitIf(stmt *ast.If) (object.Object, error) {
	condition, err := e.evaluate(stmt.Condition)
	if err != nil {
		return nil, err
	}

	if isTruthy(condition) {
		return e.execute(stmt.Then)
	} else if stmt.Else != nil {
		return e.execute(stmt.Else)
	}
	return nil, nil
}

func (e *Evaluator) VisitPrint(stmt *ast.Print) (object.Object, error) {
	value, err := e.evaluate(stmt.Expression)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(e.out, value.Inspect())
	return nil, nil
}

func (e *Evaluator) VisitReturn(stmt *ast.Return) (object.Object, error) {
	var value object.Object = object.NIL
	if stmt.Value != nil {
		val, err := e.evaluate(stmt.Value)
		if err != nil {
			return nil, err
		}
		value = val
	}

	return &object.ReturnValue{Value: value}, nil
}

func (e *Evaluator) VisitWhile(stmt *ast.While) (object.Object, error) {
	for {
		if err := e.interrupted(stmt.Token); err != nil {
			return nil, err
		}

		condition, err := e.evaluate(stmt.Condition)
		if err != nil {
			return nil, err
		}
		if !isTruthy(condition) {
			return nil, nil
		}

		result, err := e.execute(stmt.Body)
		if err != nil || result != nil {
			return result, err
		}
	}
}

func (e *Evaluator) VisitExpression(stmt *ast.Expression) (object.Object, error) {
	_, err := e.evaluate(stmt.Expression)
	return nil, err
}

// Expressions

func (e *Evaluator) VisitVariable(expr *ast.Variable) (object.Object, error) {
	return e.lookUpVariable(expr)
}

func (e *Evaluator) VisitThis(expr *ast.This) (object.Object, error) {
	return e.lookUpVariable(expr)
}

func (e *Evaluator) VisitAssign(expr *ast.Assign) (object.Object, error) {
	value, err := e.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := e.locals.Depth(expr.ID); ok {
		err = e.CurrentEnv().AssignAt(distance, expr.Name, value)
	} else {
		err = e.globals.Assign(expr.Name, value)
	}
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (e *Evaluator) VisitCall(expr *ast.Call) (object.Object, error) {
	callee, err := e.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Object, 0, len(expr.Arguments))
	for _, argument := range expr.Arguments {
		arg, err := e.evaluate(argument)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		return nil, object.NewRuntimeError(expr.Paren, "Can only call functions and classes.")
	}

	if len(args) != callable.Arity() {
		return nil, object.NewRuntimeError(expr.Paren,
			"Expected %d arguments but got %d.", callable.Arity(), len(args))
	}

	if err := e.interrupted(expr.Paren); err != nil {
		return nil, err
	}
	if e.callDepth >= maxCallDepth {
		return nil, object.NewRuntimeError(expr.Paren, "Stack overflow.")
	}

	slog.Debug("calling",
		slog.String("callee", callable.Inspect()),
		slog.Int("args", len(args)),
		slog.Int("depth", e.callDepth))

	e.callDepth++
	defer func() { e.callDepth-- }()
	return callable.Call(e, args)
}

func (e *Evaluator) VisitGet(expr *ast.Get) (object.Object, error) {
	obj, err := e.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := obj.(*object.Instance)
	if !ok {
		return nil, object.NewRuntimeError(expr.Name, "Only instances have properties.")
	}

	return instance.Get(expr.Name)
}

func (e *Evaluator) VisitSet(expr *ast.Set) (object.Object, error) {
	obj, err := e.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := obj.(*object.Instance)
	if !ok {
		return nil, object.NewRuntimeError(expr.Name, "Only instances have fields.")
	}

	value, err := e.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}

	instance.Set(expr.Name, value)
	return value, nil
}

// VisitLogical short-circuits and yields the deciding operand itself, not a
// boolean.
func (e *Evaluator) VisitLogical(expr *ast.Logical) (object.Object, error) {
	left, err := e.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}

	if expr.Operator.Type == token.OR {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}

	return e.evaluate(expr.Right)
}

func (e *Evaluator) VisitBinary(expr *ast.Binary) (object.Object, error) {
	left, err := e.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	return e.evalInfixExpression(expr.Operator, left, right)
}

func (e *Evaluator) VisitUnary(expr *ast.Unary) (object.Object, error) {
	right, err := e.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	return e.evalPrefixExpression(expr.Operator, right)
}

func (e *Evaluator) VisitLiteral(expr *ast.Literal) (object.Object, error) {
	switch v := expr.Value.(type) {
	case nil:
		return object.NIL, nil
	case bool:
		return object.NativeBoolToBooleanObject(v), nil
	case float64:
		return &object.Number{Value: v}, nil
	case string:
		return &object.String{Value: v}, nil
	}
	return nil, object.NewRuntimeError(expr.Token, "Unsupported literal %T.", expr.Value)
}

func (e *Evaluator) VisitGrouping(expr *ast.Grouping) (object.Object, error) {
	return e.evaluate(expr.Expression)
}
