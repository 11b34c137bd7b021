package object

import (
	"lox/internal/ast"
)

// Executor runs a statement list in a given frame. The evaluator implements it;
// callables receive it so this package does not depend on the evaluator.
//
// The returned Object is nil when the statements complete normally and a
// *ReturnValue when a return statement ran.
type Executor interface {
	ExecuteBlock(statements []ast.Stmt, env *Environment) (Object, error)
}

// Callable is anything a call expression can invoke. Callers check the
// argument count against Arity before calling.
type Callable interface {
	Object
	Arity() int
	Call(ex Executor, args []Object) (Object, error)
}

type BuiltinFunction func(args ...Object) (Object, error)

// Builtin is a function implemented in Go, installed into the global frame.
type Builtin struct {
	Name   string
	Params int
	Fn     BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<native fn>" }
func (b *Builtin) Arity() int       { return b.Params }

func (b *Builtin) Call(_ Executor, args []Object) (Object, error) {
	return b.Fn(args...)
}
