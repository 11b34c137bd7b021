package object

import (
	"log/slog"
	"lox/internal/ast"
)

// Function is a closure: a declaration paired with the frame that was current
// when the declaration ran.
type Function struct {
	Declaration *ast.Function
	Closure     *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn " + f.Declaration.Name.Literal + ">" }
func (f *Function) Arity() int       { return len(f.Declaration.Params) }

// Call runs the body in a fresh frame whose parent is the closure. Falling off
// the end of the body yields nil.
func (f *Function) Call(ex Executor, args []Object) (Object, error) {
	env := NewEnclosedEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Literal, args[i])
	}

	result, err := ex.ExecuteBlock(f.Declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if rv, ok := result.(*ReturnValue); ok {
		return rv.Value, nil
	}
	return NIL, nil
}

// Bind returns a copy of the method whose closure is a new frame defining
// "this" as instance. f itself is left untouched.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	slog.Debug("bound method",
		slog.String("method", f.Declaration.Name.Literal),
		slog.String("class", instance.Class.Name),
		slog.Uint64("env", env.ID))
	return &Function{Declaration: f.Declaration, Closure: env}
}
