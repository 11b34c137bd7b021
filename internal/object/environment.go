package object

import (
	"context"
	"log/slog"
	"lox/internal/log"
	"lox/internal/token"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one frame of the lexical chain. Frames are shared by
// reference: every closure created inside a frame keeps it alive, and a write
// through any of them is seen by all. Evaluation is single threaded, so the
// map is not guarded.
type Environment struct {
	ID     uint64
	Values map[string]Object
	Outer  *Environment
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:     nextEnvID(),
		Values: make(map[string]Object),
	}
}

// NewEnclosedEnvironment creates a frame whose parent is outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("new env",
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID))
	return env
}

// Define binds name in this frame, replacing any previous binding. The global
// frame relies on this to allow redefinition.
func (e *Environment) Define(name string, val Object) {
	e.Values[name] = val
	slog.Log(context.Background(), log.LevelTrace, "binding value",
		slog.Uint64("env", e.ID),
		slog.String("name", name),
		slog.Any("type", val.Type()))
}

// Get looks name up in this frame and then its ancestors.
func (e *Environment) Get(name token.Token) (Object, error) {
	for env := e; env != nil; env = env.Outer {
		if val, ok := env.Values[name.Literal]; ok {
			return val, nil
		}
	}
	return nil, NewRuntimeError(name, "Undefined variable '%s'.", name.Literal)
}

// Assign overwrites the nearest existing binding of name. It never creates one.
func (e *Environment) Assign(name token.Token, val Object) error {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.Values[name.Literal]; ok {
			env.Values[name.Literal] = val
			slog.Log(context.Background(), log.LevelTrace, "assigning bound value",
				slog.Uint64("env", env.ID),
				slog.String("name", name.Literal),
				slog.Any("type", val.Type()))
			return nil
		}
	}
	return NewRuntimeError(name, "Undefined variable '%s'.", name.Literal)
}

// Ancestor returns the frame distance links up the chain, or nil when the
// chain is shorter than that.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.Outer
	}
	return env
}

// GetAt reads name from exactly the frame distance links up. A miss means the
// resolver and the runtime disagree about the shape of the chain.
func (e *Environment) GetAt(distance int, name token.Token) (Object, error) {
	env := e.Ancestor(distance)
	if env != nil {
		if val, ok := env.Values[name.Literal]; ok {
			return val, nil
		}
	}
	return nil, mismatch(name, distance)
}

func (e *Environment) AssignAt(distance int, name token.Token, val Object) error {
	env := e.Ancestor(distance)
	if env != nil {
		if _, ok := env.Values[name.Literal]; ok {
			env.Values[name.Literal] = val
			return nil
		}
	}
	return mismatch(name, distance)
}

func mismatch(name token.Token, distance int) *RuntimeError {
	slog.Error("resolved binding missing from frame",
		slog.String("name", name.Literal),
		slog.Int("distance", distance),
		slog.Int("line", name.Line))
	return &RuntimeError{
		Token:    name,
		Message:  "Resolved variable '" + name.Literal + "' not found in its frame.",
		Internal: true,
	}
}
