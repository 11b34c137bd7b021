package object

import (
	"lox/internal/token"
)

type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return c.Name }

func (c *Class) FindMethod(name string) (*Function, bool) {
	method, ok := c.Methods[name]
	return method, ok
}

// Arity is the arity of init, or zero for a class without one.
func (c *Class) Arity() int {
	if initializer, ok := c.FindMethod("init"); ok {
		return initializer.Arity()
	}
	return 0
}

// Call creates an instance and runs init bound to it. Whatever init returns
// is discarded; the call always yields the instance.
func (c *Class) Call(ex Executor, args []Object) (Object, error) {
	instance := NewInstance(c)
	if initializer, ok := c.FindMethod("init"); ok {
		if _, err := initializer.Bind(instance).Call(ex, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return i.Class.Name + " instance" }

// Get returns a field if one exists, otherwise the named method bound to i.
// Fields shadow methods.
func (i *Instance) Get(name token.Token) (Object, error) {
	if val, ok := i.Fields[name.Literal]; ok {
		return val, nil
	}
	if method, ok := i.Class.FindMethod(name.Literal); ok {
		return method.Bind(i), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '%s'.", name.Literal)
}

// Set creates or overwrites a field. Methods are never touched.
func (i *Instance) Set(name token.Token, val Object) {
	i.Fields[name.Literal] = val
}
