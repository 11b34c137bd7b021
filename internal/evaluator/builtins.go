package evaluator

import (
	"lox/internal/object"
	"time"
)

var builtins = map[string]*object.Builtin{
	"clock": fnClock(),
}

// fnClock returns wall-clock seconds as a number, for timing scripts.
func fnClock() *object.Builtin {
	return &object.Builtin{
		Name:   "clock",
		Params: 0,
		Fn: func(args ...object.Object) (object.Object, error) {
			return &object.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}, nil
		},
	}
}
