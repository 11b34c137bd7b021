package resolver

import "lox/internal/ast"

// Locals maps each locally resolved reference to the number of frames
// between the reference and its binding. References absent from the table
// are globals.
type Locals struct {
	depths map[ast.NodeID]int
}

func NewLocals() *Locals {
	return &Locals{depths: make(map[ast.NodeID]int)}
}

func (l *Locals) Record(id ast.NodeID, depth int) {
	l.depths[id] = depth
}

func (l *Locals) Depth(id ast.NodeID) (int, bool) {
	depth, ok := l.depths[id]
	return depth, ok
}

// Merge copies every entry of other into l. Node ids are unique per process,
// so entries from separately resolved programs never collide.
func (l *Locals) Merge(other *Locals) {
	if other == nil {
		return
	}
	for id, depth := range other.depths {
		l.depths[id] = depth
	}
}

func (l *Locals) Len() int {
	return len(l.depths)
}
