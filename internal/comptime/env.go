package comptime

import "github.com/capy-lang/capy/internal/core"

// Environment is a chain of local-variable bindings, one per lexical
// scope entered during evaluation (spec §4.4's interpreter walks the
// same lowered IR the rest of the core does, so bindings are keyed by
// core.LocalID rather than by name). Each binding is a *Cell so a
// `Ref` expression can alias it and later mutate it through a
// Pointer value.
type Environment struct {
	values map[core.LocalID]*Cell
	parent *Environment
}

// NewEnvironment creates an empty root environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[core.LocalID]*Cell)}
}

// Child creates a new environment nested under e.
func (e *Environment) Child() *Environment {
	return &Environment{values: make(map[core.LocalID]*Cell), parent: e}
}

// Define introduces a fresh binding for id in this frame (a LocalDef
// statement always creates a new cell, even if id shadows an outer
// one).
func (e *Environment) Define(id core.LocalID, value Value) {
	e.values[id] = &Cell{Value: value}
}

// Lookup finds id's cell, searching outward through parent frames.
func (e *Environment) Lookup(id core.LocalID) (*Cell, bool) {
	if c, ok := e.values[id]; ok {
		return c, true
	}
	if e.parent != nil {
		return e.parent.Lookup(id)
	}
	return nil, false
}
