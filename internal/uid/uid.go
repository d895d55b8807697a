// Package uid hands out the monotonic identifiers the rest of the
// compiler uses to give distinct, struct, scope, and label
// declarations identity within one compilation session.
//
// Unlike the teacher's content-hashed stable ids (internal/sid in the
// ancestor of this package), Capy's ids only need to be unique within
// a single compilation — nothing persists across runs — so a plain
// counter suffices (spec §5: arenas and interners are owned by one
// session and dropped at its end).
package uid

// Generator hands out unique, monotonically increasing ids for each of
// the four id spaces the middle end needs. The zero value is ready to
// use.
type Generator struct {
	distinct uint32
	structs  uint32
	scopes   uint32
	labels   uint32
}

// Distinct allocates a new uid for a `distinct` type declaration.
func (g *Generator) Distinct() uint32 {
	g.distinct++
	return g.distinct
}

// Struct allocates a new uid for a struct type declaration.
func (g *Generator) Struct() uint32 {
	g.structs++
	return g.structs
}

// Scope allocates a new ScopeId for a labellable block or loop that
// is actually targeted by a break/continue.
func (g *Generator) Scope() uint32 {
	g.scopes++
	return g.scopes
}

// Label allocates a new id for a named label.
func (g *Generator) Label() uint32 {
	g.labels++
	return g.labels
}
