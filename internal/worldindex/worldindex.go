// Package worldindex implements the world index (spec §4.5, §9): the
// mapping from file id to the file's top-level definition index,
// mutated as imports are discovered and unified across the whole
// compilation before inference runs.
package worldindex

import (
	"sync"

	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/intern"
)

// World is the append-only FileName -> Index map (spec §3 invariant:
// "The world index is append-only within a compilation; a file's
// Index, once installed, is immutable").
type World struct {
	mu    sync.RWMutex
	byKey map[intern.FileName]*index.Index
	order []intern.FileName
}

// New creates an empty world index.
func New() *World {
	return &World{byKey: make(map[intern.FileName]*index.Index)}
}

// Install adds ix under its File key. Installing a file that is
// already present is a no-op: the first Index stays in place. The
// worklist in internal/driver indexes each file exactly once.
func (w *World) Install(ix *index.Index) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.byKey[ix.File]; ok {
		return
	}
	w.byKey[ix.File] = ix
	w.order = append(w.order, ix.File)
}

// Get returns the Index for a file, if known yet.
func (w *World) Get(file intern.FileName) (*index.Index, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ix, ok := w.byKey[file]
	return ix, ok
}

// Has reports whether file has already been installed.
func (w *World) Has(file intern.FileName) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.byKey[file]
	return ok
}

// Files returns every installed file, in install order.
func (w *World) Files() []intern.FileName {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]intern.FileName, len(w.order))
	copy(out, w.order)
	return out
}

// Lookup resolves a cross-file field access: the entry named `name` in
// file `file`, per spec §4.3 Path resolution ("If typeof(prev) =
// File(f), the field names a top-level definition of f").
func (w *World) Lookup(file intern.FileName, name intern.Name) (*index.Entry, bool) {
	ix, ok := w.Get(file)
	if !ok {
		return nil, false
	}
	return ix.Lookup(name)
}
