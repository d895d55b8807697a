// Package index implements the indexer (spec §4.1): a per-file pass
// that collects top-level definitions — their names, signatures, and
// type annotations — without descending into bodies.
package index

import (
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// DefKind distinguishes the three shapes a top-level definition can
// take.
type DefKind int

const (
	KindFunction DefKind = iota
	KindGlobal
	KindNamedType
)

// Param is one parameter of an indexed function signature. The type
// annotation is still an unresolved syntax.TypeExpr at this stage
// (spec §4.1: "Type annotations at this stage are recorded as type
// expressions").
type Param struct {
	Name string // "" if unnamed
	Type syntax.TypeExpr
}

// Entry is one top-level name's signature (spec §3 "Index entry").
type Entry struct {
	Name       intern.Name
	Kind       DefKind
	Params     []Param          // KindFunction only
	ReturnType syntax.TypeExpr  // KindFunction only, nil means Void
	GlobalType syntax.TypeExpr  // KindGlobal/KindNamedType, nil if untyped (inferred from value)
	IsExtern   bool             // KindFunction only
	Value      syntax.Expr      // the definition's right-hand side, kept for the lowerer
	DefRange   syntax.Range     // whole definition
	NameRange  syntax.Range     // just the identifier
	ValueRange syntax.Range
}

// Index is the per-file table of top-level definitions, keyed by
// interned name. Once installed into the world index it is immutable
// (spec §3 invariant).
type Index struct {
	File    intern.FileName
	Entries map[intern.Name]*Entry
	// Order preserves declaration order for deterministic iteration
	// (diagnostics, codegen ordering).
	Order []intern.Name
}

// New creates an empty index for one file.
func New(file intern.FileName) *Index {
	return &Index{File: file, Entries: make(map[intern.Name]*Entry)}
}

// Lookup returns the entry for name, if any.
func (ix *Index) Lookup(name intern.Name) (*Entry, bool) {
	e, ok := ix.Entries[name]
	return e, ok
}

// Build walks the top-level definitions of tree and produces an Index
// plus any diagnostics raised along the way (spec §4.1). It never
// descends into function or comptime bodies.
func Build(file intern.FileName, tree *syntax.Tree, names *intern.Table) (*Index, *diag.Bag) {
	ix := New(file)
	bag := &diag.Bag{}

	for _, def := range tree.Defs {
		name := intern.Name(names.Intern(def.Name))

		if def.Bind == syntax.BindVar {
			bag.Add(diag.Diagnostic{
				Kind:     diag.NonBindingAtRoot,
				Phase:    diag.PhaseIndexing,
				Severity: diag.SeverityError,
				Message:  "global '" + def.Name + "' must be declared with '::' not ':='",
				Range:    def.Range,
			})
			// still indexed, per spec.
		}

		if _, dup := ix.Entries[name]; dup {
			bag.Add(diag.Diagnostic{
				Kind:     diag.AlreadyDefined,
				Phase:    diag.PhaseIndexing,
				Severity: diag.SeverityError,
				Message:  "'" + def.Name + "' is already defined",
				Range:    def.NameRange,
			})
			continue // drop the later definition
		}

		entry := buildEntry(name, def)
		ix.Entries[name] = entry
		ix.Order = append(ix.Order, name)
	}

	return ix, bag
}

func buildEntry(name intern.Name, def *syntax.Definition) *Entry {
	if lam, ok := def.Value.(*syntax.Lambda); ok {
		params := make([]Param, len(lam.Params))
		for i, p := range lam.Params {
			params[i] = Param{Name: p.Name, Type: p.Type}
		}
		return &Entry{
			Name:       name,
			Kind:       KindFunction,
			Params:     params,
			ReturnType: lam.RetType,
			IsExtern:   lam.IsExtern,
			Value:      def.Value,
			DefRange:   def.Range,
			NameRange:  def.NameRange,
			ValueRange: lam.Range(),
		}
	}

	kind := KindGlobal
	if _, ok := def.Value.(*syntax.DistinctExpr); ok {
		kind = KindNamedType
	}
	if _, ok := def.Value.(*syntax.StructDecl); ok {
		kind = KindNamedType
	}

	return &Entry{
		Name:       name,
		Kind:       kind,
		Value:      def.Value,
		DefRange:   def.Range,
		NameRange:  def.NameRange,
		ValueRange: def.Value.Range(),
	}
}
