package comptime

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// EvaluateFile runs the full compile-time evaluation pass for one
// file: build the dependency graph between its comptime expressions,
// topologically order them (breaking any cycle arbitrarily after
// reporting it), and evaluate each in turn, memoizing every result
// into results (spec §4.4).
func EvaluateFile(file intern.FileName, bodies *core.Bodies, names *intern.Table, results *Table, crossFile GlobalValueLookup) *diag.Bag {
	it := NewInterpreter(file, bodies, names, results, crossFile)
	it.EvaluateAll()
	return it.Bag
}

// EvaluateAll runs its full compile-time evaluation pass over its own
// bodies: build the dependency graph, topologically order it (cycles
// reported and broken arbitrarily), and evaluate each comptime in
// turn. Exported separately from EvaluateFile so a driver juggling
// several files' interpreters (for cross-file global lookups) can
// reuse the same Interpreter instance instead of constructing a fresh,
// cache-less one per call.
func (it *Interpreter) EvaluateAll() {
	graph := BuildDependencyGraph(it.Bodies)
	order := topoOrder(graph, it.Bag)
	for _, id := range order {
		it.EvalComptime(id)
	}
}

// topoOrder computes an evaluation order over the dependency graph's
// SCCs. Tarjan's algorithm closes out an SCC only once every node it
// can reach has already been closed, so the SCCs it yields are
// already in dependency-before-dependent order for our edge direction
// (dependent -> dependency). A multi-node SCC is a real cycle; it is
// reported once and its members evaluated in whatever order Tarjan
// produced (spec §4.4 step 3).
func topoOrder(g *DependencyGraph, bag *diag.Bag) []core.ComptimeID {
	sccs := g.SCCs()
	var order []core.ComptimeID
	for _, scc := range sccs {
		if isCyclic(g, scc) {
			bag.Errorf(diag.ComptimeCycle, diag.PhaseComptime, syntax.Range{}, "comptime dependency cycle involving %d expression(s)", len(scc))
		}
		order = append(order, scc...)
	}
	return order
}
