// Package comptime implements the compile-time evaluation driver (spec
// §4.4): discovery of `comptime { ... }` expressions, dependency
// ordering between them, evaluation by a tree-walking interpreter over
// the lowered core IR, and a byte-result table keyed by (file,
// comptime id).
package comptime

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/intern"
)

// DependencyGraph tracks which comptime expressions depend on which
// others, so they can be evaluated in an order where every dependency
// runs before its dependent (spec §4.4 step 2-3).
type DependencyGraph struct {
	nodes   []core.ComptimeID
	edges   map[core.ComptimeID][]core.ComptimeID
	nodeSet map[core.ComptimeID]bool
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		edges:   make(map[core.ComptimeID][]core.ComptimeID),
		nodeSet: make(map[core.ComptimeID]bool),
	}
}

// AddNode registers a comptime id with no dependencies yet.
func (g *DependencyGraph) AddNode(id core.ComptimeID) {
	if !g.nodeSet[id] {
		g.nodes = append(g.nodes, id)
		g.nodeSet[id] = true
		g.edges[id] = nil
	}
}

// AddEdge records that dependent's evaluation requires dependency to
// have already run.
func (g *DependencyGraph) AddEdge(dependent, dependency core.ComptimeID) {
	g.AddNode(dependent)
	g.AddNode(dependency)
	g.edges[dependent] = append(g.edges[dependent], dependency)
}

// SCCs computes strongly connected components via Tarjan's algorithm.
// A component of size > 1, or a single node with a self-edge, is a
// dependency cycle (spec §4.4 step 3: "cycles are reported as a
// diagnostic and broken arbitrarily").
func (g *DependencyGraph) SCCs() [][]core.ComptimeID {
	index := 0
	var stack []core.ComptimeID
	indices := make(map[core.ComptimeID]int)
	lowlinks := make(map[core.ComptimeID]int)
	onStack := make(map[core.ComptimeID]bool)
	var sccs [][]core.ComptimeID

	var strongconnect func(core.ComptimeID)
	strongconnect = func(v core.ComptimeID) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlinks[w] < lowlinks[v] {
					lowlinks[v] = lowlinks[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlinks[v] {
					lowlinks[v] = indices[w]
				}
			}
		}

		if lowlinks[v] == indices[v] {
			var scc []core.ComptimeID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.nodes {
		if _, ok := indices[node]; !ok {
			strongconnect(node)
		}
	}

	return sccs
}

// isCyclic reports whether an SCC represents a real dependency cycle
// rather than a single, self-independent node.
func isCyclic(g *DependencyGraph, scc []core.ComptimeID) bool {
	if len(scc) > 1 {
		return true
	}
	only := scc[0]
	for _, dep := range g.edges[only] {
		if dep == only {
			return true
		}
	}
	return false
}

// BuildDependencyGraph walks every comptime body in bodies and records
// an edge from it to every other comptime it transitively references,
// either directly (a nested `comptime` expression) or through a
// same-file global whose value is itself a comptime (spec §4.4 step
// 2: "a comptime depends on every global and every other comptime
// transitively referenced in its body").
func BuildDependencyGraph(bodies *core.Bodies) *DependencyGraph {
	g := NewDependencyGraph()

	globalComptime := make(map[intern.Name]core.ComptimeID)
	for name, exprID := range bodies.Globals {
		if ref, ok := bodies.Expr(exprID).Data.(core.ComptimeRef); ok {
			globalComptime[name] = ref.Comptime
		}
	}

	for id := range bodies.Comptimes {
		cid := core.ComptimeID(id)
		g.AddNode(cid)
		ct := bodies.Comptime(cid)
		for _, dep := range findComptimeDeps(bodies, ct.Body, globalComptime) {
			if dep != cid {
				g.AddEdge(cid, dep)
			}
		}
	}

	return g
}

// findComptimeDeps walks an expression tree collecting every comptime
// id it references, directly or via a global alias.
func findComptimeDeps(bodies *core.Bodies, e core.ExprID, globalComptime map[intern.Name]core.ComptimeID) []core.ComptimeID {
	var deps []core.ComptimeID
	walkExprDeps(bodies, e, globalComptime, &deps)
	return deps
}

func walkExprDeps(bodies *core.Bodies, e core.ExprID, globalComptime map[intern.Name]core.ComptimeID, deps *[]core.ComptimeID) {
	node := bodies.Expr(e)
	switch d := node.Data.(type) {
	case core.ComptimeRef:
		*deps = append(*deps, d.Comptime)
	case core.LocalGlobal:
		if cid, ok := globalComptime[d.Name]; ok {
			*deps = append(*deps, cid)
		}
	case core.Cast:
		walkExprDeps(bodies, d.Expr, globalComptime, deps)
	case core.Ref:
		walkExprDeps(bodies, d.Expr, globalComptime, deps)
	case core.Deref:
		walkExprDeps(bodies, d.Ptr, globalComptime, deps)
	case core.Binary:
		walkExprDeps(bodies, d.Lhs, globalComptime, deps)
		walkExprDeps(bodies, d.Rhs, globalComptime, deps)
	case core.Unary:
		walkExprDeps(bodies, d.Expr, globalComptime, deps)
	case core.Array:
		for _, item := range d.Items {
			walkExprDeps(bodies, item, globalComptime, deps)
		}
	case core.Index:
		walkExprDeps(bodies, d.Array, globalComptime, deps)
		walkExprDeps(bodies, d.Index, globalComptime, deps)
	case core.Block:
		for _, s := range d.Stmts {
			walkStmtDeps(bodies, s, globalComptime, deps)
		}
		if d.Tail != nil {
			walkExprDeps(bodies, *d.Tail, globalComptime, deps)
		}
	case core.If:
		walkExprDeps(bodies, d.Cond, globalComptime, deps)
		walkExprDeps(bodies, d.Body, globalComptime, deps)
		if d.Else != nil {
			walkExprDeps(bodies, *d.Else, globalComptime, deps)
		}
	case core.While:
		if d.Cond != nil {
			walkExprDeps(bodies, *d.Cond, globalComptime, deps)
		}
		walkExprDeps(bodies, d.Body, globalComptime, deps)
	case core.Call:
		walkExprDeps(bodies, d.Callee, globalComptime, deps)
		for _, a := range d.Args {
			walkExprDeps(bodies, a, globalComptime, deps)
		}
	case core.Path:
		walkExprDeps(bodies, d.Prev, globalComptime, deps)
	case core.StructLiteral:
		for _, fid := range d.Order {
			walkExprDeps(bodies, d.Fields[fid], globalComptime, deps)
		}
	}
	// Lit, Local, Param, PrimitiveTyRef, Unresolved, LambdaExpr,
	// DistinctExpr, StructDecl, Import carry no comptime dependencies
	// directly: a lambda's body is its own independent evaluation unit,
	// forced only when actually called.
}

func walkStmtDeps(bodies *core.Bodies, s core.StmtID, globalComptime map[intern.Name]core.ComptimeID, deps *[]core.ComptimeID) {
	node := bodies.Stmt(s)
	switch d := node.Data.(type) {
	case core.ExprStmt:
		walkExprDeps(bodies, d.Expr, globalComptime, deps)
	case core.LocalDefStmt:
		local := bodies.Local(d.Local)
		walkExprDeps(bodies, local.Value, globalComptime, deps)
	case core.AssignStmt:
		assign := bodies.Assign(d.Assign)
		walkExprDeps(bodies, assign.Place, globalComptime, deps)
		walkExprDeps(bodies, assign.Value, globalComptime, deps)
	case core.BreakStmt:
		if d.Value != nil {
			walkExprDeps(bodies, *d.Value, globalComptime, deps)
		}
	}
}
