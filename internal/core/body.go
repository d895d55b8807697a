package core

import (
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// Bodies holds one file's four arenas plus the root maps the backend
// consumes: every top-level global's lowered value, every discovered
// import, the label table, and the comptime table (spec §6 "Core ->
// Backend").
type Bodies struct {
	Exprs     []Node
	Stmts     []StmtNode
	Locals    []LocalDef
	Assigns   []Assign
	Lambdas   []Lambda
	Comptimes []Comptime

	// Globals maps each top-level definition's name to its lowered
	// expression (the definition's right-hand side).
	Globals map[intern.Name]ExprID

	// Imports is the set of files this body discovered via `import`,
	// in discovery order (spec §4.2, §4.5).
	Imports []intern.FileName

	Labels *LabelTable
}

// NewBodies creates an empty Bodies for one file.
func NewBodies() *Bodies {
	return &Bodies{
		Globals: make(map[intern.Name]ExprID),
		Labels:  NewLabelTable(),
	}
}

// AddExpr appends a node to the expr arena and returns its id.
func (b *Bodies) AddExpr(n Node) ExprID {
	b.Exprs = append(b.Exprs, n)
	return ExprID(len(b.Exprs) - 1)
}

// ReserveExpr appends a placeholder node and returns its id, so a
// labellable block/loop's ScopeID can be registered against its final
// ExprID before the block's statements (which may reference that
// scope via break/continue) have been lowered. Callers must follow up
// with PatchExpr once the real node is known.
func (b *Bodies) ReserveExpr() ExprID {
	b.Exprs = append(b.Exprs, Node{})
	return ExprID(len(b.Exprs) - 1)
}

// PatchExpr overwrites a previously reserved node with its final
// contents.
func (b *Bodies) PatchExpr(id ExprID, n Node) {
	b.Exprs[id] = n
}

// Expr returns the node for id.
func (b *Bodies) Expr(id ExprID) Node { return b.Exprs[id] }

// AddStmt appends a node to the stmt arena and returns its id.
func (b *Bodies) AddStmt(n StmtNode) StmtID {
	b.Stmts = append(b.Stmts, n)
	return StmtID(len(b.Stmts) - 1)
}

func (b *Bodies) Stmt(id StmtID) StmtNode { return b.Stmts[id] }

// AddLocal appends a binding to the local arena and returns its id.
func (b *Bodies) AddLocal(l LocalDef) LocalID {
	b.Locals = append(b.Locals, l)
	return LocalID(len(b.Locals) - 1)
}

func (b *Bodies) Local(id LocalID) LocalDef { return b.Locals[id] }

// AddAssign appends an assignment to the assign arena and returns its
// id.
func (b *Bodies) AddAssign(a Assign) AssignID {
	b.Assigns = append(b.Assigns, a)
	return AssignID(len(b.Assigns) - 1)
}

func (b *Bodies) Assign(id AssignID) Assign { return b.Assigns[id] }

// AddLambda appends a lambda body and returns its id.
func (b *Bodies) AddLambda(l Lambda) LambdaID {
	b.Lambdas = append(b.Lambdas, l)
	return LambdaID(len(b.Lambdas) - 1)
}

func (b *Bodies) Lambda(id LambdaID) Lambda { return b.Lambdas[id] }

// AddComptime appends a comptime body and returns its id.
func (b *Bodies) AddComptime(c Comptime) ComptimeID {
	b.Comptimes = append(b.Comptimes, c)
	return ComptimeID(len(b.Comptimes) - 1)
}

func (b *Bodies) Comptime(id ComptimeID) Comptime { return b.Comptimes[id] }

// AddImport records a discovered import if it is not already present
// and returns whether it was newly added (used by the lowerer to know
// whether to enqueue it in the driver's worklist).
func (b *Bodies) AddImport(f intern.FileName) bool {
	for _, existing := range b.Imports {
		if existing == f {
			return false
		}
	}
	b.Imports = append(b.Imports, f)
	return true
}

// RangeFor returns the source range of expression e (spec §8: "∀
// expression e, after lowering, bodies.range_for(e) is a substring
// range of the original source").
func (b *Bodies) RangeFor(e ExprID) syntax.Range {
	return b.Exprs[e].Range
}
