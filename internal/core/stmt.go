package core

import (
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// StmtData is the payload of one arena-allocated statement node (spec
// §3: "Statements: Expr, LocalDef, Assign, Break{label?, value?},
// Continue{label?}").
type StmtData interface {
	stmtData()
}

type StmtNode struct {
	Range syntax.Range
	Data  StmtData
}

type ExprStmt struct{ Expr ExprID }

func (ExprStmt) stmtData() {}

// LocalDefStmt references the LocalDef this statement introduces.
type LocalDefStmt struct{ Local LocalID }

func (LocalDefStmt) stmtData() {}

// AssignStmt references the Assign arena entry this statement
// performs.
type AssignStmt struct{ Assign AssignID }

func (AssignStmt) stmtData() {}

// BreakStmt targets Label (NoScope only if a diagnostic was already
// emitted, per spec §3 invariant). `return` lowers to a BreakStmt
// targeting the function's outermost block (spec §3, §9).
type BreakStmt struct {
	Label ScopeID
	Value *ExprID
}

func (BreakStmt) stmtData() {}

type ContinueStmt struct {
	Label ScopeID
}

func (ContinueStmt) stmtData() {}

// LocalDef is one arena-allocated `name := value` / `name : T = value`
// binding.
type LocalDef struct {
	Name    intern.Name
	Type    syntax.TypeExpr // nil if omitted
	Value   ExprID
	Mutable bool
	Range   syntax.Range
}

// Assign is one arena-allocated assignment to an existing place.
type Assign struct {
	Place ExprID // Local, Deref, Path, or Index
	Value ExprID
	Range syntax.Range
}
