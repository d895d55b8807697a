package core

import (
	"testing"

	"github.com/capy-lang/capy/internal/syntax"
)

func TestBodiesArenaRoundTrip(t *testing.T) {
	b := NewBodies()

	lit := b.AddExpr(Node{Range: syntax.Range{}, Data: Lit{Kind: IntLit, IntValue: 5}})
	if got := b.Expr(lit).Data.(Lit).IntValue; got != 5 {
		t.Fatalf("expected round-tripped literal value 5, got %d", got)
	}

	local := b.AddLocal(LocalDef{Value: lit})
	if b.Local(local).Value != lit {
		t.Fatalf("local def did not round trip")
	}

	stmt := b.AddStmt(StmtNode{Data: LocalDefStmt{Local: local}})
	if b.Stmt(stmt).Data.(LocalDefStmt).Local != local {
		t.Fatalf("stmt did not round trip")
	}
}

func TestLabelTableOnlyMaterializesReferencedScopes(t *testing.T) {
	lt := NewLabelTable()
	if lt.Declared(ScopeID(1)) {
		t.Fatalf("expected scope 1 to be undeclared initially")
	}
	lt.Declare(ScopeID(1), ExprID(0), "outer")
	if !lt.Declared(ScopeID(1)) {
		t.Fatalf("expected scope 1 to be declared after Declare")
	}
	if got, _ := lt.ExprFor(ScopeID(1)); got != ExprID(0) {
		t.Fatalf("expected scope 1 to map to expr 0")
	}
	lt.AddTarget(ScopeID(1), StmtID(3))
	targets := lt.TargetsOf(ScopeID(1))
	if len(targets) != 1 || targets[0] != StmtID(3) {
		t.Fatalf("unexpected targets: %v", targets)
	}
}

func TestAddImportDeduplicates(t *testing.T) {
	b := NewBodies()
	if !b.AddImport(1) {
		t.Fatalf("expected first AddImport to report new")
	}
	if b.AddImport(1) {
		t.Fatalf("expected duplicate AddImport to report not-new")
	}
	if len(b.Imports) != 1 {
		t.Fatalf("expected imports to be deduplicated, got %v", b.Imports)
	}
}
