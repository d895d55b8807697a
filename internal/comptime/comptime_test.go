package comptime

import (
	"testing"

	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/testutil"
)

func newInterp() (*Interpreter, *core.Bodies, intern.FileName) {
	names := intern.NewTable()
	files := intern.NewTable()
	file := intern.FileName(files.Intern("main.capy"))
	bodies := core.NewBodies()
	results := NewTable()
	it := NewInterpreter(file, bodies, names, results, nil)
	return it, bodies, file
}

func intLit(b *core.Bodies, v uint64) core.ExprID {
	return b.AddExpr(core.Node{Data: core.Lit{Kind: core.IntLit, IntValue: v}})
}

func TestEvalComptimeSimpleArithmetic(t *testing.T) {
	it, b, _ := newInterp()
	lhs := intLit(b, 2)
	rhs := intLit(b, 3)
	bin := b.AddExpr(core.Node{Data: core.Binary{Lhs: lhs, Rhs: rhs, Op: syntax.OpAdd}})
	block := b.AddExpr(core.Node{Data: core.Block{Tail: &bin}})
	ctID := b.AddComptime(core.Comptime{Body: block})

	v := it.EvalComptime(ctID)
	n, ok := v.(Int)
	if !ok || n.Value != 5 {
		t.Fatalf("expected Int(5), got %#v", v)
	}
	if it.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", it.Bag.All())
	}

	result, ok := it.Results.Get(it.File, ctID)
	if !ok {
		t.Fatalf("expected a memoized result")
	}
	if ir, ok := result.(Integer); !ok || ir.Value != 5 {
		t.Fatalf("expected Integer result 5, got %#v", result)
	}
}

func TestEvalComptimeDependsOnGlobal(t *testing.T) {
	it, b, _ := newInterp()
	names := it.Names

	globalName := intern.Name(names.Intern("base"))
	baseVal := intLit(b, 10)
	b.Globals[globalName] = baseVal

	ref := b.AddExpr(core.Node{Data: core.LocalGlobal{Name: globalName}})
	one := intLit(b, 1)
	bin := b.AddExpr(core.Node{Data: core.Binary{Lhs: ref, Rhs: one, Op: syntax.OpAdd}})
	block := b.AddExpr(core.Node{Data: core.Block{Tail: &bin}})
	ctID := b.AddComptime(core.Comptime{Body: block})

	v := it.EvalComptime(ctID)
	n, ok := v.(Int)
	if !ok || n.Value != 11 {
		t.Fatalf("expected Int(11), got %#v", v)
	}
}

func TestEvalComptimeCycleDiagnostic(t *testing.T) {
	it, b, _ := newInterp()
	// comptime { comptime_ref(self) } — a comptime that refers to
	// itself directly.
	ref := b.AddExpr(core.Node{})
	ctID := b.AddComptime(core.Comptime{Body: ref})
	b.PatchExpr(ref, core.Node{Data: core.ComptimeRef{Comptime: ctID}})

	it.EvalComptime(ctID)
	if it.Bag.Len() != 1 || it.Bag.All()[0].Kind != diag.ComptimeCycle {
		t.Fatalf("expected a ComptimeCycle diagnostic, got %v", it.Bag.All())
	}
}

func TestEvalComptimeExternCallDiagnostic(t *testing.T) {
	it, b, _ := newInterp()
	lam := b.AddLambda(core.Lambda{IsExtern: true})
	lamExpr := b.AddExpr(core.Node{Data: core.LambdaExpr{Lambda: lam}})
	call := b.AddExpr(core.Node{Data: core.Call{Callee: lamExpr}})
	block := b.AddExpr(core.Node{Data: core.Block{Tail: &call}})
	ctID := b.AddComptime(core.Comptime{Body: block})

	it.EvalComptime(ctID)
	if it.Bag.Len() != 1 || it.Bag.All()[0].Kind != diag.ComptimeExternCall {
		t.Fatalf("expected a ComptimeExternCall diagnostic, got %v", it.Bag.All())
	}
}

func TestEvalComptimeWhileLoopRunsToCompletion(t *testing.T) {
	it, b, _ := newInterp()

	counterLocal := b.AddLocal(core.LocalDef{Value: intLit(b, 0), Mutable: true})
	counterDef := b.AddStmt(core.StmtNode{Data: core.LocalDefStmt{Local: counterLocal}})

	loopScope := core.ScopeID(1)
	counterRef := b.AddExpr(core.Node{Data: core.Local{ID: counterLocal}})
	ten := intLit(b, 3)
	cond := b.AddExpr(core.Node{Data: core.Binary{Lhs: counterRef, Rhs: ten, Op: syntax.OpLt}})

	counterRefForBody := b.AddExpr(core.Node{Data: core.Local{ID: counterLocal}})
	one := intLit(b, 1)
	incremented := b.AddExpr(core.Node{Data: core.Binary{Lhs: counterRefForBody, Rhs: one, Op: syntax.OpAdd}})
	placeExpr := b.AddExpr(core.Node{Data: core.Local{ID: counterLocal}})
	assignID := b.AddAssign(core.Assign{Place: placeExpr, Value: incremented})
	assignStmt := b.AddStmt(core.StmtNode{Data: core.AssignStmt{Assign: assignID}})

	body := b.AddExpr(core.Node{Data: core.Block{Stmts: []core.StmtID{assignStmt}}})
	whileID := b.AddExpr(core.Node{Data: core.While{Scope: loopScope, Cond: &cond, Body: body}})
	b.Labels.Declare(loopScope, whileID, "")

	whileStmt := b.AddStmt(core.StmtNode{Data: core.ExprStmt{Expr: whileID}})
	tailRef := b.AddExpr(core.Node{Data: core.Local{ID: counterLocal}})
	outer := b.AddExpr(core.Node{Data: core.Block{Stmts: []core.StmtID{counterDef, whileStmt}, Tail: &tailRef}})
	ctID := b.AddComptime(core.Comptime{Body: outer})

	v := it.EvalComptime(ctID)
	n, ok := v.(Int)
	if !ok || n.Value != 3 {
		t.Fatalf("expected Int(3) after the loop runs to completion, got %#v", v)
	}
	if it.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", it.Bag.All())
	}
}

func TestEvalComptimeStructLiteralFieldAccess(t *testing.T) {
	it, b, _ := newInterp()
	names := it.Names
	fieldName := intern.Name(names.Intern("x"))

	val := intLit(b, 42)
	lit := b.AddExpr(core.Node{Data: core.StructLiteral{
		Fields: map[intern.Name]core.ExprID{fieldName: val},
		Order:  []intern.Name{fieldName},
	}})
	path := b.AddExpr(core.Node{Data: core.Path{Prev: lit, Field: fieldName}})
	block := b.AddExpr(core.Node{Data: core.Block{Tail: &path}})
	ctID := b.AddComptime(core.Comptime{Body: block})

	v := it.EvalComptime(ctID)
	n, ok := v.(Int)
	if !ok || n.Value != 42 {
		t.Fatalf("expected Int(42), got %#v", v)
	}
}

// TestToResultStructLiteralGolden pins the backend-facing serialized
// form of a struct-valued comptime result: field order matters, and a
// silent reordering or width change here would corrupt every constant
// the backend materializes from it.
func TestToResultStructLiteralGolden(t *testing.T) {
	it, b, _ := newInterp()
	names := it.Names
	xName := intern.Name(names.Intern("x"))
	yName := intern.Name(names.Intern("y"))

	x := intLit(b, 7)
	y := intLit(b, 9)
	lit := b.AddExpr(core.Node{Data: core.StructLiteral{
		Fields: map[intern.Name]core.ExprID{xName: x, yName: y},
		Order:  []intern.Name{xName, yName},
	}})
	block := b.AddExpr(core.Node{Data: core.Block{Tail: &lit}})
	ctID := b.AddComptime(core.Comptime{Body: block})

	v := it.EvalComptime(ctID)
	data, ok := ToResult(v).(Data)
	if !ok {
		t.Fatalf("expected a Data result for a struct value, got %#v", ToResult(v))
	}
	testutil.CompareWithGolden(t, "comptime", "struct_literal_bytes", data.Bytes)
}

func TestBuildDependencyGraphOrdersComptimesByReference(t *testing.T) {
	b := core.NewBodies()

	inner := intLit(b, 1)
	innerBlock := b.AddExpr(core.Node{Data: core.Block{Tail: &inner}})
	innerID := b.AddComptime(core.Comptime{Body: innerBlock})

	innerRef := b.AddExpr(core.Node{Data: core.ComptimeRef{Comptime: innerID}})
	outerBlock := b.AddExpr(core.Node{Data: core.Block{Tail: &innerRef}})
	outerID := b.AddComptime(core.Comptime{Body: outerBlock})

	g := BuildDependencyGraph(b)
	sccs := g.SCCs()

	order := map[core.ComptimeID]int{}
	for i, scc := range sccs {
		for _, id := range scc {
			order[id] = i
		}
	}
	if order[innerID] >= order[outerID] {
		t.Fatalf("expected inner comptime to be ordered before the outer one, got order %v", order)
	}
}
