package lower

import (
	"testing"

	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/resolve"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/uid"
	"github.com/capy-lang/capy/internal/worldindex"
)

func rng() syntax.Range { return syntax.Range{} }

func newLowerer() *Lowerer {
	names := intern.NewTable()
	files := intern.NewTable()
	return New(names, files, &uid.Generator{}, index.New(intern.FileName(0)), worldindex.New(), nil, "main.capy")
}

func TestLowerIntLiteral(t *testing.T) {
	l := newLowerer()
	id := l.lowerExpr(&syntax.IntLit{Text: "1_000e2"})
	lit := l.Bodies.Expr(id).Data.(core.Lit)
	if lit.Kind != core.IntLit || lit.IntValue != 100000 {
		t.Fatalf("expected 100000, got %+v", lit)
	}
	if l.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", l.Bag.All())
	}
}

func TestLowerOutOfRangeIntLiteral(t *testing.T) {
	l := newLowerer()
	l.lowerExpr(&syntax.IntLit{Text: "99999999999999999999999"})
	if l.Bag.Len() != 1 || l.Bag.All()[0].Kind != diag.OutOfRangeIntLiteral {
		t.Fatalf("expected an OutOfRangeIntLiteral diagnostic, got %v", l.Bag.All())
	}
}

func TestLowerUndefinedIdentEmitsDiagnostic(t *testing.T) {
	l := newLowerer()
	l.fs = newFuncScope()
	l.lowerExpr(&syntax.Ident{Name: "nope"})
	if l.Bag.Len() != 1 || l.Bag.All()[0].Kind != diag.UndefinedRef {
		t.Fatalf("expected an UndefinedRef diagnostic, got %v", l.Bag.All())
	}
}

func TestLowerIdentResolvesPrimitiveType(t *testing.T) {
	l := newLowerer()
	l.fs = newFuncScope()
	id := l.lowerExpr(&syntax.Ident{Name: "i32"})
	if _, ok := l.Bodies.Expr(id).Data.(core.PrimitiveTyRef); !ok {
		t.Fatalf("expected i32 to resolve as a primitive type reference")
	}
}

func TestLowerBlockMaterializesScopeOnlyWhenBrokenOut(t *testing.T) {
	l := newLowerer()
	l.fs = newFuncScope()

	anonymous := &syntax.Block{Stmts: []syntax.Stmt{
		&syntax.ExprStmt{Expr: &syntax.BoolLit{Value: true}},
	}}
	id := l.lowerBlockExpr(anonymous)
	if l.Bodies.Expr(id).Data.(core.Block).Scope != core.NoScope {
		t.Fatalf("expected an unreferenced block to keep NoScope")
	}

	labelled := &syntax.Block{
		Label: "outer",
		Stmts: []syntax.Stmt{
			&syntax.BreakStmt{Label: "outer"},
		},
	}
	id2 := l.lowerBlockExpr(labelled)
	scope := l.Bodies.Expr(id2).Data.(core.Block).Scope
	if scope == core.NoScope {
		t.Fatalf("expected a targeted block to materialize a scope")
	}
	if !l.Bodies.Labels.Declared(scope) {
		t.Fatalf("expected the materialized scope to be declared in the label table")
	}
}

func TestLowerWhileContinueTargetsLoopNotBlock(t *testing.T) {
	l := newLowerer()
	l.fs = newFuncScope()

	loop := &syntax.While{
		Cond: &syntax.BoolLit{Value: true},
		Body: &syntax.Block{Stmts: []syntax.Stmt{
			&syntax.ContinueStmt{},
		}},
	}
	id := l.lowerWhile(loop)
	w := l.Bodies.Expr(id).Data.(core.While)
	if w.Scope == core.NoScope {
		t.Fatalf("expected continue to force the while's scope to materialize")
	}
	body := l.Bodies.Expr(w.Body).Data.(core.Block)
	if body.Scope != core.NoScope {
		t.Fatalf("expected the while's own body block to stay unscoped; continue targets the loop frame")
	}
}

func TestLowerBareReturnTargetsOutermostBlock(t *testing.T) {
	l := newLowerer()
	lam := &syntax.Lambda{
		Params: []syntax.Param{{Name: "x", Type: syntax.NewNamedTypeExpr("i32", rng())}},
		Body: &syntax.Block{Stmts: []syntax.Stmt{
			&syntax.ExprStmt{Expr: &syntax.Block{
				Label: "inner",
				Stmts: []syntax.Stmt{
					&syntax.BreakStmt{IsRet: true, Value: &syntax.Ident{Name: "x"}},
				},
			}},
		}},
	}
	id := l.lowerLambdaValue(lam)
	lambdaID := l.Bodies.Expr(id).Data.(core.LambdaExpr).Lambda
	body := l.Bodies.Expr(l.Bodies.Lambda(lambdaID).Body).Data.(core.Block)
	if body.Scope == core.NoScope {
		t.Fatalf("expected the function's outer block to materialize a scope for the bare return")
	}
}

func TestLowerExternOutsideTopLevelIsFlagged(t *testing.T) {
	l := newLowerer()
	outer := &syntax.Lambda{
		Params: nil,
		Body: &syntax.Block{Tail: &syntax.Lambda{IsExtern: true}},
	}
	l.lowerLambdaValue(outer)
	if l.Bag.Len() != 1 || l.Bag.All()[0].Kind != diag.NonGlobalExtern {
		t.Fatalf("expected a NonGlobalExtern diagnostic, got %v", l.Bag.All())
	}
}

func TestLowerArrayLitSizeMismatchStillProducesAllItems(t *testing.T) {
	l := newLowerer()
	l.fs = newFuncScope()
	lit := &syntax.ArrayLit{
		SizeExpr: &syntax.IntLit{Text: "3"},
		Items:    []syntax.Expr{&syntax.BoolLit{Value: true}, &syntax.BoolLit{Value: false}},
	}
	id := l.lowerArrayLit(lit)
	arr := l.Bodies.Expr(id).Data.(core.Array)
	if len(arr.Items) != 2 {
		t.Fatalf("expected both items to still be lowered, got %d", len(arr.Items))
	}
	if l.Bag.Len() != 1 || l.Bag.All()[0].Kind != diag.ArraySizeMismatch {
		t.Fatalf("expected an ArraySizeMismatch diagnostic, got %v", l.Bag.All())
	}
}

func TestLowerArrayLitNonConstSize(t *testing.T) {
	l := newLowerer()
	l.fs = newFuncScope()
	lit := &syntax.ArrayLit{
		SizeExpr: &syntax.Ident{Name: "n"},
		Items:    []syntax.Expr{&syntax.BoolLit{Value: true}},
	}
	l.lowerArrayLit(lit)
	if l.Bag.Len() != 1 || l.Bag.All()[0].Kind != diag.ArraySizeNotConst {
		t.Fatalf("expected an ArraySizeNotConst diagnostic, got %v", l.Bag.All())
	}
}

func TestLowerImportModResolvesThroughResolver(t *testing.T) {
	exists := map[string]bool{
		"/root/mods/fmt":          true,
		"/root/mods/fmt/mod.capy": true,
	}
	resolver := resolve.New("/root/mods", "/root/proj", func(p string) bool { return exists[p] })

	names := intern.NewTable()
	files := intern.NewTable()
	l := New(names, files, &uid.Generator{}, index.New(intern.FileName(0)), worldindex.New(), resolver, "/root/proj/main.capy")
	l.fs = newFuncScope()

	id := l.lowerExpr(&syntax.ImportExpr{Path: "fmt", IsMod: true})
	imp := l.Bodies.Expr(id).Data.(core.Import)
	if len(l.Bodies.Imports) != 1 || l.Bodies.Imports[0] != imp.File {
		t.Fatalf("expected the import to be recorded, got %v", l.Bodies.Imports)
	}
	if l.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", l.Bag.All())
	}
}

func TestLowerImportModNotAlphanumeric(t *testing.T) {
	names := intern.NewTable()
	files := intern.NewTable()
	resolver := resolve.New("/root/mods", "/root/proj", func(string) bool { return true })
	l := New(names, files, &uid.Generator{}, index.New(intern.FileName(0)), worldindex.New(), resolver, "/root/proj/main.capy")
	l.fs = newFuncScope()

	l.lowerExpr(&syntax.ImportExpr{Path: "not-ok", IsMod: true})
	if l.Bag.Len() != 1 || l.Bag.All()[0].Kind != diag.ModMustBeAlphanumeric {
		t.Fatalf("expected a ModMustBeAlphanumeric diagnostic, got %v", l.Bag.All())
	}
}

func TestLowerStructLiteralPreservesFieldOrder(t *testing.T) {
	l := newLowerer()
	l.fs = newFuncScope()
	lit := &syntax.StructLiteral{
		FieldOrder: []string{"b", "a"},
		Fields: map[string]syntax.Expr{
			"a": &syntax.IntLit{Text: "1"},
			"b": &syntax.IntLit{Text: "2"},
		},
	}
	id := l.lowerStructLiteral(lit)
	sl := l.Bodies.Expr(id).Data.(core.StructLiteral)
	if len(sl.Order) != 2 {
		t.Fatalf("expected 2 ordered fields, got %d", len(sl.Order))
	}
	bName := l.Names.String(uint32(sl.Order[0]))
	if bName != "b" {
		t.Fatalf("expected first field in declared order to be 'b', got %s", bName)
	}
}

func TestLowerStringLiteralValidUTF8(t *testing.T) {
	l := newLowerer()
	l.lowerExpr(&syntax.StringLit{Raw: "café"})
	if l.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics for well-formed UTF-8, got %v", l.Bag.All())
	}
}

func TestLowerStringLiteralInvalidUTF8(t *testing.T) {
	l := newLowerer()
	id := l.lowerExpr(&syntax.StringLit{Raw: "bad \xff\xfe byte"})
	lit := l.Bodies.Expr(id).Data.(core.Lit)
	if lit.Kind != core.StringLit {
		t.Fatalf("expected a StringLit, got %+v", lit)
	}
	if l.Bag.Len() != 1 || l.Bag.All()[0].Kind != diag.InvalidUTF8String {
		t.Fatalf("expected an InvalidUTF8String diagnostic, got %v", l.Bag.All())
	}
}
