package infer

import (
	"testing"

	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/types"
	"github.com/capy-lang/capy/internal/uid"
)

func newChecker() (*Checker, *core.Bodies) {
	names := intern.NewTable()
	files := intern.NewTable()
	bodies := core.NewBodies()
	ix := index.New(intern.FileName(files.Intern("main.capy")))
	tbl := types.NewTable()
	c := NewChecker(ix.File, bodies, tbl, names, ix, &uid.Generator{}, nil)
	return c, bodies
}

func intLit(b *core.Bodies, text uint64) core.ExprID {
	return b.AddExpr(core.Node{Data: core.Lit{Kind: core.IntLit, IntValue: text}})
}

func TestInferWeakIntLiteralDefaultsToExpected(t *testing.T) {
	c, b := newChecker()
	lit := intLit(b, 5)
	ty := c.infer(lit, c.Tbl.IInt(32))
	if w, ok := ty.(types.TIInt); !ok || w.Width != 32 {
		t.Fatalf("expected i32, got %#v", ty)
	}
	if c.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", c.Bag.All())
	}
}

func TestInferWeakIntLiteralStaysWeakWithoutContext(t *testing.T) {
	c, b := newChecker()
	lit := intLit(b, 5)
	ty := c.infer(lit, nil)
	w, ok := ty.(types.TUInt)
	if !ok || w.Width != 0 {
		t.Fatalf("expected a weak UInt(0), got %#v", ty)
	}
}

func TestInferBinaryCannotUnifyIncompatibleTypes(t *testing.T) {
	c, b := newChecker()
	lhs := b.AddExpr(core.Node{Data: core.Lit{Kind: core.BoolLit, BoolValue: true}})
	rhs := b.AddExpr(core.Node{Data: core.Lit{Kind: core.StringLit, StrValue: "x"}})
	bin := b.AddExpr(core.Node{Data: core.Binary{Lhs: lhs, Rhs: rhs, Op: syntax.OpAdd}})

	c.infer(bin, nil)
	if c.Bag.Len() != 1 || c.Bag.All()[0].Kind != diag.CannotUnify {
		t.Fatalf("expected a CannotUnify diagnostic, got %v", c.Bag.All())
	}
}

func TestInferCastInvalid(t *testing.T) {
	c, b := newChecker()
	str := b.AddExpr(core.Node{Data: core.Lit{Kind: core.StringLit, StrValue: "x"}})
	cast := b.AddExpr(core.Node{Data: core.Cast{Expr: str, Type: syntax.NewNamedTypeExpr("bool", syntax.Range{})}})

	c.infer(cast, nil)
	if c.Bag.Len() != 1 || c.Bag.All()[0].Kind != diag.InvalidCast {
		t.Fatalf("expected an InvalidCast diagnostic, got %v", c.Bag.All())
	}
}

func TestInferCastValidNumericWidening(t *testing.T) {
	c, b := newChecker()
	lit := intLit(b, 1)
	cast := b.AddExpr(core.Node{Data: core.Cast{Expr: lit, Type: syntax.NewNamedTypeExpr("i64", syntax.Range{})}})

	ty := c.infer(cast, nil)
	if w, ok := ty.(types.TIInt); !ok || w.Width != 64 {
		t.Fatalf("expected i64, got %#v", ty)
	}
	if c.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", c.Bag.All())
	}
}

func TestInferBreakTypeMismatchInBlock(t *testing.T) {
	c, b := newChecker()

	intVal := intLit(b, 1)
	boolVal := b.AddExpr(core.Node{Data: core.Lit{Kind: core.BoolLit, BoolValue: true}})

	scope := core.ScopeID(1)
	breakInt := b.AddStmt(core.StmtNode{Data: core.BreakStmt{Label: scope, Value: &intVal}})
	breakBool := b.AddStmt(core.StmtNode{Data: core.BreakStmt{Label: scope, Value: &boolVal}})

	blockID := b.ReserveExpr()
	b.Labels.Declare(scope, blockID, "")
	b.PatchExpr(blockID, core.Node{Data: core.Block{
		Scope: scope,
		Stmts: []core.StmtID{breakInt, breakBool},
	}})

	c.infer(blockID, nil)
	found := false
	for _, d := range c.Bag.All() {
		if d.Kind == diag.BreakTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a BreakTypeMismatch diagnostic, got %v", c.Bag.All())
	}
}

func TestInferStructLiteralMissingAndUnknownFields(t *testing.T) {
	c, b := newChecker()
	names := c.Names

	xName := intern.Name(names.Intern("x"))
	yName := intern.Name(names.Intern("y"))
	zName := intern.Name(names.Intern("z"))

	structTy := c.Tbl.Struct(c.UIDs.Struct(), nil, []types.Field{
		{Name: xName, Type: c.Tbl.IInt(32)},
		{Name: yName, Type: c.Tbl.IInt(32)},
	})

	valX := intLit(b, 1)
	valZ := intLit(b, 2)
	lit := b.AddExpr(core.Node{Data: core.StructLiteral{
		Fields: map[intern.Name]core.ExprID{xName: valX, zName: valZ},
		Order:  []intern.Name{xName, zName},
	}})

	c.infer(lit, structTy)

	var missing, unknown bool
	for _, d := range c.Bag.All() {
		if d.Kind != diag.MissingField {
			continue
		}
		if d.Message == "missing field 'y'" {
			missing = true
		}
		if d.Message == "struct has no field 'z'" {
			unknown = true
		}
	}
	if !missing || !unknown {
		t.Fatalf("expected both a missing-field and unknown-field diagnostic, got %v", c.Bag.All())
	}
}

func TestInferAssignToImmutableLocalIsFlagged(t *testing.T) {
	c, b := newChecker()

	localID := b.AddLocal(core.LocalDef{Value: intLit(b, 1), Mutable: false})
	place := b.AddExpr(core.Node{Data: core.Local{ID: localID}})
	value := intLit(b, 2)
	assignID := b.AddAssign(core.Assign{Place: place, Value: value})
	stmt := b.AddStmt(core.StmtNode{Data: core.AssignStmt{Assign: assignID}})

	c.localTypes[localID] = c.Tbl.IInt(0)
	c.inferStmt(stmt)

	if c.Bag.Len() != 1 || c.Bag.All()[0].Kind != diag.ImmutabilityViolation {
		t.Fatalf("expected an ImmutabilityViolation diagnostic, got %v", c.Bag.All())
	}
}

func TestInferIndexNonArray(t *testing.T) {
	c, b := newChecker()
	arr := b.AddExpr(core.Node{Data: core.Lit{Kind: core.BoolLit, BoolValue: true}})
	idx := intLit(b, 0)
	index := b.AddExpr(core.Node{Data: core.Index{Array: arr, Index: idx}})

	c.infer(index, nil)
	if c.Bag.Len() != 1 || c.Bag.All()[0].Kind != diag.IndexNonArray {
		t.Fatalf("expected an IndexNonArray diagnostic, got %v", c.Bag.All())
	}
}

func TestInferCrossFilePathUsesCallback(t *testing.T) {
	c, b := newChecker()
	otherFile := intern.FileName(c.Names.Intern("other.capy"))
	fieldName := intern.Name(c.Names.Intern("global"))

	c.CrossFile = func(file intern.FileName, name intern.Name) (types.Ty, bool) {
		if file == otherFile && name == fieldName {
			return c.Tbl.IInt(32), true
		}
		return nil, false
	}

	imp := b.AddExpr(core.Node{Data: core.Import{File: otherFile}})
	path := b.AddExpr(core.Node{Data: core.Path{Prev: imp, Field: fieldName}})

	ty := c.infer(path, nil)
	if w, ok := ty.(types.TIInt); !ok || w.Width != 32 {
		t.Fatalf("expected i32 via cross-file lookup, got %#v", ty)
	}
	if c.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", c.Bag.All())
	}
}

func TestInferArrayElementTypeFromAnnotation(t *testing.T) {
	c, b := newChecker()
	items := []core.ExprID{intLit(b, 1), intLit(b, 2)}
	arr := b.AddExpr(core.Node{Data: core.Array{
		Type:  syntax.NewNamedTypeExpr("u8", syntax.Range{}),
		Items: items,
	}})

	ty := c.infer(arr, nil)
	arrTy, ok := ty.(types.TArray)
	if !ok {
		t.Fatalf("expected TArray, got %#v", ty)
	}
	if arrTy.Size != 2 {
		t.Fatalf("expected size 2, got %d", arrTy.Size)
	}
	if elem, ok := arrTy.Sub.(types.TUInt); !ok || elem.Width != 8 {
		t.Fatalf("expected u8 elements, got %#v", arrTy.Sub)
	}
}
