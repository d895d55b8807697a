// Package infer implements bidirectional type inference over the
// lowered core IR (spec §4.3): each expression is either synthesized
// (inferred bottom-up with no expected type) or checked against an
// expected type flowing down from its surrounding context, with weak
// literal types defaulting through the Max operator when no expected
// type constrains them.
package infer

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/types"
	"github.com/capy-lang/capy/internal/uid"
)

// CrossFileLookup resolves a `file.name` path's type, backed by the
// driver's cross-file global type cache (spec §4.3 Path resolution,
// §4.5).
type CrossFileLookup func(file intern.FileName, name intern.Name) (types.Ty, bool)

// Result is one file's complete inference output: every expression's
// type plus every local variable's declared/inferred type (spec §3
// "TyInference").
type Result struct {
	ExprTypes  map[core.ExprID]types.Ty
	LocalTypes map[core.LocalID]types.Ty
	Globals    map[intern.Name]types.Ty
}

// Checker holds the mutable state of one file's inference pass.
type Checker struct {
	File   intern.FileName
	Tbl    *types.Table
	Bodies *core.Bodies
	Names  *intern.Table
	Index  *index.Index
	UIDs   *uid.Generator
	Bag    *diag.Bag

	CrossFile CrossFileLookup

	exprTypes  map[core.ExprID]types.Ty
	localTypes map[core.LocalID]types.Ty
	globals    map[intern.Name]types.Ty
	resolving  map[intern.Name]bool

	namedTypeCache  map[intern.Name]types.Ty
	inlineTypeCache map[syntax.TypeExpr]types.Ty

	breakValues map[core.ScopeID][]types.Ty
	paramStack  [][]types.Ty
}

// NewChecker creates a Checker for one file.
func NewChecker(file intern.FileName, bodies *core.Bodies, tbl *types.Table, names *intern.Table, ix *index.Index, uids *uid.Generator, crossFile CrossFileLookup) *Checker {
	return &Checker{
		File:            file,
		Tbl:             tbl,
		Bodies:          bodies,
		Names:           names,
		Index:           ix,
		UIDs:            uids,
		Bag:             &diag.Bag{},
		CrossFile:       crossFile,
		exprTypes:       make(map[core.ExprID]types.Ty),
		localTypes:      make(map[core.LocalID]types.Ty),
		globals:         make(map[intern.Name]types.Ty),
		resolving:       make(map[intern.Name]bool),
		namedTypeCache:  make(map[intern.Name]types.Ty),
		inlineTypeCache: make(map[syntax.TypeExpr]types.Ty),
		breakValues:     make(map[core.ScopeID][]types.Ty),
	}
}

// CheckFile infers the type of every top-level global in declaration
// order, returning the complete per-expression/per-local result (spec
// §4.3, §6 "Lower -> Type").
func CheckFile(file intern.FileName, bodies *core.Bodies, tbl *types.Table, names *intern.Table, ix *index.Index, uids *uid.Generator, crossFile CrossFileLookup) (*Result, *diag.Bag) {
	c := NewChecker(file, bodies, tbl, names, ix, uids, crossFile)
	for _, name := range ix.Order {
		c.globalType(name)
	}
	return &Result{ExprTypes: c.exprTypes, LocalTypes: c.localTypes, Globals: c.globals}, c.Bag
}

// globalType returns the memoized type of a same-file global, lazily
// inferring it on first reference and guarding against a global that
// (directly or transitively) refers to itself.
func (c *Checker) globalType(name intern.Name) types.Ty {
	if ty, ok := c.globals[name]; ok {
		return ty
	}
	exprID, ok := c.Bodies.Globals[name]
	if !ok {
		return c.Tbl.Unknown()
	}
	if c.resolving[name] {
		c.errorf(diag.CannotUnify, c.Bodies.RangeFor(exprID), "type of '%s' depends on itself", c.Names.String(uint32(name)))
		return c.Tbl.Unknown()
	}
	c.resolving[name] = true
	ty := c.infer(exprID, nil)
	delete(c.resolving, name)
	c.globals[name] = ty
	return ty
}

// infer synthesizes (expected nil) or checks (expected non-nil) the
// type of expression e, recording the result for the final Result.
func (c *Checker) infer(e core.ExprID, expected types.Ty) types.Ty {
	node := c.Bodies.Expr(e)
	ty := c.inferData(e, node, expected)
	c.exprTypes[e] = ty
	if expected != nil && !isErrorTy(ty) && !types.CanFitInto(ty, expected) {
		c.errorf(diag.TypeMismatch, node.Range, "expected %s, found %s", expected.String(), ty.String())
	}
	return ty
}

func isErrorTy(t types.Ty) bool {
	switch t.(type) {
	case types.TUnknown, types.TNotYetResolved:
		return true
	}
	return t == nil
}

func (c *Checker) inferData(e core.ExprID, node core.Node, expected types.Ty) types.Ty {
	switch d := node.Data.(type) {
	case core.Lit:
		return c.inferLit(d, expected)
	case core.Local:
		if ty, ok := c.localTypes[d.ID]; ok {
			return ty
		}
		return c.Tbl.Unknown()
	case core.Param:
		if len(c.paramStack) == 0 {
			return c.Tbl.Unknown()
		}
		params := c.paramStack[len(c.paramStack)-1]
		if d.Idx < 0 || d.Idx >= len(params) {
			return c.Tbl.Unknown()
		}
		return params[d.Idx]
	case core.LocalGlobal:
		return c.globalType(d.Name)
	case core.PrimitiveTyRef:
		return c.Tbl.TypeVal()
	case core.Unresolved:
		return c.Tbl.Unknown()
	case core.Cast:
		return c.inferCast(d)
	case core.Ref:
		inner := c.Tbl.Unknown()
		if expected != nil {
			if p, ok := expected.(types.TPointer); ok {
				inner = c.infer(d.Expr, p.Sub)
				return c.Tbl.Pointer(d.Mutable, inner)
			}
		}
		inner = c.infer(d.Expr, nil)
		return c.Tbl.Pointer(d.Mutable, inner)
	case core.Deref:
		return c.inferDeref(d, node.Range)
	case core.Binary:
		return c.inferBinary(d, node.Range)
	case core.Unary:
		return c.inferUnary(d, node.Range)
	case core.Array:
		return c.inferArray(d, expected)
	case core.Index:
		return c.inferIndex(d, node.Range)
	case core.Block:
		return c.inferBlock(d, expected)
	case core.If:
		return c.inferIf(d, expected)
	case core.While:
		return c.inferWhile(d)
	case core.Call:
		return c.inferCall(d, node.Range)
	case core.Path:
		return c.inferPath(d, node.Range)
	case core.LambdaExpr:
		return c.inferLambda(d)
	case core.ComptimeRef:
		// A comptime's static type is the type its body would produce;
		// the comptime phase (internal/comptime) evaluates the value
		// itself once dependency ordering is known (spec §4.4).
		ct := c.Bodies.Comptime(d.Comptime)
		return c.infer(ct.Body, expected)
	case core.DistinctExpr, core.StructDecl:
		return c.Tbl.TypeVal()
	case core.StructLiteral:
		return c.inferStructLiteral(d, expected, node.Range)
	case core.Import:
		return types.TFile{Name: d.File}
	default:
		return c.Tbl.Unknown()
	}
}

func (c *Checker) inferLit(d core.Lit, expected types.Ty) types.Ty {
	switch d.Kind {
	case core.IntLit:
		if expected != nil {
			switch expected.(type) {
			case types.TUInt, types.TIInt, types.TFloat:
				return expected
			}
		}
		return c.Tbl.UInt(0)
	case core.FloatLit:
		if expected != nil {
			if _, ok := expected.(types.TFloat); ok {
				return expected
			}
		}
		return c.Tbl.Float(0)
	case core.BoolLit:
		return c.Tbl.Bool()
	case core.CharLit:
		return c.Tbl.Char()
	case core.StringLit:
		return c.Tbl.String()
	default:
		return c.Tbl.Unknown()
	}
}

func (c *Checker) inferCast(d core.Cast) types.Ty {
	src := c.infer(d.Expr, nil)
	target, ok := c.Resolve(d.Type)
	if !ok {
		target = c.Tbl.Unknown()
	}
	if !isErrorTy(src) && !isErrorTy(target) && !types.CanCast(src, target) {
		c.errorf(diag.InvalidCast, c.Bodies.RangeFor(d.Expr), "cannot cast %s to %s", src.String(), target.String())
	}
	return target
}

func (c *Checker) inferDeref(d core.Deref, rng syntax.Range) types.Ty {
	ptrTy := c.infer(d.Ptr, nil)
	p, ok := types.AsPointer(ptrTy)
	if !ok {
		if !isErrorTy(ptrTy) {
			c.errorf(diag.DerefNonPointer, rng, "cannot dereference non-pointer type %s", ptrTy.String())
		}
		return c.Tbl.Unknown()
	}
	return p.Sub
}

func (c *Checker) inferIndex(d core.Index, rng syntax.Range) types.Ty {
	arrTy := c.infer(d.Array, nil)
	c.infer(d.Index, c.Tbl.UInt(0))
	arr, ok := arrTy.(types.TArray)
	if !ok {
		if dist, isDist := arrTy.(types.TDistinct); isDist {
			if inner, innerOk := dist.Inner.(types.TArray); innerOk {
				arr, ok = inner, true
			}
		}
	}
	if !ok {
		if !isErrorTy(arrTy) {
			c.errorf(diag.IndexNonArray, rng, "cannot index non-array type %s", arrTy.String())
		}
		return c.Tbl.Unknown()
	}
	return arr.Sub
}

func (c *Checker) inferArray(d core.Array, expected types.Ty) types.Ty {
	var elemExpected types.Ty
	if d.Type != nil {
		if ty, ok := c.Resolve(d.Type); ok {
			elemExpected = ty
		}
	} else if arrExp, ok := expected.(types.TArray); ok {
		elemExpected = arrExp.Sub
	}

	var combined types.Ty = elemExpected
	for _, item := range d.Items {
		itemTy := c.infer(item, elemExpected)
		if combined == nil {
			combined = itemTy
			continue
		}
		if elemExpected == nil {
			if m, ok := types.Max(c.Tbl, combined, itemTy); ok {
				combined = m
			} else {
				c.errorf(diag.CannotUnify, c.Bodies.RangeFor(item), "cannot unify array element types %s and %s", combined.String(), itemTy.String())
			}
		}
	}
	if combined == nil {
		combined = c.Tbl.Unknown()
	}

	size := uint64(len(d.Items))
	if d.Size != nil {
		size = *d.Size
	}
	return c.Tbl.Array(size, combined)
}

func (c *Checker) inferCall(d core.Call, rng syntax.Range) types.Ty {
	calleeTy := c.infer(d.Callee, nil)
	fn, ok := types.AsFunction(calleeTy)
	if !ok {
		if !isErrorTy(calleeTy) {
			c.errorf(diag.NonCallable, rng, "cannot call non-function type %s", calleeTy.String())
		}
		for _, a := range d.Args {
			c.infer(a, nil)
		}
		return c.Tbl.Unknown()
	}
	if len(d.Args) != len(fn.Params) {
		c.errorf(diag.ArityMismatch, rng, "expected %d argument(s), found %d", len(fn.Params), len(d.Args))
	}
	for i, a := range d.Args {
		if i < len(fn.Params) {
			c.infer(a, fn.Params[i])
		} else {
			c.infer(a, nil)
		}
	}
	return fn.Return
}

func (c *Checker) inferPath(d core.Path, rng syntax.Range) types.Ty {
	prevTy := c.infer(d.Prev, nil)
	if file, ok := prevTy.(types.TFile); ok {
		if c.CrossFile == nil {
			c.errorf(diag.MissingField, rng, "no cross-file resolver configured")
			return c.Tbl.Unknown()
		}
		ty, ok := c.CrossFile(file.Name, d.Field)
		if !ok {
			c.errorf(diag.MissingField, rng, "'%s' has no such definition", c.Names.String(uint32(d.Field)))
			return c.Tbl.Unknown()
		}
		return ty
	}
	if st, ok := types.AsStruct(prevTy); ok {
		f, ok := st.FieldByName(d.Field)
		if !ok {
			if !isErrorTy(prevTy) {
				c.errorf(diag.MissingField, rng, "struct has no field '%s'", c.Names.String(uint32(d.Field)))
			}
			return c.Tbl.Unknown()
		}
		return f.Type
	}
	if !isErrorTy(prevTy) {
		c.errorf(diag.MissingField, rng, "type %s has no fields", prevTy.String())
	}
	return c.Tbl.Unknown()
}

func (c *Checker) inferLambda(d core.LambdaExpr) types.Ty {
	lam := c.Bodies.Lambda(d.Lambda)
	paramTys := make([]types.Ty, len(lam.Params))
	for i, p := range lam.Params {
		ty, ok := c.Resolve(p.Type)
		if !ok {
			ty = c.Tbl.Unknown()
		}
		paramTys[i] = ty
	}
	retTy := c.Tbl.Void()
	if lam.RetType != nil {
		if ty, ok := c.Resolve(lam.RetType); ok {
			retTy = ty
		} else {
			retTy = c.Tbl.Unknown()
		}
	}

	if !lam.IsExtern {
		c.paramStack = append(c.paramStack, paramTys)
		c.infer(lam.Body, retTy)
		c.paramStack = c.paramStack[:len(c.paramStack)-1]
	}
	return c.Tbl.Function(paramTys, retTy)
}

func (c *Checker) inferStructLiteral(d core.StructLiteral, expected types.Ty, rng syntax.Range) types.Ty {
	var target types.Ty
	if d.Type != nil {
		if ty, ok := c.Resolve(d.Type); ok {
			target = ty
		}
	} else {
		target = expected
	}

	st, ok := types.AsStruct(target)
	if !ok {
		for _, fid := range d.Order {
			c.infer(d.Fields[fid], nil)
		}
		if target != nil && !isErrorTy(target) {
			c.errorf(diag.TypeMismatch, rng, "%s is not a struct type", target.String())
		}
		return c.Tbl.Unknown()
	}

	for _, fname := range d.Order {
		valueExpr := d.Fields[fname]
		field, ok := st.FieldByName(fname)
		if !ok {
			c.errorf(diag.MissingField, c.Bodies.RangeFor(valueExpr), "struct has no field '%s'", c.Names.String(uint32(fname)))
			c.infer(valueExpr, nil)
			continue
		}
		c.infer(valueExpr, field.Type)
	}
	for _, field := range st.Fields {
		if _, provided := d.Fields[field.Name]; !provided {
			c.errorf(diag.MissingField, rng, "missing field '%s'", c.Names.String(uint32(field.Name)))
		}
	}
	return st
}

func (c *Checker) errorf(kind diag.Kind, rng syntax.Range, format string, args ...any) {
	c.Bag.Errorf(kind, diag.PhaseType, rng, format, args...)
}
