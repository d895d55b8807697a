package infer

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/types"
)

var primitiveTypes = map[string]func(*types.Table) types.Ty{
	"bool":   func(t *types.Table) types.Ty { return t.Bool() },
	"char":   func(t *types.Table) types.Ty { return t.Char() },
	"string": func(t *types.Table) types.Ty { return t.String() },
	"void":   func(t *types.Table) types.Ty { return t.Void() },
	"type":   func(t *types.Table) types.Ty { return t.TypeVal() },
	"any":    func(t *types.Table) types.Ty { return t.Any() },
	"i8":     func(t *types.Table) types.Ty { return t.IInt(8) },
	"i16":    func(t *types.Table) types.Ty { return t.IInt(16) },
	"i32":    func(t *types.Table) types.Ty { return t.IInt(32) },
	"i64":    func(t *types.Table) types.Ty { return t.IInt(64) },
	"isize":  func(t *types.Table) types.Ty { return t.IInt(types.PointerWidth) },
	"u8":     func(t *types.Table) types.Ty { return t.UInt(8) },
	"u16":    func(t *types.Table) types.Ty { return t.UInt(16) },
	"u32":    func(t *types.Table) types.Ty { return t.UInt(32) },
	"u64":    func(t *types.Table) types.Ty { return t.UInt(64) },
	"usize":  func(t *types.Table) types.Ty { return t.UInt(types.PointerWidth) },
	"f32":    func(t *types.Table) types.Ty { return t.Float(32) },
	"f64":    func(t *types.Table) types.Ty { return t.Float(64) },
}

// Resolve turns a parsed-but-unresolved type annotation into a
// concrete Ty, hash-consing structural shapes through c.Tbl and
// resolving named references to a same-file struct/distinct
// declaration's materialized type (spec §4.3 "Type expression
// resolution").
func (c *Checker) Resolve(te syntax.TypeExpr) (types.Ty, bool) {
	switch t := te.(type) {
	case nil:
		return nil, false
	case *syntax.NamedTypeExpr:
		return c.resolveNamed(t.Name)
	case *syntax.PointerTypeExpr:
		sub, ok := c.Resolve(t.Sub)
		if !ok {
			return nil, false
		}
		return c.Tbl.Pointer(t.Mutable, sub), true
	case *syntax.ArrayTypeExpr:
		sub, ok := c.Resolve(t.Sub)
		if !ok {
			return nil, false
		}
		if t.Size == nil {
			return nil, false
		}
		return c.Tbl.Array(uint64(*t.Size), sub), true
	case *syntax.StructTypeExpr:
		return c.resolveInlineStruct(t), true
	default:
		return nil, false
	}
}

func (c *Checker) resolveNamed(name string) (types.Ty, bool) {
	if make, ok := primitiveTypes[name]; ok {
		return make(c.Tbl), true
	}
	nameID := intern.Name(c.Names.Intern(name))
	if cached, ok := c.namedTypeCache[nameID]; ok {
		return cached, true
	}
	entry, ok := c.Index.Lookup(nameID)
	if !ok || entry.Kind != index.KindNamedType {
		return nil, false
	}
	exprID, ok := c.Bodies.Globals[nameID]
	if !ok {
		return nil, false
	}
	ty := c.materializeNamedType(nameID, exprID)
	c.namedTypeCache[nameID] = ty
	return ty, true
}

// materializeNamedType builds the actual struct/distinct Ty a
// top-level named-type definition denotes, reusing the Uid the
// lowerer already assigned at declaration (spec §3, §9).
func (c *Checker) materializeNamedType(name intern.Name, exprID core.ExprID) types.Ty {
	node := c.Bodies.Expr(exprID)
	switch d := node.Data.(type) {
	case core.StructDecl:
		fields := make([]types.Field, len(d.Fields))
		for i, f := range d.Fields {
			fieldName := intern.Name(c.Names.Intern(f.Name))
			fieldTy, ok := c.Resolve(f.Type)
			if !ok {
				fieldTy = c.Tbl.Unknown()
			}
			fields[i] = types.Field{Name: fieldName, Type: fieldTy}
		}
		return c.Tbl.Struct(d.Uid, &types.Fqn{File: c.File, Name: name}, fields)
	case core.DistinctExpr:
		inner, ok := c.Resolve(d.Inner)
		if !ok {
			inner = c.Tbl.Unknown()
		}
		return c.Tbl.Distinct(d.Uid, &types.Fqn{File: c.File, Name: name}, inner)
	default:
		return c.Tbl.Unknown()
	}
}

func (c *Checker) resolveInlineStruct(t *syntax.StructTypeExpr) types.Ty {
	if cached, ok := c.inlineTypeCache[t]; ok {
		return cached
	}
	fields := make([]types.Field, len(t.Fields))
	for i, f := range t.Fields {
		fieldName := intern.Name(c.Names.Intern(f.Name))
		fieldTy, ok := c.Resolve(f.Type)
		if !ok {
			fieldTy = c.Tbl.Unknown()
		}
		fields[i] = types.Field{Name: fieldName, Type: fieldTy}
	}
	ty := c.Tbl.Struct(c.UIDs.Struct(), nil, fields)
	c.inlineTypeCache[t] = ty
	return ty
}
