// Package lower implements the body lowerer (spec §4.2): surface
// syntax -> the normalized core IR, with scoped name resolution,
// label/scope tracking, literal processing, and import discovery.
package lower

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/index"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/resolve"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/uid"
	"github.com/capy-lang/capy/internal/worldindex"
)

var primitiveTypeNames = map[string]bool{
	"bool": true, "char": true, "string": true, "void": true, "type": true, "any": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "usize": true,
	"f32": true, "f64": true,
}

// Lowerer lowers one file's definitions into core IR. A fresh Lowerer
// is created per file (spec §4.2 input list).
type Lowerer struct {
	Names *intern.Table
	Files *intern.Table
	UIDs  *uid.Generator
	Bag   *diag.Bag

	Bodies *core.Bodies

	SelfIndex *index.Index
	World     *worldindex.World

	Resolver      *resolve.Resolver
	ImportingFile string

	fs          *funcScope
	lambdaDepth int
}

// New creates a Lowerer for one file.
func New(names, files *intern.Table, uids *uid.Generator, selfIndex *index.Index, world *worldindex.World, resolver *resolve.Resolver, importingFile string) *Lowerer {
	return &Lowerer{
		Names:         names,
		Files:         files,
		UIDs:          uids,
		Bag:           &diag.Bag{},
		Bodies:        core.NewBodies(),
		SelfIndex:     selfIndex,
		World:         world,
		Resolver:      resolver,
		ImportingFile: importingFile,
	}
}

// LowerFile lowers every top-level definition of tree into l.Bodies,
// recording each one under its interned name in Bodies.Globals.
func (l *Lowerer) LowerFile(tree *syntax.Tree) {
	for _, def := range tree.Defs {
		name := intern.Name(l.Names.Intern(def.Name))
		l.fs = newFuncScope()
		id := l.lowerExpr(def.Value)
		l.Bodies.Globals[name] = id
		l.fs = nil
	}
}

// lowerExpr is the main dispatch over every surface expression
// variant (spec §3).
func (l *Lowerer) lowerExpr(e syntax.Expr) core.ExprID {
	switch v := e.(type) {
	case *syntax.IntLit:
		return l.lowerIntLit(v)
	case *syntax.FloatLit:
		return l.lowerFloatLit(v)
	case *syntax.BoolLit:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Lit{Kind: core.BoolLit, BoolValue: v.Value}})
	case *syntax.CharLit:
		return l.lowerCharLit(v)
	case *syntax.StringLit:
		return l.lowerStringLit(v)
	case *syntax.Ident:
		return l.lowerIdent(v)
	case *syntax.Binary:
		return l.lowerBinary(v)
	case *syntax.Unary:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Unary{Expr: l.lowerExpr(v.Operand), Op: v.Op}})
	case *syntax.Ref:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Ref{Mutable: v.Mutable, Expr: l.lowerExpr(v.Operand)}})
	case *syntax.Deref:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Deref{Ptr: l.lowerExpr(v.Ptr)}})
	case *syntax.Cast:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Cast{Expr: l.lowerExpr(v.Operand), Type: v.Type}})
	case *syntax.ArrayLit:
		return l.lowerArrayLit(v)
	case *syntax.IndexExpr:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Index{Array: l.lowerExpr(v.Array), Index: l.lowerExpr(v.Index)}})
	case *syntax.Block:
		return l.lowerBlockExpr(v)
	case *syntax.If:
		return l.lowerIf(v)
	case *syntax.While:
		return l.lowerWhile(v)
	case *syntax.Call:
		return l.lowerCall(v)
	case *syntax.Path:
		return l.lowerPath(v)
	case *syntax.Lambda:
		return l.lowerLambdaValue(v)
	case *syntax.StructDecl:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.StructDecl{Uid: l.UIDs.Struct(), Fields: v.Fields}})
	case *syntax.StructLiteral:
		return l.lowerStructLiteral(v)
	case *syntax.DistinctExpr:
		return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.DistinctExpr{Uid: l.UIDs.Distinct(), Inner: v.Inner}})
	case *syntax.ComptimeExpr:
		return l.lowerComptime(v)
	case *syntax.ImportExpr:
		return l.lowerImport(v)
	default:
		return l.Bodies.AddExpr(core.Node{Data: core.Lit{Kind: core.IntLit}})
	}
}

func (l *Lowerer) lowerBinary(v *syntax.Binary) core.ExprID {
	lhs := l.lowerExpr(v.Lhs)
	rhs := l.lowerExpr(v.Rhs)
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Binary{Lhs: lhs, Rhs: rhs, Op: v.Op}})
}

func (l *Lowerer) lowerIdent(v *syntax.Ident) core.ExprID {
	data := l.resolveName(v.Name, v.Range())
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: data})
}

// resolveName resolves a bare identifier to one of: local, parameter,
// same-file global, primitive type, or unresolved with a diagnostic
// (spec §4.2).
func (l *Lowerer) resolveName(name string, rng syntax.Range) core.ExprData {
	if l.fs != nil {
		if id, ok := l.fs.locals[name]; ok {
			return core.Local{ID: id}
		}
		if idx, ok := l.fs.params[name]; ok {
			return core.Param{Idx: idx}
		}
	}
	if l.SelfIndex != nil {
		nameID := intern.Name(l.Names.Intern(name))
		if _, ok := l.SelfIndex.Lookup(nameID); ok {
			return core.LocalGlobal{Name: nameID}
		}
	}
	if primitiveTypeNames[name] {
		return core.PrimitiveTyRef{Type: syntax.NewNamedTypeExpr(name, rng)}
	}
	l.Bag.Errorf(diag.UndefinedRef, diag.PhaseLowering, rng, "undefined reference '%s'", name)
	return core.Unresolved{Name: name}
}
