package lower

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// lowerArrayLit lowers `[N]T{items...}`. A non-literal size expression
// is a diagnostic (ArraySizeNotConst); a literal size that disagrees
// with the item count is ArraySizeMismatch, but the array value is
// still produced with every item (spec §4.2, §9 Open Question).
func (l *Lowerer) lowerArrayLit(v *syntax.ArrayLit) core.ExprID {
	items := make([]core.ExprID, len(v.Items))
	for i, item := range v.Items {
		items[i] = l.lowerExpr(item)
	}

	var size *uint64
	if v.SizeExpr != nil {
		lit, ok := v.SizeExpr.(*syntax.IntLit)
		if !ok {
			l.Bag.Errorf(diag.ArraySizeNotConst, diag.PhaseLowering, v.SizeExpr.Range(), "array size must be a constant integer literal")
		} else {
			n, ok := parseIntLiteral(lit.Text)
			if ok {
				size = &n
				if n != uint64(len(items)) {
					l.Bag.Add(diag.Diagnostic{
						Kind:     diag.ArraySizeMismatch,
						Phase:    diag.PhaseLowering,
						Severity: diag.SeverityError,
						Message:  "array literal has a different number of items than its declared size",
						Range:    v.Range(),
						Data:     map[string]any{"found": len(items), "expected": n},
					})
				}
			}
		}
	}

	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Array{Size: size, Type: v.Type, Items: items}})
}

func (l *Lowerer) lowerBlockExpr(v *syntax.Block) core.ExprID {
	id, _ := l.lowerBlockInto(v, false)
	return id
}

// lowerBlockInto lowers a block, pushing a frame for it (unless
// asLoopBody, in which case the caller — lowerWhile — has already
// pushed the loop's own frame and the block itself gets none, matching
// spec §3's "a block expression or while" being the unit that is
// labellable, not a while's body block separately).
func (l *Lowerer) lowerBlockInto(v *syntax.Block, asLoopBody bool) (core.ExprID, *frame) {
	id := l.Bodies.ReserveExpr()

	var f *frame
	if !asLoopBody {
		f = &frame{name: v.Label, exprID: id, isLoop: false}
		l.fs.push(f)
	}

	stmts := make([]core.StmtID, len(v.Stmts))
	for i, s := range v.Stmts {
		stmts[i] = l.lowerStmt(s)
	}
	var tail *core.ExprID
	if v.Tail != nil {
		t := l.lowerExpr(v.Tail)
		tail = &t
	}

	if !asLoopBody {
		l.fs.pop()
	}

	scope := core.NoScope
	if f != nil {
		scope = f.scope
	}
	l.Bodies.PatchExpr(id, core.Node{Range: v.Range(), Data: core.Block{Scope: scope, Stmts: stmts, Tail: tail}})
	return id, f
}

func (l *Lowerer) lowerIf(v *syntax.If) core.ExprID {
	cond := l.lowerExpr(v.Cond)
	body := l.lowerBlockExpr(v.Then)
	var elseID *core.ExprID
	if v.Else != nil {
		e := l.lowerExpr(v.Else)
		elseID = &e
	}
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.If{Cond: cond, Body: body, Else: elseID}})
}

func (l *Lowerer) lowerWhile(v *syntax.While) core.ExprID {
	id := l.Bodies.ReserveExpr()
	f := &frame{name: v.Label, exprID: id, isLoop: true}
	l.fs.push(f)

	var cond *core.ExprID
	if v.Cond != nil {
		c := l.lowerExpr(v.Cond)
		cond = &c
	}
	body, _ := l.lowerBlockInto(v.Body, true)

	l.fs.pop()

	scope := f.scope
	l.Bodies.PatchExpr(id, core.Node{Range: v.Range(), Data: core.While{Scope: scope, Cond: cond, Body: body}})
	return id
}

func (l *Lowerer) lowerCall(v *syntax.Call) core.ExprID {
	// The callee is always lowered as an arbitrary expression: Capy has
	// first-class functions, so a named callee is resolved by ordinary
	// name resolution rather than special-cased (spec §4.2).
	callee := l.lowerExpr(v.Callee)
	args := make([]core.ExprID, len(v.Args))
	for i, a := range v.Args {
		args[i] = l.lowerExpr(a)
	}
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Call{Callee: callee, Args: args}})
}

func (l *Lowerer) lowerPath(v *syntax.Path) core.ExprID {
	prev := l.lowerExpr(v.Prev)
	field := intern.Name(l.Names.Intern(v.Field))
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.Path{Prev: prev, Field: field}})
}

func (l *Lowerer) lowerStructLiteral(v *syntax.StructLiteral) core.ExprID {
	fields := make(map[intern.Name]core.ExprID, len(v.Fields))
	order := make([]intern.Name, len(v.FieldOrder))
	for i, name := range v.FieldOrder {
		id := intern.Name(l.Names.Intern(name))
		order[i] = id
		fields[id] = l.lowerExpr(v.Fields[name])
	}
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.StructLiteral{Type: v.Type, Fields: fields, Order: order}})
}

func (l *Lowerer) lowerComptime(v *syntax.ComptimeExpr) core.ExprID {
	// Comptime bodies clear enclosing params/scopes when entered, same
	// as lambdas (spec §4.2).
	outer := l.fs
	l.fs = newFuncScope()
	body, _ := l.lowerBlockInto(v.Body, false)
	l.fs = outer

	ct := core.Comptime{Body: body, Range: v.Range()}
	id := l.Bodies.AddComptime(ct)
	return l.Bodies.AddExpr(core.Node{Range: v.Range(), Data: core.ComptimeRef{Comptime: id}})
}
