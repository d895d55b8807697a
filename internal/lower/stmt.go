package lower

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// lowerStmt is the statement-level counterpart of lowerExpr (spec §3
// "Statements").
func (l *Lowerer) lowerStmt(s syntax.Stmt) core.StmtID {
	switch v := s.(type) {
	case *syntax.ExprStmt:
		return l.Bodies.AddStmt(core.StmtNode{Range: v.Range(), Data: core.ExprStmt{Expr: l.lowerExpr(v.Expr)}})
	case *syntax.LocalDefStmt:
		return l.lowerLocalDef(v)
	case *syntax.AssignStmt:
		return l.lowerAssign(v)
	case *syntax.BreakStmt:
		return l.lowerBreak(v)
	case *syntax.ContinueStmt:
		return l.lowerContinue(v)
	default:
		return l.Bodies.AddStmt(core.StmtNode{Data: core.ExprStmt{}})
	}
}

func (l *Lowerer) lowerLocalDef(v *syntax.LocalDefStmt) core.StmtID {
	value := l.lowerExpr(v.Value)
	name := intern.Name(l.Names.Intern(v.Name))
	id := l.Bodies.AddLocal(core.LocalDef{Name: name, Type: v.Type, Value: value, Mutable: v.Mutable, Range: v.Range()})
	l.fs.locals[v.Name] = id
	return l.Bodies.AddStmt(core.StmtNode{Range: v.Range(), Data: core.LocalDefStmt{Local: id}})
}

func (l *Lowerer) lowerAssign(v *syntax.AssignStmt) core.StmtID {
	place := l.lowerExpr(v.Place)
	value := l.lowerExpr(v.Value)
	id := l.Bodies.AddAssign(core.Assign{Place: place, Value: value, Range: v.Range()})
	return l.Bodies.AddStmt(core.StmtNode{Range: v.Range(), Data: core.AssignStmt{Assign: id}})
}

// lowerBreak resolves a break/return's target frame and materializes
// its ScopeID on first reference (spec §3, §4.2, §9).
func (l *Lowerer) lowerBreak(v *syntax.BreakStmt) core.StmtID {
	var value *core.ExprID
	if v.Value != nil {
		e := l.lowerExpr(v.Value)
		value = &e
	}

	var target *frame
	switch {
	case v.IsRet:
		target = l.fs.outer
	case v.Label != "":
		target = l.fs.findByName(v.Label)
		if target == nil {
			l.Bag.Errorf(diag.UndefinedLabel, diag.PhaseLowering, v.Range(), "undefined label '%s'", v.Label)
		}
	default:
		target = l.fs.innermostBlock()
	}

	scope := core.NoScope
	if target != nil {
		scope = ensureScope(target, l.UIDs, l.Bodies.Labels)
	}

	id := l.Bodies.AddStmt(core.StmtNode{Range: v.Range(), Data: core.BreakStmt{Label: scope, Value: value}})
	if target != nil {
		l.Bodies.Labels.AddTarget(scope, id)
	}
	return id
}

func (l *Lowerer) lowerContinue(v *syntax.ContinueStmt) core.StmtID {
	var target *frame
	if v.Label != "" {
		target = l.fs.findByName(v.Label)
		if target == nil {
			l.Bag.Errorf(diag.UndefinedLabel, diag.PhaseLowering, v.Range(), "undefined label '%s'", v.Label)
		} else if !target.isLoop {
			l.Bag.Errorf(diag.ContinueNonLoop, diag.PhaseLowering, v.Range(), "label '%s' does not name a loop", v.Label)
			target = nil
		}
	} else {
		target = l.fs.innermostLoop()
		if target == nil {
			l.Bag.Errorf(diag.ContinueNonLoop, diag.PhaseLowering, v.Range(), "continue used outside a loop")
		}
	}

	scope := core.NoScope
	if target != nil {
		scope = ensureScope(target, l.UIDs, l.Bodies.Labels)
	}

	id := l.Bodies.AddStmt(core.StmtNode{Range: v.Range(), Data: core.ContinueStmt{Label: scope}})
	if target != nil {
		l.Bodies.Labels.AddTarget(scope, id)
	}
	return id
}
