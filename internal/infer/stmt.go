package infer

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/types"
)

func (c *Checker) inferStmt(s core.StmtID) {
	node := c.Bodies.Stmt(s)
	switch d := node.Data.(type) {
	case core.ExprStmt:
		c.infer(d.Expr, nil)
	case core.LocalDefStmt:
		c.inferLocalDef(d)
	case core.AssignStmt:
		c.inferAssign(d)
	case core.BreakStmt:
		c.inferBreak(d)
	case core.ContinueStmt:
		// No type to check; continue's target loop was already resolved
		// by the lowerer.
	}
}

func (c *Checker) inferLocalDef(d core.LocalDefStmt) {
	local := c.Bodies.Local(d.Local)
	if local.Type != nil {
		ty, ok := c.Resolve(local.Type)
		if !ok {
			ty = c.Tbl.Unknown()
		}
		c.infer(local.Value, ty)
		c.localTypes[d.Local] = ty
		return
	}
	c.localTypes[d.Local] = c.infer(local.Value, nil)
}

func (c *Checker) inferAssign(d core.AssignStmt) {
	assign := c.Bodies.Assign(d.Assign)
	placeTy := c.infer(assign.Place, nil)

	if !c.isMutablePlace(assign.Place) {
		c.errorf(diag.ImmutabilityViolation, assign.Range, "cannot assign to an immutable place")
	}
	c.infer(assign.Value, placeTy)
}

// isMutablePlace reports whether the lvalue expression names a
// mutable binding or a dereference of a mutable pointer (spec §4.3
// ImmutabilityViolation).
func (c *Checker) isMutablePlace(e core.ExprID) bool {
	node := c.Bodies.Expr(e)
	switch d := node.Data.(type) {
	case core.Local:
		return c.Bodies.Local(d.ID).Mutable
	case core.Deref:
		ptrTy := c.infer(d.Ptr, nil)
		p, ok := types.AsPointer(ptrTy)
		return ok && p.Mutable
	case core.Path:
		return c.isMutablePlace(d.Prev)
	case core.Index:
		return c.isMutablePlace(d.Array)
	default:
		return false
	}
}

// inferBreak types a break's value (if any) and, for a break that
// targets a materialized scope, records the value for that block's
// Max-folding once the block finishes walking its statements (spec §3,
// §4.3).
func (c *Checker) inferBreak(d core.BreakStmt) {
	if d.Label == core.NoScope {
		if d.Value != nil {
			c.infer(*d.Value, nil)
		}
		return
	}
	var valueTy types.Ty
	if d.Value != nil {
		valueTy = c.infer(*d.Value, nil)
	} else {
		valueTy = c.Tbl.Void()
	}
	c.breakValues[d.Label] = append(c.breakValues[d.Label], valueTy)
}
