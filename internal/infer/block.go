package infer

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/types"
)

// inferBlock checks every statement in order, then combines the tail
// expression's type with the type of every break that targets this
// block's scope (if any was materialized) via the Max operator (spec
// §3 "a block's type is the max of its tail and every break value
// targeting it", §4.3).
func (c *Checker) inferBlock(d core.Block, expected types.Ty) types.Ty {
	for _, s := range d.Stmts {
		c.inferStmt(s)
	}

	var tail types.Ty
	if d.Tail != nil {
		tail = c.infer(*d.Tail, expected)
	} else {
		tail = c.Tbl.Void()
	}

	return c.combineWithBreaks(d.Scope, tail)
}

func (c *Checker) inferWhile(d core.While) types.Ty {
	if d.Cond != nil {
		c.infer(*d.Cond, c.Tbl.Bool())
	}
	c.infer(d.Body, nil)
	return c.combineWithBreaks(d.Scope, c.Tbl.Void())
}

// combineWithBreaks folds every break value recorded against scope (by
// inferBreak, called while the block's own statements were walked
// above) together with base via Max.
func (c *Checker) combineWithBreaks(scope core.ScopeID, base types.Ty) types.Ty {
	if scope == core.NoScope {
		return base
	}
	values := c.breakValues[scope]
	if len(values) == 0 {
		return base
	}
	result := base
	for _, v := range values {
		m, ok := types.Max(c.Tbl, result, v)
		if !ok {
			c.errorf(diag.BreakTypeMismatch, syntax.Range{}, "break value type %s does not match the block's type %s", v.String(), result.String())
			continue
		}
		result = m
	}
	return result
}

func (c *Checker) inferIf(d core.If, expected types.Ty) types.Ty {
	c.infer(d.Cond, c.Tbl.Bool())
	thenTy := c.infer(d.Body, expected)
	if d.Else != nil {
		elseTy := c.infer(*d.Else, expected)
		if expected != nil {
			return expected
		}
		result, ok := types.Max(c.Tbl, thenTy, elseTy)
		if !ok {
			c.errorf(diag.CannotUnify, c.Bodies.RangeFor(d.Body), "if/else branches produce incompatible types %s and %s", thenTy.String(), elseTy.String())
			return c.Tbl.Unknown()
		}
		return result
	}
	return c.Tbl.Void()
}
