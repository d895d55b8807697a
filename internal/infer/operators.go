package infer

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/syntax"
	"github.com/capy-lang/capy/internal/types"
)

func (c *Checker) inferBinary(d core.Binary, rng syntax.Range) types.Ty {
	switch d.Op {
	case syntax.OpAnd, syntax.OpOr:
		c.infer(d.Lhs, c.Tbl.Bool())
		c.infer(d.Rhs, c.Tbl.Bool())
		return c.Tbl.Bool()
	case syntax.OpEq, syntax.OpNeq:
		lhs := c.infer(d.Lhs, nil)
		rhs := c.infer(d.Rhs, nil)
		if !isErrorTy(lhs) && !isErrorTy(rhs) {
			if _, ok := types.Max(c.Tbl, lhs, rhs); !ok && !types.Equals(lhs, rhs) {
				c.errorf(diag.CannotUnify, rng, "cannot compare %s and %s", lhs.String(), rhs.String())
			}
		}
		return c.Tbl.Bool()
	case syntax.OpLt, syntax.OpGt, syntax.OpLe, syntax.OpGe:
		lhs := c.infer(d.Lhs, nil)
		rhs := c.infer(d.Rhs, nil)
		if !isErrorTy(lhs) && !isErrorTy(rhs) {
			if _, ok := types.Max(c.Tbl, lhs, rhs); !ok {
				c.errorf(diag.CannotUnify, rng, "cannot compare %s and %s", lhs.String(), rhs.String())
			}
		}
		return c.Tbl.Bool()
	default: // arithmetic and bitwise
		lhs := c.infer(d.Lhs, nil)
		rhs := c.infer(d.Rhs, nil)
		if isErrorTy(lhs) || isErrorTy(rhs) {
			return c.Tbl.Unknown()
		}
		result, ok := types.Max(c.Tbl, lhs, rhs)
		if !ok {
			c.errorf(diag.CannotUnify, rng, "cannot unify %s and %s", lhs.String(), rhs.String())
			return c.Tbl.Unknown()
		}
		return result
	}
}

func (c *Checker) inferUnary(d core.Unary, rng syntax.Range) types.Ty {
	operand := c.infer(d.Expr, nil)
	switch d.Op {
	case syntax.OpNot:
		c.checkFits(operand, c.Tbl.Bool(), rng)
		return c.Tbl.Bool()
	case syntax.OpNeg, syntax.OpPos, syntax.OpBitNot:
		if isErrorTy(operand) {
			return c.Tbl.Unknown()
		}
		switch operand.(type) {
		case types.TIInt, types.TUInt, types.TFloat:
			return operand
		default:
			c.errorf(diag.TypeMismatch, rng, "expected a numeric type, found %s", operand.String())
			return c.Tbl.Unknown()
		}
	default:
		return c.Tbl.Unknown()
	}
}

func (c *Checker) checkFits(found, expected types.Ty, rng syntax.Range) {
	if isErrorTy(found) || isErrorTy(expected) {
		return
	}
	if !types.CanFitInto(found, expected) {
		c.errorf(diag.TypeMismatch, rng, "expected %s, found %s", expected.String(), found.String())
	}
}
