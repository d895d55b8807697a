package comptime

import (
	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/syntax"
)

func maxBits(a, b uint32) uint32 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a > b {
		return a
	}
	return b
}

func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Float:
		return n.Value, true
	case Int:
		if n.Signed {
			return float64(int64(n.Value)), true
		}
		return float64(n.Value), true
	default:
		return 0, false
	}
}

func (it *Interpreter) evalBinary(d core.Binary, env *Environment) (Value, flow, error) {
	lhsVal, f, err := it.evalExpr(d.Lhs, env)
	if err != nil || f.kind != flowNone {
		return nil, f, err
	}

	if d.Op == syntax.OpAnd || d.Op == syntax.OpOr {
		lb, ok := lhsVal.(Bool)
		if !ok {
			return nil, flow{}, &notConstant{reason: "logical operator applied to a non-bool value"}
		}
		if d.Op == syntax.OpAnd && !lb.Value {
			return Bool{Value: false}, flow{}, nil
		}
		if d.Op == syntax.OpOr && lb.Value {
			return Bool{Value: true}, flow{}, nil
		}
		rhsVal, f, err := it.evalExpr(d.Rhs, env)
		if err != nil || f.kind != flowNone {
			return nil, f, err
		}
		rb, ok := rhsVal.(Bool)
		if !ok {
			return nil, flow{}, &notConstant{reason: "logical operator applied to a non-bool value"}
		}
		return Bool{Value: rb.Value}, flow{}, nil
	}

	rhsVal, f, err := it.evalExpr(d.Rhs, env)
	if err != nil || f.kind != flowNone {
		return nil, f, err
	}

	v, err := evalBinaryOp(d.Op, lhsVal, rhsVal)
	return v, flow{}, err
}

func evalBinaryOp(op syntax.BinaryOp, lhs, rhs Value) (Value, error) {
	switch op {
	case syntax.OpEq, syntax.OpNeq:
		eq := valuesEqual(lhs, rhs)
		if op == syntax.OpNeq {
			eq = !eq
		}
		return Bool{Value: eq}, nil
	case syntax.OpLt, syntax.OpGt, syntax.OpLe, syntax.OpGe:
		return compareValues(op, lhs, rhs)
	}

	li, lok := lhs.(Int)
	ri, rok := rhs.(Int)
	if lok && rok {
		return evalIntOp(op, li, ri)
	}
	lf, lfOk := asFloat(lhs)
	rf, rfOk := asFloat(rhs)
	if lfOk && rfOk {
		return evalFloatOp(op, lf, rf, lhs, rhs)
	}
	return nil, &notConstant{reason: "arithmetic operator applied to non-numeric values"}
}

func evalIntOp(op syntax.BinaryOp, lhs, rhs Int) (Value, error) {
	bits := maxBits(lhs.Bits, rhs.Bits)
	signed := lhs.Signed || rhs.Signed
	var result uint64
	switch op {
	case syntax.OpAdd:
		result = lhs.Value + rhs.Value
	case syntax.OpSub:
		result = lhs.Value - rhs.Value
	case syntax.OpMul:
		result = lhs.Value * rhs.Value
	case syntax.OpDiv:
		if rhs.Value == 0 {
			return nil, &notConstant{reason: "division by zero"}
		}
		if signed {
			result = uint64(int64(lhs.Value) / int64(rhs.Value))
		} else {
			result = lhs.Value / rhs.Value
		}
	case syntax.OpMod:
		if rhs.Value == 0 {
			return nil, &notConstant{reason: "modulo by zero"}
		}
		if signed {
			result = uint64(int64(lhs.Value) % int64(rhs.Value))
		} else {
			result = lhs.Value % rhs.Value
		}
	case syntax.OpBitAnd:
		result = lhs.Value & rhs.Value
	case syntax.OpBitOr:
		result = lhs.Value | rhs.Value
	case syntax.OpBitXor:
		result = lhs.Value ^ rhs.Value
	case syntax.OpShl:
		result = lhs.Value << rhs.Value
	case syntax.OpShr:
		result = lhs.Value >> rhs.Value
	default:
		return nil, &notConstant{reason: "unsupported integer operator"}
	}
	return Int{Bits: bits, Signed: signed, Value: truncate(bits, result)}, nil
}

func evalFloatOp(op syntax.BinaryOp, lhs, rhs float64, lhsVal, rhsVal Value) (Value, error) {
	bits := uint32(0)
	if lf, ok := lhsVal.(Float); ok {
		bits = maxBits(bits, lf.Bits)
	}
	if rf, ok := rhsVal.(Float); ok {
		bits = maxBits(bits, rf.Bits)
	}
	var result float64
	switch op {
	case syntax.OpAdd:
		result = lhs + rhs
	case syntax.OpSub:
		result = lhs - rhs
	case syntax.OpMul:
		result = lhs * rhs
	case syntax.OpDiv:
		if rhs == 0 {
			return nil, &notConstant{reason: "division by zero"}
		}
		result = lhs / rhs
	default:
		return nil, &notConstant{reason: "unsupported float operator"}
	}
	return Float{Bits: bits, Value: clampFloat(bits, result)}, nil
}

func compareValues(op syntax.BinaryOp, lhs, rhs Value) (Value, error) {
	var cmp int
	switch {
	case isNumeric(lhs) && isNumeric(rhs):
		lf, _ := asFloat(lhs)
		rf, _ := asFloat(rhs)
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		default:
			cmp = 0
		}
	case isString(lhs) && isString(rhs):
		ls, rs := lhs.(String).Value, rhs.(String).Value
		switch {
		case ls < rs:
			cmp = -1
		case ls > rs:
			cmp = 1
		default:
			cmp = 0
		}
	default:
		return nil, &notConstant{reason: "comparison operator applied to incomparable values"}
	}
	switch op {
	case syntax.OpLt:
		return Bool{Value: cmp < 0}, nil
	case syntax.OpGt:
		return Bool{Value: cmp > 0}, nil
	case syntax.OpLe:
		return Bool{Value: cmp <= 0}, nil
	case syntax.OpGe:
		return Bool{Value: cmp >= 0}, nil
	default:
		return nil, &notConstant{reason: "unsupported comparison operator"}
	}
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	default:
		return false
	}
}

func isString(v Value) bool {
	_, ok := v.(String)
	return ok
}

func valuesEqual(lhs, rhs Value) bool {
	if isNumeric(lhs) && isNumeric(rhs) {
		lf, _ := asFloat(lhs)
		rf, _ := asFloat(rhs)
		return lf == rf
	}
	switch l := lhs.(type) {
	case Bool:
		r, ok := rhs.(Bool)
		return ok && l.Value == r.Value
	case Char:
		r, ok := rhs.(Char)
		return ok && l.Value == r.Value
	case String:
		r, ok := rhs.(String)
		return ok && l.Value == r.Value
	case Void:
		_, ok := rhs.(Void)
		return ok
	default:
		return false
	}
}

func (it *Interpreter) evalUnary(d core.Unary, env *Environment) (Value, flow, error) {
	operand, f, err := it.evalExpr(d.Expr, env)
	if err != nil || f.kind != flowNone {
		return nil, f, err
	}
	switch d.Op {
	case syntax.OpNot:
		b, ok := operand.(Bool)
		if !ok {
			return nil, flow{}, &notConstant{reason: "'not' applied to a non-bool value"}
		}
		return Bool{Value: !b.Value}, flow{}, nil
	case syntax.OpNeg:
		switch n := operand.(type) {
		case Int:
			return Int{Bits: n.Bits, Signed: true, Value: truncate(n.Bits, uint64(-int64(n.Value)))}, flow{}, nil
		case Float:
			return Float{Bits: n.Bits, Value: -n.Value}, flow{}, nil
		default:
			return nil, flow{}, &notConstant{reason: "negation applied to a non-numeric value"}
		}
	case syntax.OpPos:
		if !isNumeric(operand) {
			return nil, flow{}, &notConstant{reason: "unary '+' applied to a non-numeric value"}
		}
		return operand, flow{}, nil
	case syntax.OpBitNot:
		n, ok := operand.(Int)
		if !ok {
			return nil, flow{}, &notConstant{reason: "bitwise not applied to a non-integer value"}
		}
		return Int{Bits: n.Bits, Signed: n.Signed, Value: truncate(n.Bits, ^n.Value)}, flow{}, nil
	default:
		return nil, flow{}, &notConstant{reason: "unsupported unary operator"}
	}
}
