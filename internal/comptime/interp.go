package comptime

import (
	"fmt"

	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/diag"
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// GlobalValueLookup resolves another file's global to a compile-time
// value, backed by the driver's cache of already-evaluated files
// (mirrors infer.CrossFileLookup, spec §4.4, §4.5).
type GlobalValueLookup func(file intern.FileName, name intern.Name) (Value, bool)

type flowKind int

const (
	flowNone flowKind = iota
	flowBreak
	flowContinue
)

// flow carries a pending break/continue out of the statement/block
// that produced it, until it reaches the scope it targets (mirrors
// the lowered IR's ScopeID-addressed break/continue, spec §3).
type flow struct {
	kind  flowKind
	label core.ScopeID
	value Value
}

// notConstant reports an evaluation failure that should surface as a
// ComptimeNotConstant diagnostic rather than a Go-level panic: the
// expression's operands were not themselves compile-time known, or
// the operation has no constant meaning (out-of-bounds index, wrong
// value kind for an operator).
type notConstant struct{ reason string }

func (e *notConstant) Error() string { return e.reason }

// externCall reports that evaluation reached a call to an extern
// function, which has no compile-time body to run (spec §4.4 step 4:
// "calls into extern functions are a diagnostic").
type externCall struct{ name string }

func (e *externCall) Error() string { return "call to extern function " + e.name }

// Interpreter evaluates lowered core IR expressions to compile-time
// Values, one file at a time.
type Interpreter struct {
	File    intern.FileName
	Bodies  *core.Bodies
	Names   *intern.Table
	Bag     *diag.Bag
	Results *Table

	CrossFile GlobalValueLookup

	comptimeCache map[core.ComptimeID]Value
	evaluatingCT  map[core.ComptimeID]bool

	globalCache map[intern.Name]Value
	evaluatingG map[intern.Name]bool

	paramStack [][]Value
}

// NewInterpreter creates an interpreter for one file's bodies, sharing
// the result table across files in a compilation.
func NewInterpreter(file intern.FileName, bodies *core.Bodies, names *intern.Table, results *Table, crossFile GlobalValueLookup) *Interpreter {
	return &Interpreter{
		File:          file,
		Bodies:        bodies,
		Names:         names,
		Bag:           &diag.Bag{},
		Results:       results,
		CrossFile:     crossFile,
		comptimeCache: make(map[core.ComptimeID]Value),
		evaluatingCT:  make(map[core.ComptimeID]bool),
		globalCache:   make(map[intern.Name]Value),
		evaluatingG:   make(map[intern.Name]bool),
	}
}

// EvalComptime evaluates (memoized) the comptime body numbered id and
// stores its flattened Result, returning the live Value too (needed
// when inference forces a comptime eagerly for a type that depends on
// it, spec §4.4 closing paragraph).
func (it *Interpreter) EvalComptime(id core.ComptimeID) Value {
	if v, ok := it.comptimeCache[id]; ok {
		return v
	}
	if it.evaluatingCT[id] {
		it.Bag.Errorf(diag.ComptimeCycle, diag.PhaseComptime, syntax.Range{}, "comptime expression depends on its own result")
		return Void{}
	}
	it.evaluatingCT[id] = true
	ct := it.Bodies.Comptime(id)
	v, err := it.evalTop(ct.Body)
	delete(it.evaluatingCT, id)
	if err != nil {
		it.reportEvalError(ct.Range, err)
		v = Void{}
	}
	it.comptimeCache[id] = v
	it.Results.Set(it.File, id, ToResult(v))
	return v
}

func (it *Interpreter) reportEvalError(rng syntax.Range, err error) {
	switch e := err.(type) {
	case *externCall:
		it.Bag.Errorf(diag.ComptimeExternCall, diag.PhaseComptime, rng, "%s", e.Error())
	case *notConstant:
		it.Bag.Errorf(diag.ComptimeNotConstant, diag.PhaseComptime, rng, "%s", e.reason)
	default:
		it.Bag.Errorf(diag.ComptimeNotConstant, diag.PhaseComptime, rng, "%s", err.Error())
	}
}

// GlobalValue returns the compile-time value of one of this
// interpreter's own globals, evaluating it on first reference. This is
// what a driver wires as the GlobalValueLookup another file's
// interpreter calls through CrossFile (spec §4.4, §4.5).
func (it *Interpreter) GlobalValue(name intern.Name) (Value, bool) {
	v, err := it.globalValue(name)
	if err != nil {
		return nil, false
	}
	return v, true
}

// globalValue returns the compile-time value of a same-file global,
// evaluating it on first reference (a plain `x :: 5;` is itself
// constant-evaluable even outside any comptime block).
func (it *Interpreter) globalValue(name intern.Name) (Value, error) {
	if v, ok := it.globalCache[name]; ok {
		return v, nil
	}
	exprID, ok := it.Bodies.Globals[name]
	if !ok {
		return nil, &notConstant{reason: "reference to an undefined global"}
	}
	if it.evaluatingG[name] {
		return nil, &notConstant{reason: fmt.Sprintf("'%s' depends on itself", it.Names.String(uint32(name)))}
	}
	it.evaluatingG[name] = true
	v, err := it.evalTop(exprID)
	delete(it.evaluatingG, name)
	if err != nil {
		return nil, err
	}
	it.globalCache[name] = v
	return v, nil
}

// evalTop evaluates an expression with a fresh root environment,
// asserting no break/continue escapes it (one is only legal inside
// the function/loop body that declared its target scope).
func (it *Interpreter) evalTop(e core.ExprID) (Value, error) {
	v, f, err := it.evalExpr(e, NewEnvironment())
	if err != nil {
		return nil, err
	}
	if f.kind != flowNone {
		return nil, &notConstant{reason: "break or continue outside of its enclosing loop"}
	}
	return v, nil
}

func (it *Interpreter) evalExpr(e core.ExprID, env *Environment) (Value, flow, error) {
	node := it.Bodies.Expr(e)
	switch d := node.Data.(type) {
	case core.Lit:
		return it.evalLit(d), flow{}, nil

	case core.Local:
		cell, ok := env.Lookup(d.ID)
		if !ok {
			return nil, flow{}, &notConstant{reason: "reference to an uninitialized local"}
		}
		return cell.Value, flow{}, nil

	case core.LocalGlobal:
		v, err := it.globalValue(d.Name)
		return v, flow{}, err

	case core.Param:
		if len(it.paramStack) == 0 {
			return nil, flow{}, &notConstant{reason: "parameter reference outside of a function call"}
		}
		params := it.paramStack[len(it.paramStack)-1]
		if d.Idx < 0 || d.Idx >= len(params) {
			return nil, flow{}, &notConstant{reason: "parameter index out of range"}
		}
		return params[d.Idx], flow{}, nil

	case core.PrimitiveTyRef, core.DistinctExpr, core.StructDecl:
		return nil, flow{}, &notConstant{reason: "type-valued expressions are not supported as compile-time values"}

	case core.Unresolved:
		return nil, flow{}, &notConstant{reason: "reference to an unresolved name"}

	case core.Cast:
		v, err := it.evalCast(d, env)
		return v, flow{}, err

	case core.Ref:
		inner, f, err := it.evalExpr(d.Expr, env)
		if err != nil || f.kind != flowNone {
			return nil, f, err
		}
		return Pointer{Mutable: d.Mutable, Target: &Cell{Value: inner}}, flow{}, nil

	case core.Deref:
		ptrVal, f, err := it.evalExpr(d.Ptr, env)
		if err != nil || f.kind != flowNone {
			return nil, f, err
		}
		p, ok := ptrVal.(Pointer)
		if !ok {
			return nil, flow{}, &notConstant{reason: "dereference of a non-pointer value"}
		}
		return p.Target.Value, flow{}, nil

	case core.Binary:
		return it.evalBinary(d, env)

	case core.Unary:
		return it.evalUnary(d, env)

	case core.Array:
		return it.evalArray(d, env)

	case core.Index:
		return it.evalIndex(d, env)

	case core.Block:
		return it.evalBlock(d, env)

	case core.If:
		return it.evalIf(d, env)

	case core.While:
		return it.evalWhile(d, env)

	case core.Call:
		v, err := it.evalCall(d, env)
		return v, flow{}, err

	case core.Path:
		v, err := it.evalPath(d, env)
		return v, flow{}, err

	case core.LambdaExpr:
		return Function{Lambda: d.Lambda, Env: env}, flow{}, nil

	case core.ComptimeRef:
		return it.EvalComptime(d.Comptime), flow{}, nil

	case core.StructLiteral:
		v, err := it.evalStructLiteral(d, env)
		return v, flow{}, err

	case core.Import:
		return FileRef{File: d.File}, flow{}, nil

	default:
		return nil, flow{}, &notConstant{reason: "unsupported expression in a compile-time context"}
	}
}

func (it *Interpreter) evalLit(d core.Lit) Value {
	switch d.Kind {
	case core.IntLit:
		return Int{Value: d.IntValue}
	case core.FloatLit:
		return Float{Value: d.FloatValue}
	case core.BoolLit:
		return Bool{Value: d.BoolValue}
	case core.CharLit:
		return Char{Value: d.CharValue}
	case core.StringLit:
		return String{Value: d.StrValue}
	default:
		return Void{}
	}
}

var primitiveCastWidths = map[string]struct {
	bits   uint32
	signed bool
	float  bool
}{
	"i8": {8, true, false}, "i16": {16, true, false}, "i32": {32, true, false}, "i64": {64, true, false},
	"u8": {8, false, false}, "u16": {16, false, false}, "u32": {32, false, false}, "u64": {64, false, false},
	"f32": {32, false, true}, "f64": {64, false, true},
}

func (it *Interpreter) evalCast(d core.Cast, env *Environment) (Value, error) {
	src, f, err := it.evalExpr(d.Expr, env)
	if err != nil {
		return nil, err
	}
	if f.kind != flowNone {
		return nil, &notConstant{reason: "break or continue used as a cast operand"}
	}
	named, ok := d.Type.(*syntax.NamedTypeExpr)
	if !ok {
		return src, nil // pointer/array/struct casts keep their evaluated shape
	}
	spec, ok := primitiveCastWidths[named.Name]
	if !ok {
		return src, nil // bool/char/string/any: pass through unchanged
	}
	if spec.float {
		switch v := src.(type) {
		case Int:
			val := float64(v.Value)
			if v.Signed {
				val = float64(int64(v.Value))
			}
			return Float{Bits: spec.bits, Value: clampFloat(spec.bits, val)}, nil
		case Float:
			return Float{Bits: spec.bits, Value: clampFloat(spec.bits, v.Value)}, nil
		default:
			return nil, &notConstant{reason: "cannot cast to a float type"}
		}
	}
	switch v := src.(type) {
	case Int:
		return Int{Bits: spec.bits, Signed: spec.signed, Value: truncate(spec.bits, v.Value)}, nil
	case Float:
		return Int{Bits: spec.bits, Signed: spec.signed, Value: truncate(spec.bits, uint64(v.Value))}, nil
	case Char:
		return Int{Bits: spec.bits, Signed: spec.signed, Value: truncate(spec.bits, uint64(v.Value))}, nil
	default:
		return nil, &notConstant{reason: "cannot cast to an integer type"}
	}
}

func (it *Interpreter) evalArray(d core.Array, env *Environment) (Value, flow, error) {
	items := make([]Value, 0, len(d.Items))
	for _, item := range d.Items {
		v, f, err := it.evalExpr(item, env)
		if err != nil {
			return nil, flow{}, err
		}
		if f.kind != flowNone {
			return nil, f, nil
		}
		items = append(items, v)
	}
	return Array{Items: items}, flow{}, nil
}

func (it *Interpreter) evalIndex(d core.Index, env *Environment) (Value, flow, error) {
	arrVal, f, err := it.evalExpr(d.Array, env)
	if err != nil || f.kind != flowNone {
		return nil, f, err
	}
	idxVal, f, err := it.evalExpr(d.Index, env)
	if err != nil || f.kind != flowNone {
		return nil, f, err
	}
	arr, ok := arrVal.(Array)
	if !ok {
		return nil, flow{}, &notConstant{reason: "index of a non-array value"}
	}
	idx, ok := idxVal.(Int)
	if !ok || int(idx.Value) >= len(arr.Items) {
		return nil, flow{}, &notConstant{reason: "array index out of range"}
	}
	return arr.Items[idx.Value], flow{}, nil
}

func (it *Interpreter) evalBlock(d core.Block, env *Environment) (Value, flow, error) {
	child := env.Child()
	for _, s := range d.Stmts {
		f, err := it.evalStmt(s, child)
		if err != nil {
			return nil, flow{}, err
		}
		if f.kind != flowNone {
			if f.kind == flowBreak && d.Scope != core.NoScope && f.label == d.Scope {
				val := f.value
				if val == nil {
					val = Void{}
				}
				return val, flow{}, nil
			}
			return nil, f, nil
		}
	}
	if d.Tail != nil {
		return it.evalExpr(*d.Tail, child)
	}
	return Void{}, flow{}, nil
}

func (it *Interpreter) evalIf(d core.If, env *Environment) (Value, flow, error) {
	condVal, f, err := it.evalExpr(d.Cond, env)
	if err != nil || f.kind != flowNone {
		return nil, f, err
	}
	cond, ok := condVal.(Bool)
	if !ok {
		return nil, flow{}, &notConstant{reason: "if condition did not evaluate to a bool"}
	}
	if cond.Value {
		return it.evalExpr(d.Body, env)
	}
	if d.Else != nil {
		return it.evalExpr(*d.Else, env)
	}
	return Void{}, flow{}, nil
}

func (it *Interpreter) evalWhile(d core.While, env *Environment) (Value, flow, error) {
	for {
		if d.Cond != nil {
			condVal, f, err := it.evalExpr(*d.Cond, env)
			if err != nil || f.kind != flowNone {
				return nil, f, err
			}
			cond, ok := condVal.(Bool)
			if !ok {
				return nil, flow{}, &notConstant{reason: "while condition did not evaluate to a bool"}
			}
			if !cond.Value {
				break
			}
		}
		_, f, err := it.evalExpr(d.Body, env)
		if err != nil {
			return nil, flow{}, err
		}
		if f.kind == flowBreak {
			if d.Scope != core.NoScope && f.label == d.Scope {
				val := f.value
				if val == nil {
					val = Void{}
				}
				return val, flow{}, nil
			}
			return nil, f, nil
		}
		if f.kind == flowContinue {
			if d.Scope != core.NoScope && f.label == d.Scope {
				continue
			}
			return nil, f, nil
		}
		if d.Cond == nil && f.kind == flowNone {
			// A bare `loop { ... }` with no break ever taken would spin
			// forever; comptime evaluation cannot wait on that.
			return nil, flow{}, &notConstant{reason: "loop without a cond never breaks during compile-time evaluation"}
		}
	}
	return Void{}, flow{}, nil
}

func (it *Interpreter) evalStmt(s core.StmtID, env *Environment) (flow, error) {
	node := it.Bodies.Stmt(s)
	switch d := node.Data.(type) {
	case core.ExprStmt:
		_, f, err := it.evalExpr(d.Expr, env)
		return f, err
	case core.LocalDefStmt:
		local := it.Bodies.Local(d.Local)
		v, f, err := it.evalExpr(local.Value, env)
		if err != nil || f.kind != flowNone {
			return f, err
		}
		env.Define(d.Local, v)
		return flow{}, nil
	case core.AssignStmt:
		assign := it.Bodies.Assign(d.Assign)
		v, f, err := it.evalExpr(assign.Value, env)
		if err != nil || f.kind != flowNone {
			return f, err
		}
		if err := it.assignTo(assign.Place, v, env); err != nil {
			return flow{}, err
		}
		return flow{}, nil
	case core.BreakStmt:
		var val Value
		if d.Value != nil {
			v, f, err := it.evalExpr(*d.Value, env)
			if err != nil || f.kind != flowNone {
				return f, err
			}
			val = v
		}
		return flow{kind: flowBreak, label: d.Label, value: val}, nil
	case core.ContinueStmt:
		return flow{kind: flowContinue, label: d.Label}, nil
	default:
		return flow{}, nil
	}
}

func (it *Interpreter) assignTo(place core.ExprID, value Value, env *Environment) error {
	node := it.Bodies.Expr(place)
	switch d := node.Data.(type) {
	case core.Local:
		cell, ok := env.Lookup(d.ID)
		if !ok {
			return &notConstant{reason: "assignment to an uninitialized local"}
		}
		cell.Value = value
		return nil
	case core.Deref:
		ptrVal, f, err := it.evalExpr(d.Ptr, env)
		if err != nil {
			return err
		}
		if f.kind != flowNone {
			return &notConstant{reason: "break or continue used as an assignment target"}
		}
		p, ok := ptrVal.(Pointer)
		if !ok {
			return &notConstant{reason: "assignment through a non-pointer value"}
		}
		p.Target.Value = value
		return nil
	case core.Path:
		prevVal, f, err := it.evalExpr(d.Prev, env)
		if err != nil {
			return err
		}
		if f.kind != flowNone {
			return &notConstant{reason: "break or continue used as an assignment target"}
		}
		st, ok := prevVal.(Struct)
		if !ok {
			return &notConstant{reason: "field assignment on a non-struct value"}
		}
		st.Fields[d.Field] = value
		return nil
	case core.Index:
		arrVal, f, err := it.evalExpr(d.Array, env)
		if err != nil {
			return err
		}
		if f.kind != flowNone {
			return &notConstant{reason: "break or continue used as an assignment target"}
		}
		arr, ok := arrVal.(Array)
		if !ok {
			return &notConstant{reason: "index assignment on a non-array value"}
		}
		idxVal, f, err := it.evalExpr(d.Index, env)
		if err != nil {
			return err
		}
		if f.kind != flowNone {
			return &notConstant{reason: "break or continue used as an array index"}
		}
		idx, ok := idxVal.(Int)
		if !ok || int(idx.Value) >= len(arr.Items) {
			return &notConstant{reason: "array index out of range"}
		}
		arr.Items[idx.Value] = value
		return nil
	default:
		return &notConstant{reason: "unsupported assignment target"}
	}
}

func (it *Interpreter) evalCall(d core.Call, env *Environment) (Value, error) {
	calleeVal, f, err := it.evalExpr(d.Callee, env)
	if err != nil {
		return nil, err
	}
	if f.kind != flowNone {
		return nil, &notConstant{reason: "break or continue used as a call target"}
	}
	fn, ok := calleeVal.(Function)
	if !ok {
		return nil, &notConstant{reason: "call to a non-function value"}
	}
	lam := it.Bodies.Lambda(fn.Lambda)
	if lam.IsExtern {
		return nil, &externCall{name: "<extern>"}
	}

	args := make([]Value, 0, len(d.Args))
	for _, a := range d.Args {
		v, f, err := it.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		if f.kind != flowNone {
			return nil, &notConstant{reason: "break or continue used as a call argument"}
		}
		args = append(args, v)
	}

	it.paramStack = append(it.paramStack, args)
	v, f, err := it.evalExpr(lam.Body, fn.Env.Child())
	it.paramStack = it.paramStack[:len(it.paramStack)-1]
	if err != nil {
		return nil, err
	}
	if f.kind != flowNone {
		// A bare `return` escaping the outer block's scope check means
		// something was miswired at lowering; fall back to its value.
		if f.value != nil {
			return f.value, nil
		}
		return Void{}, nil
	}
	return v, nil
}

func (it *Interpreter) evalPath(d core.Path, env *Environment) (Value, error) {
	prevVal, f, err := it.evalExpr(d.Prev, env)
	if err != nil {
		return nil, err
	}
	if f.kind != flowNone {
		return nil, &notConstant{reason: "break or continue used as a path target"}
	}
	switch prev := prevVal.(type) {
	case Struct:
		v, ok := prev.Fields[d.Field]
		if !ok {
			return nil, &notConstant{reason: fmt.Sprintf("struct has no field '%s'", it.Names.String(uint32(d.Field)))}
		}
		return v, nil
	case FileRef:
		if it.CrossFile == nil {
			return nil, &notConstant{reason: "no cross-file value resolver configured"}
		}
		v, ok := it.CrossFile(prev.File, d.Field)
		if !ok {
			return nil, &notConstant{reason: fmt.Sprintf("'%s' has no compile-time known value", it.Names.String(uint32(d.Field)))}
		}
		return v, nil
	default:
		return nil, &notConstant{reason: "path access on a value with no fields"}
	}
}

func (it *Interpreter) evalStructLiteral(d core.StructLiteral, env *Environment) (Value, error) {
	fields := make(map[intern.Name]Value, len(d.Order))
	for _, name := range d.Order {
		v, f, err := it.evalExpr(d.Fields[name], env)
		if err != nil {
			return nil, err
		}
		if f.kind != flowNone {
			return nil, &notConstant{reason: "break or continue used as a struct field value"}
		}
		fields[name] = v
	}
	return Struct{Fields: fields, Order: append([]intern.Name(nil), d.Order...)}, nil
}
