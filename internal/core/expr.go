package core

import (
	"github.com/capy-lang/capy/internal/intern"
	"github.com/capy-lang/capy/internal/syntax"
)

// ExprData is the payload of one arena-allocated expression node. It
// mirrors the surface syntax.Expr variants one-for-one but references
// children by ExprID into the same file's arena instead of by pointer
// (spec §3).
type ExprData interface {
	exprData()
}

// Node is one entry of the Expr arena: a range plus its variant data.
type Node struct {
	Range syntax.Range
	Data  ExprData
}

type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	BoolLit
	CharLit
	StringLit
)

type Lit struct {
	Kind       LitKind
	IntValue   uint64
	FloatValue float64
	BoolValue  bool
	CharValue  byte
	StrValue   string
}

func (Lit) exprData() {}

// Local references a LocalDef by id (a resolved local variable use).
type Local struct{ ID LocalID }

func (Local) exprData() {}

// LocalGlobal references a same-file top-level definition by name.
type LocalGlobal struct{ Name intern.Name }

func (LocalGlobal) exprData() {}

// Param references a function parameter by positional index.
type Param struct{ Idx int }

func (Param) exprData() {}

// PrimitiveTyRef is a bare reference to a primitive type used as a value
// (e.g. `i32` appearing where an expression is expected, whose type is
// `Type`).
type PrimitiveTyRef struct{ Type syntax.TypeExpr }

func (PrimitiveTyRef) exprData() {}

// Unresolved marks a name that failed to resolve to anything (a
// diagnostic was already emitted by the lowerer).
type Unresolved struct{ Name string }

func (Unresolved) exprData() {}

type Cast struct {
	Expr ExprID
	Type syntax.TypeExpr
}

func (Cast) exprData() {}

type Ref struct {
	Mutable bool
	Expr    ExprID
}

func (Ref) exprData() {}

type Deref struct{ Ptr ExprID }

func (Deref) exprData() {}

type Binary struct {
	Lhs, Rhs ExprID
	Op       syntax.BinaryOp
}

func (Binary) exprData() {}

type Unary struct {
	Expr ExprID
	Op   syntax.UnaryOp
}

func (Unary) exprData() {}

// Array is `[size?]T{items?}`; Size is nil when inferred from Items,
// Items is nil for a type-only array value (spec §3).
type Array struct {
	Size  *uint64
	Type  syntax.TypeExpr
	Items []ExprID
}

func (Array) exprData() {}

type Index struct {
	Array ExprID
	Index ExprID
}

func (Index) exprData() {}

// Block is a labellable block expression; Scope is NoScope unless a
// break/continue actually targets it.
type Block struct {
	Scope ScopeID
	Stmts []StmtID
	Tail  *ExprID
}

func (Block) exprData() {}

type If struct {
	Cond ExprID
	Body ExprID // always a Block
	Else *ExprID
}

func (If) exprData() {}

// While covers both `while cond { }` and bare `loop { }` (Cond nil).
type While struct {
	Scope ScopeID
	Cond  *ExprID
	Body  ExprID // always a Block
}

func (While) exprData() {}

type Call struct {
	Callee ExprID
	Args   []ExprID
}

func (Call) exprData() {}

type Path struct {
	Prev  ExprID
	Field intern.Name
}

func (Path) exprData() {}

type LambdaExpr struct{ Lambda LambdaID }

func (LambdaExpr) exprData() {}

type ComptimeRef struct{ Comptime ComptimeID }

func (ComptimeRef) exprData() {}

type DistinctExpr struct {
	Uid   uint32
	Inner syntax.TypeExpr
}

func (DistinctExpr) exprData() {}

type StructDecl struct {
	Uid    uint32
	Fields []syntax.FieldTypeExpr
}

func (StructDecl) exprData() {}

type StructLiteral struct {
	Type   syntax.TypeExpr // nil if inferred from context
	Fields map[intern.Name]ExprID
	Order  []intern.Name
}

func (StructLiteral) exprData() {}

type Import struct{ File intern.FileName }

func (Import) exprData() {}

// Lambda is the body of a function value: its own scope of
// parameters and locals, lowered independently (no implicit capture,
// spec §4.2).
type Lambda struct {
	Params   []LambdaParam
	RetType  syntax.TypeExpr
	Body     ExprID // a Block, empty for extern
	IsExtern bool
	Range    syntax.Range
}

type LambdaParam struct {
	Name intern.Name // zero value (Name(0)) permitted for unnamed, tracked via HasName
	HasName bool
	Type syntax.TypeExpr
}

// Comptime is the body of one `comptime { ... }` expression.
type Comptime struct {
	Body  ExprID // a Block
	Range syntax.Range
}
