// Package syntax defines the data contract between the external
// lexer/parser and the semantic middle end (spec §6: "Driver ->
// Parser"). It is deliberately data-only: no lexing or parsing
// algorithm lives here. The indexer and lowerer only ever read a
// *syntax.Tree through the accessors below; how that tree was built
// (hand-constructed in a test, or produced by a real parser) is not
// this package's concern.
package syntax

// Pos is a byte offset plus line/column into one source file, mirroring
// the position information an external parser would attach to every
// token.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

// Range is a start/end pair of positions. Every lowered expression
// carries one (spec §3: "Each expression carries a source range").
type Range struct {
	Start Pos
	End   Pos
}

// Tree is the root of one parsed file: a flat list of top-level
// definitions plus the syntax errors the parser already recovered
// from (forwarded to diagnostics, spec §6).
type Tree struct {
	Path   string
	Defs   []*Definition
	Errors []SyntaxError
}

// SyntaxError is a parser-level error forwarded verbatim into the
// diagnostic bus.
type SyntaxError struct {
	Message string
	Range   Range
}

// BindKind distinguishes the immutable `::` binding form from the
// mutable `:=` form at the top level (spec §4.1).
type BindKind int

const (
	BindConst BindKind = iota // `name :: value`
	BindVar                   // `name := value` (diagnostic at root)
)

// Definition is one top-level `name :: value` or `name := value`.
type Definition struct {
	Name  string
	Bind  BindKind
	Value Expr
	Range Range
	// NameRange is just the range of the identifier token, used for
	// "already defined" diagnostics that should point at the name and
	// not the whole definition.
	NameRange Range
}

// TypeExpr is a parsed-but-unresolved type annotation, as produced by
// the parser before the indexer or lowerer has resolved it against
// the interner/type table.
type TypeExpr interface {
	typeExpr()
	Range() Range
}

type baseTypeExpr struct{ Rng Range }

func (baseTypeExpr) typeExpr()         {}
func (b baseTypeExpr) Range() Range    { return b.Rng }

// NamedTypeExpr is a bare identifier used as a type, e.g. `i32`,
// `MyStruct`, or a same-file `distinct` name.
type NamedTypeExpr struct {
	baseTypeExpr
	Name string
}

// PointerTypeExpr is `^T` or `^mut T`.
type PointerTypeExpr struct {
	baseTypeExpr
	Mutable bool
	Sub     TypeExpr
}

// ArrayTypeExpr is `[N]T` (Size nil means the size is inferred from an
// array literal's item count).
type ArrayTypeExpr struct {
	baseTypeExpr
	Size *int64
	Sub  TypeExpr
}

// StructTypeExpr is an inline `struct { field: T, ... }` annotation.
type StructTypeExpr struct {
	baseTypeExpr
	Fields []FieldTypeExpr
}

// FieldTypeExpr is one field of a struct type annotation.
type FieldTypeExpr struct {
	Name string
	Type TypeExpr
}

// NewNamedTypeExpr, NewPointerTypeExpr, NewArrayTypeExpr, and
// NewStructTypeExpr are the constructors tests use to hand-build a
// parsed tree, standing in for what a real parser would emit.
func NewNamedTypeExpr(name string, rng Range) *NamedTypeExpr {
	return &NamedTypeExpr{baseTypeExpr{rng}, name}
}

func NewPointerTypeExpr(mutable bool, sub TypeExpr, rng Range) *PointerTypeExpr {
	return &PointerTypeExpr{baseTypeExpr{rng}, mutable, sub}
}

func NewArrayTypeExpr(size *int64, sub TypeExpr, rng Range) *ArrayTypeExpr {
	return &ArrayTypeExpr{baseTypeExpr{rng}, size, sub}
}

func NewStructTypeExpr(fields []FieldTypeExpr, rng Range) *StructTypeExpr {
	return &StructTypeExpr{baseTypeExpr{rng}, fields}
}
