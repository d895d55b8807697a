// Package types implements Capy's structural/nominal type universe
// (spec §3: "Types (Ty)"), a hash-consed table over it, and the
// max/fit/cast rules the inference engine (internal/infer) drives
// unification with (spec §4.3).
package types

import (
	"fmt"
	"strings"

	"github.com/capy-lang/capy/internal/intern"
)

// PointerWidth is the sentinel bit-width meaning "pointer sized" for
// both IInt and UInt (spec §3: "Bit-width u32::MAX means pointer-
// sized", carried from the original Rust implementation's
// isize/usize).
const PointerWidth = ^uint32(0)

// Kind tags the variant of a Ty so callers can switch without a type
// assertion chain.
type Kind int

const (
	KBool Kind = iota
	KChar
	KString
	KVoid
	KType
	KAny
	KFile
	KIInt
	KUInt
	KFloat
	KArray
	KPointer
	KFunction
	KStruct
	KDistinct
	KUnknown
	KNotYetResolved
)

// Ty is the common interface every type variant implements. Structural
// types (primitives, numerics, arrays, pointers, functions) are
// hash-consed by Table so that structural equality is pointer
// equality; Struct and Distinct are identified by Uid instead (spec
// §3, §9).
type Ty interface {
	Kind() Kind
	String() string
}

// Fqn is a fully qualified name: a top-level definition's file plus
// its interned name (spec §3).
type Fqn struct {
	File intern.FileName
	Name intern.Name
}

// --- primitives ---

type TBool struct{}

func (TBool) Kind() Kind     { return KBool }
func (TBool) String() string { return "bool" }

type TChar struct{}

func (TChar) Kind() Kind     { return KChar }
func (TChar) String() string { return "char" }

type TString struct{}

func (TString) Kind() Kind     { return KString }
func (TString) String() string { return "string" }

type TVoid struct{}

func (TVoid) Kind() Kind     { return KVoid }
func (TVoid) String() string { return "void" }

// TType is the type of compile-time type values (`Type` itself is a
// first-class value in Capy).
type TType struct{}

func (TType) Kind() Kind     { return KType }
func (TType) String() string { return "type" }

type TAny struct{}

func (TAny) Kind() Kind     { return KAny }
func (TAny) String() string { return "any" }

// TFile is the type of an `import` expression's value.
type TFile struct {
	Name intern.FileName
}

func (TFile) Kind() Kind     { return KFile }
func (t TFile) String() string { return fmt.Sprintf("file(%d)", t.Name) }

// --- numerics ---

// TIInt is a signed integer type. Width 0 is the weak "any signed
// integer" type; PointerWidth means `isize`.
type TIInt struct{ Width uint32 }

func (TIInt) Kind() Kind { return KIInt }
func (t TIInt) String() string {
	if t.Width == 0 {
		return "{integer}"
	}
	if t.Width == PointerWidth {
		return "isize"
	}
	return fmt.Sprintf("i%d", t.Width)
}

func (t TIInt) IsWeak() bool { return t.Width == 0 }

// TUInt is an unsigned integer type; same width conventions as TIInt.
type TUInt struct{ Width uint32 }

func (TUInt) Kind() Kind { return KUInt }
func (t TUInt) String() string {
	if t.Width == 0 {
		return "{integer}"
	}
	if t.Width == PointerWidth {
		return "usize"
	}
	return fmt.Sprintf("u%d", t.Width)
}

func (t TUInt) IsWeak() bool { return t.Width == 0 }

// TFloat is a float type. Width 0 is weak; legal strong widths are 32
// and 64.
type TFloat struct{ Width uint32 }

func (TFloat) Kind() Kind { return KFloat }
func (t TFloat) String() string {
	if t.Width == 0 {
		return "{float}"
	}
	return fmt.Sprintf("f%d", t.Width)
}

func (t TFloat) IsWeak() bool { return t.Width == 0 }

// --- structural ---

type TArray struct {
	Size uint64
	Sub  Ty
}

func (TArray) Kind() Kind { return KArray }
func (t TArray) String() string {
	return fmt.Sprintf("[%d]%s", t.Size, t.Sub.String())
}

type TPointer struct {
	Mutable bool
	Sub     Ty
}

func (TPointer) Kind() Kind { return KPointer }
func (t TPointer) String() string {
	if t.Mutable {
		return "^mut " + t.Sub.String()
	}
	return "^" + t.Sub.String()
}

type TFunction struct {
	Params []Ty
	Return Ty
}

func (TFunction) Kind() Kind { return KFunction }
func (t TFunction) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Return.String())
}

// Field is one ordered (name, type) pair of a struct.
type Field struct {
	Name intern.Name
	Type Ty
}

// TStruct has identity by Uid, not by its field list (spec §3: "Struct
// types are identified by their uid, assigned once at declaration").
type TStruct struct {
	Uid    uint32
	Fqn    *Fqn
	Fields []Field
}

func (TStruct) Kind() Kind { return KStruct }
func (t TStruct) String() string {
	if t.Fqn != nil {
		return fmt.Sprintf("struct#%d", t.Uid)
	}
	return fmt.Sprintf("struct#%d", t.Uid)
}

// FieldByName returns the field with the given interned name, if any.
func (t TStruct) FieldByName(name intern.Name) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// TDistinct wraps another type but carries its own identity via Uid
// (spec §3, §4.3: "Two distinct types are equal iff their uids
// match, regardless of inner structure").
type TDistinct struct {
	Uid   uint32
	Fqn   *Fqn
	Inner Ty
}

func (TDistinct) Kind() Kind { return KDistinct }
func (t TDistinct) String() string {
	return fmt.Sprintf("distinct#%d", t.Uid)
}

// --- sentinels ---

// TUnknown marks a value whose type could not be determined because
// of an earlier error (spec §7: "Every error-producing site replaces
// the affected value with Unknown/Missing").
type TUnknown struct{}

func (TUnknown) Kind() Kind     { return KUnknown }
func (TUnknown) String() string { return "<unknown>" }

// TNotYetResolved is a placeholder used only transiently during
// inference before an expression's type has been determined.
type TNotYetResolved struct{}

func (TNotYetResolved) Kind() Kind     { return KNotYetResolved }
func (TNotYetResolved) String() string { return "<not yet resolved>" }

// AsStruct returns the field list of t if t is a struct, unwrapping
// through any number of Distinct layers (supplemented from the
// original Rust implementation's Ty::as_struct, see SPEC_FULL.md §4).
func AsStruct(t Ty) (TStruct, bool) {
	switch v := t.(type) {
	case TStruct:
		return v, true
	case TDistinct:
		return AsStruct(v.Inner)
	default:
		return TStruct{}, false
	}
}

// AsFunction returns the signature of t if t is a function type,
// unwrapping through Distinct.
func AsFunction(t Ty) (TFunction, bool) {
	switch v := t.(type) {
	case TFunction:
		return v, true
	case TDistinct:
		return AsFunction(v.Inner)
	default:
		return TFunction{}, false
	}
}

// AsPointer returns the pointee of t if t is a pointer type,
// unwrapping through Distinct.
func AsPointer(t Ty) (TPointer, bool) {
	switch v := t.(type) {
	case TPointer:
		return v, true
	case TDistinct:
		return AsPointer(v.Inner)
	default:
		return TPointer{}, false
	}
}

// Equals reports deep structural equality. Structural types interned
// through the same Table are also pointer-identical, but Equals is
// provided so types built outside a Table (tests, fixtures) still
// compare correctly.
func Equals(a, b Ty) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case TBool, TChar, TString, TVoid, TType, TAny, TUnknown, TNotYetResolved:
		return true
	case TFile:
		return av.Name == b.(TFile).Name
	case TIInt:
		return av.Width == b.(TIInt).Width
	case TUInt:
		return av.Width == b.(TUInt).Width
	case TFloat:
		return av.Width == b.(TFloat).Width
	case TArray:
		bv := b.(TArray)
		return av.Size == bv.Size && Equals(av.Sub, bv.Sub)
	case TPointer:
		bv := b.(TPointer)
		return av.Mutable == bv.Mutable && Equals(av.Sub, bv.Sub)
	case TFunction:
		bv := b.(TFunction)
		if len(av.Params) != len(bv.Params) || !Equals(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !Equals(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case TStruct:
		return av.Uid == b.(TStruct).Uid
	case TDistinct:
		return av.Uid == b.(TDistinct).Uid
	default:
		return false
	}
}
