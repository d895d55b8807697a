package types

import "sync"

// Table hash-conses structural types so that two structurally
// identical non-distinct types share one representative (spec §3,
// §9). Struct and Distinct are never interned here — their identity
// comes from their Uid, assigned once by the caller (indexer/lowerer)
// at declaration.
type Table struct {
	mu   sync.Mutex
	pool map[string]Ty
}

// NewTable creates an empty type table for one compilation session.
func NewTable() *Table {
	return &Table{pool: make(map[string]Ty)}
}

func (t *Table) intern(key string, make func() Ty) Ty {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ty, ok := t.pool[key]; ok {
		return ty
	}
	ty := make()
	t.pool[key] = ty
	return ty
}

// Bool, Char, String, Void, TypeVal, Any return the single shared
// representative for each nullary primitive.
func (t *Table) Bool() Ty   { return t.intern("bool", func() Ty { return TBool{} }) }
func (t *Table) Char() Ty   { return t.intern("char", func() Ty { return TChar{} }) }
func (t *Table) String() Ty { return t.intern("string", func() Ty { return TString{} }) }
func (t *Table) Void() Ty   { return t.intern("void", func() Ty { return TVoid{} }) }
func (t *Table) TypeVal() Ty { return t.intern("type", func() Ty { return TType{} }) }
func (t *Table) Any() Ty    { return t.intern("any", func() Ty { return TAny{} }) }
func (t *Table) Unknown() Ty { return t.intern("unknown", func() Ty { return TUnknown{} }) }
func (t *Table) NotYetResolved() Ty {
	return t.intern("nyr", func() Ty { return TNotYetResolved{} })
}

// File returns the shared representative for the type of an import of
// the given file.
func (t *Table) File(name uint32) Ty {
	return t.intern(keyFile(name), func() Ty { return TFile{Name: fileNameOf(name)} })
}

// IInt, UInt, Float return the shared representative for a numeric
// type of the given bit width (0 = weak).
func (t *Table) IInt(width uint32) Ty {
	return t.intern(keyNum("i", width), func() Ty { return TIInt{Width: width} })
}

func (t *Table) UInt(width uint32) Ty {
	return t.intern(keyNum("u", width), func() Ty { return TUInt{Width: width} })
}

func (t *Table) Float(width uint32) Ty {
	return t.intern(keyNum("f", width), func() Ty { return TFloat{Width: width} })
}

// Array returns the shared representative for [size]sub.
func (t *Table) Array(size uint64, sub Ty) Ty {
	return t.intern(keyArray(size, sub), func() Ty { return TArray{Size: size, Sub: sub} })
}

// Pointer returns the shared representative for ^sub or ^mut sub.
func (t *Table) Pointer(mutable bool, sub Ty) Ty {
	return t.intern(keyPointer(mutable, sub), func() Ty { return TPointer{Mutable: mutable, Sub: sub} })
}

// Function returns the shared representative for (params) -> ret.
func (t *Table) Function(params []Ty, ret Ty) Ty {
	return t.intern(keyFunction(params, ret), func() Ty {
		cp := make([]Ty, len(params))
		copy(cp, params)
		return TFunction{Params: cp, Return: ret}
	})
}

// Struct constructs a fresh struct type. Every call yields a distinct
// value unless the caller supplies the same uid (declarations allocate
// a uid exactly once, spec §3).
func (t *Table) Struct(uid uint32, fqn *Fqn, fields []Field) Ty {
	return TStruct{Uid: uid, Fqn: fqn, Fields: fields}
}

// Distinct constructs a fresh distinct type wrapping inner.
func (t *Table) Distinct(uid uint32, fqn *Fqn, inner Ty) Ty {
	return TDistinct{Uid: uid, Fqn: fqn, Inner: inner}
}
