package types

// Max computes the least-upper-bound of two numeric (or numeric-like)
// types, used to type binary expressions and weak-literal unification
// (spec §4.3 "Max operator"). The second return value is false when no
// upper bound exists (a type error).
func Max(t *Table, a, b Ty) (Ty, bool) {
	// Distinct absorbs: max(D, T) = D iff D.has_semantics_of(T).
	if ad, ok := a.(TDistinct); ok {
		if HasSemanticsOf(ad, b) {
			return ad, true
		}
		return nil, false
	}
	if bd, ok := b.(TDistinct); ok {
		if HasSemanticsOf(bd, a) {
			return bd, true
		}
		return nil, false
	}

	if _, ok := a.(TUnknown); ok {
		return b, true
	}
	if _, ok := b.(TUnknown); ok {
		return a, true
	}

	switch av := a.(type) {
	case TUInt:
		switch bv := b.(type) {
		case TUInt:
			return t.UInt(maxWidth(av.Width, bv.Width)), true
		case TIInt:
			return maxIntUint(t, bv, av)
		case TFloat:
			return maxIntFloat(t, av, av.IsWeak(), bv)
		}
	case TIInt:
		switch bv := b.(type) {
		case TIInt:
			return t.IInt(maxWidth(av.Width, bv.Width)), true
		case TUInt:
			return maxIntUint(t, av, bv)
		case TFloat:
			return maxIntFloat(t, av, av.IsWeak(), bv)
		}
	case TFloat:
		switch bv := b.(type) {
		case TFloat:
			return t.Float(maxWidth(av.Width, bv.Width)), true
		case TIInt:
			return maxIntFloat(t, bv, bv.IsWeak(), av)
		case TUInt:
			return maxIntFloat(t, bv, bv.IsWeak(), av)
		}
	}

	if Equals(a, b) {
		return a, true
	}
	return nil, false
}

func maxWidth(a, b uint32) uint32 {
	if a == PointerWidth || b == PointerWidth {
		return PointerWidth
	}
	if a > b {
		return a
	}
	return b
}

// maxIntUint handles `(IInt s, UInt u)`: succeeds only if s strictly
// exceeds u, weak sides defaulting per spec.
func maxIntUint(t *Table, signed TIInt, unsigned TUInt) (Ty, bool) {
	if signed.IsWeak() && unsigned.IsWeak() {
		return t.IInt(0), true
	}
	if signed.IsWeak() {
		return t.IInt(unsigned.Width), true
	}
	if unsigned.IsWeak() {
		return t.IInt(signed.Width), true
	}
	if widthGreater(signed.Width, unsigned.Width) {
		return t.IInt(signed.Width), true
	}
	return nil, false
}

func widthGreater(s, u uint32) bool {
	if s == PointerWidth {
		return u != PointerWidth
	}
	if u == PointerWidth {
		return false
	}
	return s > u
}

// maxIntFloat mixes an integer side with a float side per spec:
// "if the integer side is weak it becomes Float(w); if strong, only if
// its bit width is smaller than the float's, and produce
// Float(max(2*int_width, 32)) when float side is weak".
func maxIntFloat(t *Table, intTy interface{ Kind() Kind }, intWeak bool, floatTy TFloat) (Ty, bool) {
	intWidth := numericWidth(intTy)
	if floatTy.IsWeak() {
		w := intWidth * 2
		if w < 32 {
			w = 32
		}
		if intWeak {
			w = 32
		}
		return t.Float(w), true
	}
	if intWeak {
		return t.Float(floatTy.Width), true
	}
	if intWidth != PointerWidth && intWidth < floatTy.Width {
		return t.Float(floatTy.Width), true
	}
	return nil, false
}

func numericWidth(ty interface{ Kind() Kind }) uint32 {
	switch v := ty.(type) {
	case TIInt:
		return v.Width
	case TUInt:
		return v.Width
	default:
		return 0
	}
}

// HasSemanticsOf reports whether distinct type d can stand in for t in
// a Max computation — true when t is a distinct with d's uid, when t
// equals d's inner type, or when t is a numeric type of the same family
// (signed, unsigned or float, any width) as d's inner type. A distinct
// nested inside d is not unwrapped.
func HasSemanticsOf(d TDistinct, t Ty) bool {
	if td, ok := t.(TDistinct); ok {
		return d.Uid == td.Uid
	}
	return sameNumericFamily(d.Inner, t) || Equals(d.Inner, t)
}

func sameNumericFamily(inner, t Ty) bool {
	switch inner.(type) {
	case TIInt:
		_, ok := t.(TIInt)
		return ok
	case TUInt:
		_, ok := t.(TUInt)
		return ok
	case TFloat:
		_, ok := t.(TFloat)
		return ok
	default:
		return false
	}
}

// CanFitInto implements the `can_fit_into(found, expected)` relation
// that governs assignment and argument passing (spec §4.3).
func CanFitInto(found, expected Ty) bool {
	if fd, ok := found.(TDistinct); ok {
		if ed, ok := expected.(TDistinct); ok {
			return fd.Uid == ed.Uid
		}
		return false
	}
	if _, ok := expected.(TDistinct); ok {
		return false
	}

	switch fv := found.(type) {
	case TUInt:
		ev, ok := expected.(TUInt)
		if !ok {
			return false
		}
		return widthFits(fv.Width, ev.Width)
	case TIInt:
		switch ev := expected.(type) {
		case TIInt:
			return widthFits(fv.Width, ev.Width)
		case TUInt:
			return fv.IsWeak() && ev.Width == 0
		}
		return false
	case TFloat:
		ev, ok := expected.(TFloat)
		if !ok {
			return false
		}
		return widthFits(fv.Width, ev.Width)
	case TPointer:
		ev, ok := expected.(TPointer)
		if !ok {
			return false
		}
		if _, isAny := ev.Sub.(TAny); isAny {
			if !ev.Mutable || fv.Mutable {
				return true
			}
			return false
		}
		if ev.Mutable && !fv.Mutable {
			return false
		}
		return CanFitInto(fv.Sub, ev.Sub)
	case TArray:
		ev, ok := expected.(TArray)
		if !ok {
			return false
		}
		return fv.Size == ev.Size && CanFitInto(fv.Sub, ev.Sub)
	case TStruct:
		ev, ok := expected.(TStruct)
		return ok && fv.Uid == ev.Uid
	default:
		return Equals(found, expected)
	}
}

// widthFits reports whether a value of bit width `found` can widen
// into bit width `expected` of the same signedness family (weak, i.e.
// 0, fits anywhere; PointerWidth only fits PointerWidth or is itself
// the accepting side).
func widthFits(found, expected uint32) bool {
	if found == 0 {
		return true
	}
	if found == expected {
		return true
	}
	if expected == PointerWidth {
		return true
	}
	if found == PointerWidth {
		return false
	}
	return found < expected
}

// CanCast implements the `as` cast rules (spec §4.3).
func CanCast(found, target Ty) bool {
	isPrimNumericLike := func(t Ty) bool {
		switch t.(type) {
		case TBool, TIInt, TUInt, TFloat, TChar:
			return true
		}
		return false
	}
	f, t := found, target
	if fd, ok := f.(TDistinct); ok {
		f = fd.Inner
	}
	if td, ok := t.(TDistinct); ok {
		t = td.Inner
	}

	if isPrimNumericLike(f) && isPrimNumericLike(t) {
		return true
	}
	if _, ok := f.(TPointer); ok {
		if _, ok := t.(TPointer); ok {
			// `as` is explicit, so pointer<->pointer casts (including
			// narrowing mutability) are always permitted; the implicit
			// mutability-covariance rule only gates CanFitInto.
			return true
		}
	}
	if isStringOrBytePointer(f) && isStringOrBytePointer(t) {
		return true
	}
	if fs, ok := AsStruct(f); ok {
		if ts, ok := AsStruct(t); ok {
			return structFieldsMatch(fs, ts)
		}
	}
	return false
}

func isStringOrBytePointer(t Ty) bool {
	if _, ok := t.(TString); ok {
		return true
	}
	if p, ok := t.(TPointer); ok {
		switch p.Sub.(type) {
		case TChar, TAny:
			return true
		case TUInt:
			return p.Sub.(TUInt).Width == 8
		}
	}
	return false
}

func structFieldsMatch(a, b TStruct) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name {
			return false
		}
		if !Equals(a.Fields[i].Type, b.Fields[i].Type) {
			return false
		}
	}
	return true
}
