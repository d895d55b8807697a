package types

// PointerSize and PointerAlign are the size/alignment of a pointer
// value and of pointer-width numerics (spec §4.3: "Pointer
// size/alignment = target pointer width"). 8 matches a 64-bit target,
// the only width the backend in this spec is expected to produce.
const PointerSize = 8

// Layout describes the byte size and alignment of a type.
type Layout struct {
	Size  uint64
	Align uint64
}

// SizeAndAlign computes the natural-alignment layout of t: each field
// is placed at the next multiple of its own alignment, and the
// struct's total size is padded to its own alignment, which is the
// max of its fields' alignments (spec §4.3 "Struct layout").
func SizeAndAlign(t Ty) Layout {
	switch v := t.(type) {
	case TBool, TChar:
		return Layout{Size: 1, Align: 1}
	case TVoid:
		return Layout{Size: 0, Align: 1}
	case TString, TAny:
		return Layout{Size: PointerSize, Align: PointerSize}
	case TType, TFile:
		return Layout{Size: PointerSize, Align: PointerSize}
	case TIInt:
		return scalarLayout(v.Width)
	case TUInt:
		return scalarLayout(v.Width)
	case TFloat:
		return scalarLayout(v.Width)
	case TPointer:
		return Layout{Size: PointerSize, Align: PointerSize}
	case TArray:
		sub := SizeAndAlign(v.Sub)
		return Layout{Size: alignUp(sub.Size, sub.Align) * v.Size, Align: sub.Align}
	case TDistinct:
		return SizeAndAlign(v.Inner)
	case TStruct:
		return structLayout(v)
	default:
		return Layout{Size: 0, Align: 1}
	}
}

func scalarLayout(width uint32) Layout {
	switch width {
	case PointerWidth:
		return Layout{Size: PointerSize, Align: PointerSize}
	case 0:
		// Weak literal: callers must default it before asking for a
		// layout; treat as the default strong width to stay well
		// defined rather than panic.
		return Layout{Size: 4, Align: 4}
	default:
		bytes := uint64(width) / 8
		if bytes == 0 {
			bytes = 1
		}
		return Layout{Size: bytes, Align: bytes}
	}
}

func structLayout(s TStruct) Layout {
	var offset, maxAlign uint64 = 0, 1
	for _, f := range s.Fields {
		fl := SizeAndAlign(f.Type)
		if fl.Align > maxAlign {
			maxAlign = fl.Align
		}
		offset = alignUp(offset, fl.Align) + fl.Size
	}
	return Layout{Size: alignUp(offset, maxAlign), Align: maxAlign}
}

// FieldOffsets returns the byte offset of every field of s, in
// declaration order, per the same natural-alignment rule SizeAndAlign
// uses.
func FieldOffsets(s TStruct) []uint64 {
	offsets := make([]uint64, len(s.Fields))
	var offset uint64
	for i, f := range s.Fields {
		fl := SizeAndAlign(f.Type)
		offset = alignUp(offset, fl.Align)
		offsets[i] = offset
		offset += fl.Size
	}
	return offsets
}

func alignUp(n, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}
