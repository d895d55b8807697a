package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashConsingSharesRepresentative(t *testing.T) {
	tbl := NewTable()
	a := tbl.IInt(32)
	b := tbl.IInt(32)
	assert.Equal(t, a, b, "expected hash-consed i32 to be the same value")

	arrA := tbl.Array(3, tbl.IInt(32))
	arrB := tbl.Array(3, tbl.IInt(32))
	assert.Equal(t, arrA, arrB, "expected hash-consed [3]i32 to share a representative")
}

func TestStructIdentityByUid(t *testing.T) {
	tbl := NewTable()
	fields := []Field{{Name: 1, Type: tbl.IInt(32)}}
	s1 := tbl.Struct(1, nil, fields)
	s2 := tbl.Struct(2, nil, fields)
	assert.False(t, Equals(s1, s2), "structs with different uids must not be equal even with identical fields")

	s3 := tbl.Struct(1, nil, nil)
	assert.True(t, Equals(s1, s3), "structs with the same uid must be equal regardless of field list")
}

func TestDistinctIdentityByUid(t *testing.T) {
	tbl := NewTable()
	d1 := tbl.Distinct(1, nil, tbl.IInt(32))
	d2 := tbl.Distinct(2, nil, tbl.IInt(32))
	assert.False(t, Equals(d1, d2), "distincts with different uids must not be equal")
}

func TestMaxUIntUInt(t *testing.T) {
	tbl := NewTable()
	got, ok := Max(tbl, tbl.UInt(8), tbl.UInt(32))
	require.True(t, ok)
	assert.True(t, Equals(got, tbl.UInt(32)), "expected max(u8,u32)=u32, got %v", got)
}

func TestMaxSignedUnsignedRequiresStrictlyLarger(t *testing.T) {
	tbl := NewTable()
	_, ok := Max(tbl, tbl.IInt(32), tbl.UInt(32))
	assert.False(t, ok, "i32/u32 should not have a max (not strictly larger)")

	got, ok := Max(tbl, tbl.IInt(64), tbl.UInt(32))
	require.True(t, ok)
	assert.True(t, Equals(got, tbl.IInt(64)), "expected max(i64,u32)=i64, got %v", got)
}

func TestMaxWeakIntWithFloat(t *testing.T) {
	tbl := NewTable()
	got, ok := Max(tbl, tbl.UInt(0), tbl.Float(64))
	require.True(t, ok)
	assert.True(t, Equals(got, tbl.Float(64)), "expected weak int + f64 => f64, got %v", got)
}

func TestMaxDistinctAbsorbs(t *testing.T) {
	tbl := NewTable()
	d := tbl.Distinct(1, nil, tbl.IInt(32))
	got, ok := Max(tbl, d, tbl.IInt(0))
	require.True(t, ok)
	assert.True(t, Equals(got, d), "expected distinct to absorb weak compatible operand, got %v", got)
}

func TestCanFitIntoWidening(t *testing.T) {
	tbl := NewTable()
	assert.True(t, CanFitInto(tbl.UInt(8), tbl.UInt(32)), "u8 should widen into u32")
	assert.False(t, CanFitInto(tbl.UInt(32), tbl.UInt(8)), "u32 should not narrow into u8")
	assert.False(t, CanFitInto(tbl.IInt(32), tbl.UInt(32)), "signed should not fit into unsigned implicitly")
}

func TestCanFitIntoPointerMutability(t *testing.T) {
	tbl := NewTable()
	mutPtr := tbl.Pointer(true, tbl.IInt(32))
	constPtr := tbl.Pointer(false, tbl.IInt(32))
	assert.True(t, CanFitInto(mutPtr, constPtr), "mut pointer should fit into const pointer")
	assert.False(t, CanFitInto(constPtr, mutPtr), "const pointer should never fit into mut pointer")
}

func TestStructLayoutNaturalAlignment(t *testing.T) {
	tbl := NewTable()
	fields := []Field{
		{Name: 1, Type: tbl.UInt(8)},
		{Name: 2, Type: tbl.UInt(32)},
		{Name: 3, Type: tbl.UInt(8)},
	}
	s := tbl.Struct(1, nil, fields).(TStruct)
	offsets := FieldOffsets(s)
	require.Len(t, offsets, 3)
	assert.Equal(t, uint64(0), offsets[0])
	assert.Equal(t, uint64(4), offsets[1])
	assert.Equal(t, uint64(8), offsets[2])

	layout := SizeAndAlign(s)
	assert.Equal(t, uint64(12), layout.Size)
	assert.Equal(t, uint64(4), layout.Align)
}

func TestAsStructThroughDistinct(t *testing.T) {
	tbl := NewTable()
	s := tbl.Struct(1, nil, []Field{{Name: 1, Type: tbl.IInt(32)}})
	d := tbl.Distinct(1, nil, s)
	got, ok := AsStruct(d)
	require.True(t, ok)
	assert.Equal(t, uint32(1), got.Uid)
}
