package comptime

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/capy-lang/capy/internal/core"
	"github.com/capy-lang/capy/internal/intern"
)

// Result is the materialized form of a comptime value, one of the
// four variants the backend consumes (spec §4.4 step 5: "Stores the
// result as one of: Integer{bits,value}, Float{bits,value},
// Data(bytes), Void").
type Result interface {
	isResult()
}

type Integer struct {
	Bits  uint32
	Value uint64
}

func (Integer) isResult() {}

type FloatResult struct {
	Bits  uint32
	Value float64
}

func (FloatResult) isResult() {}

// Data is the catch-all byte-serialized form for every value that
// isn't a bare integer or float: bools, chars, strings, arrays,
// structs, and pointers all flatten to bytes for the backend.
type Data struct{ Bytes []byte }

func (Data) isResult() {}

type VoidResult struct{}

func (VoidResult) isResult() {}

// key identifies one memoized comptime result (spec §3 invariant:
// "Every Comptime body is evaluated exactly once per compilation and
// its result is stored keyed by (FileName, ComptimeId)").
type key struct {
	File     intern.FileName
	Comptime core.ComptimeID
}

// Table memoizes every evaluated comptime's result across however many
// files the driver processes.
type Table struct {
	mu     sync.RWMutex
	values map[key]Result
}

// NewTable creates an empty result table.
func NewTable() *Table {
	return &Table{values: make(map[key]Result)}
}

// Get returns the memoized result for (file, id), if already
// evaluated.
func (t *Table) Get(file intern.FileName, id core.ComptimeID) (Result, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.values[key{file, id}]
	return r, ok
}

// Set stores the result of evaluating (file, id).
func (t *Table) Set(file intern.FileName, id core.ComptimeID, r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key{file, id}] = r
}

// ToResult flattens an evaluated Value into its backend-facing Result
// form.
func ToResult(v Value) Result {
	switch val := v.(type) {
	case Int:
		return Integer{Bits: val.Bits, Value: val.Value}
	case Float:
		return FloatResult{Bits: val.Bits, Value: val.Value}
	case Void:
		return VoidResult{}
	default:
		return Data{Bytes: serialize(v)}
	}
}

// serialize flattens any non-numeric compile-time value to a byte
// sequence: bools and chars as single bytes, strings as their raw
// bytes, arrays/structs/pointers as the concatenation of their
// elements in declaration order. This is only used by the backend to
// materialize constant data; it is not meant to be parsed back.
func serialize(v Value) []byte {
	switch val := v.(type) {
	case Bool:
		if val.Value {
			return []byte{1}
		}
		return []byte{0}
	case Char:
		return []byte{val.Value}
	case String:
		return []byte(val.Value)
	case Array:
		var out []byte
		for _, item := range val.Items {
			out = append(out, serializeAny(item)...)
		}
		return out
	case Struct:
		var out []byte
		for _, name := range val.Order {
			out = append(out, serializeAny(val.Fields[name])...)
		}
		return out
	case Pointer:
		if val.Target == nil {
			return make([]byte, 8)
		}
		return serializeAny(val.Target.Value)
	default:
		return nil
	}
}

// serializeAny flattens any Value, including the numeric ones Result
// otherwise keeps unflattened, for use inside composite values.
func serializeAny(v Value) []byte {
	switch val := v.(type) {
	case Int:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, val.Value)
		return buf
	case Float:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(val.Value))
		return buf
	default:
		return serialize(v)
	}
}
