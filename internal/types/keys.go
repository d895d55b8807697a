package types

import (
	"fmt"

	"github.com/capy-lang/capy/internal/intern"
)

func keyFile(name uint32) string { return fmt.Sprintf("file:%d", name) }

func fileNameOf(name uint32) intern.FileName { return intern.FileName(name) }

func keyNum(prefix string, width uint32) string { return fmt.Sprintf("%s:%d", prefix, width) }

func keyArray(size uint64, sub Ty) string {
	return fmt.Sprintf("arr:%d:%s", size, ptrKey(sub))
}

func keyPointer(mutable bool, sub Ty) string {
	return fmt.Sprintf("ptr:%v:%s", mutable, ptrKey(sub))
}

func keyFunction(params []Ty, ret Ty) string {
	s := "fn:"
	for _, p := range params {
		s += ptrKey(p) + ","
	}
	return s + "->" + ptrKey(ret)
}

// ptrKey builds a stable key for an already-interned (or at least
// stably-constructed) sub-type. Structural types share a String()
// form that already encodes their full shape; Struct/Distinct are
// keyed by their uid so two distinct declarations are never conflated.
func ptrKey(t Ty) string {
	switch v := t.(type) {
	case TStruct:
		return fmt.Sprintf("struct#%d", v.Uid)
	case TDistinct:
		return fmt.Sprintf("distinct#%d", v.Uid)
	default:
		return t.String()
	}
}
