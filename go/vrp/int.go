package vrp

import (
	"go/constant"
	"go/types"
	"math"
)

// Commonly used subsets of the 32-bit domain.
var (
	Bool  = mustRange(0, 1)
	Byte  = mustRange(math.MinInt8, math.MaxInt8)
	Char  = mustRange(0, math.MaxUint16)
	Short = mustRange(math.MinInt16, math.MaxInt16)
)

func mustRange(lo, hi int32) Int {
	v, ok := IntLattice.Range(lo, hi)
	if !ok {
		panic("unreachable")
	}
	return v
}

// ForBasic returns the set of values that an integer of type typ can hold, in the 64-bit domain. Values of unsigned
// types are represented by their bit pattern, so the members of uint64 include negative numbers when interpreted as
// signed. It returns false if typ isn't a sized integer type.
//
// The sizes of int, uint and uintptr are those of 64-bit platforms.
func ForBasic(typ *types.Basic) (Long, bool) {
	l := LongLattice
	var (
		v  Long
		ok bool
	)
	switch typ.Kind() {
	case types.Int8:
		v, ok = l.Range(math.MinInt8, math.MaxInt8)
	case types.Int16:
		v, ok = l.Range(math.MinInt16, math.MaxInt16)
	case types.Int32, types.UntypedRune:
		v, ok = l.Range(math.MinInt32, math.MaxInt32)
	case types.Int, types.Int64, types.UntypedInt:
		v, ok = l.Domain(), true
	case types.Uint8:
		v, ok = l.URange(0, math.MaxUint8)
	case types.Uint16:
		v, ok = l.URange(0, math.MaxUint16)
	case types.Uint32:
		v, ok = l.URange(0, math.MaxUint32)
	case types.Uint, types.Uint64, types.Uintptr:
		v, ok = l.Domain(), true
	default:
		return Long{}, false
	}
	return v, ok
}

// IsUnsigned reports whether members of values of typ should be compared using unsigned order.
func IsUnsigned(typ *types.Basic) bool {
	return typ.Info()&types.IsUnsigned != 0
}

// FromConst returns the value whose only member is the integer constant k of type typ. It returns false if k isn't an
// integer or isn't representable by typ.
func FromConst(k constant.Value, typ *types.Basic) (Long, bool) {
	dom, ok := ForBasic(typ)
	if !ok {
		return Long{}, false
	}
	k = constant.ToInt(k)
	if k.Kind() != constant.Int {
		return Long{}, false
	}

	var n int64
	if IsUnsigned(typ) {
		u, exact := constant.Uint64Val(k)
		if !exact {
			return Long{}, false
		}
		n = int64(u)
	} else {
		s, exact := constant.Int64Val(k)
		if !exact {
			return Long{}, false
		}
		n = s
	}
	if !dom.Contains(n) {
		return Long{}, false
	}
	return LongLattice.Const(n), true
}
