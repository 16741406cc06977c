package vrp

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Value is an abstract integer value in canonical form. Values are created by [Lattice.Make] and by the lattice
// operations, and are never modified. The zero Value is not valid.
//
// Besides the represented set, a Value carries a widen counter, which records how often the value has been widened
// during iterative analysis. Two values that represent the same set but have different counters are different
// according to ==; use [Value.Equal] to compare sets.
type Value[S constraints.Signed, U constraints.Unsigned] struct {
	lo, hi   S
	ulo, uhi U
	bits     KnownBits[U]
	widen    int
}

// Int is the domain of 32-bit integers.
type Int = Value[int32, uint32]

// Long is the domain of 64-bit integers.
type Long = Value[int64, uint64]

func newValue[S constraints.Signed, U constraints.Unsigned](p Prototype[S, U], widen int) Value[S, U] {
	return Value[S, U]{
		lo:    p.SRange.Lo,
		hi:    p.SRange.Hi,
		ulo:   p.URange.Lo,
		uhi:   p.URange.Hi,
		bits:  p.Bits,
		widen: widen,
	}
}

func (v Value[S, U]) Lo() S               { return v.lo }
func (v Value[S, U]) Hi() S               { return v.hi }
func (v Value[S, U]) ULo() U              { return v.ulo }
func (v Value[S, U]) UHi() U              { return v.uhi }
func (v Value[S, U]) Bits() KnownBits[U]  { return v.bits }
func (v Value[S, U]) WidenCount() int     { return v.widen }
func (v Value[S, U]) SRange() RangeInt[S] { return RangeInt[S]{v.lo, v.hi} }
func (v Value[S, U]) URange() RangeInt[U] { return RangeInt[U]{v.ulo, v.uhi} }
func (v Value[S, U]) Prototype() Prototype[S, U] {
	return Prototype[S, U]{SRange: v.SRange(), URange: v.URange(), Bits: v.bits}
}

// Contains reports whether x is a member of the set represented by v.
func (v Value[S, U]) Contains(x S) bool {
	u := U(x)
	return v.lo <= x && x <= v.hi && v.ulo <= u && u <= v.uhi && v.bits.IsSatisfiedBy(u)
}

// ContainsUnsigned is like Contains, but takes the unsigned interpretation of the member.
func (v Value[S, U]) ContainsUnsigned(x U) bool {
	return v.Contains(S(x))
}

// Constant returns the only member of v, if v has exactly one member.
func (v Value[S, U]) Constant() (S, bool) {
	if v.lo == v.hi {
		return v.lo, true
	}
	return 0, false
}

// Cardinality returns the number of integers between the bounds of v, hi - lo + 1 summed over both halves of a split
// value. Known bits are ignored, so this is an upper bound on the number of members. It saturates at the maximum value
// of U.
func (v Value[S, U]) Cardinality() U {
	span := v.Prototype().span()
	if span == maxUnsigned[U]() {
		return span
	}
	return span + 1
}

// IsDomain reports whether v represents all integers of its width.
func (v Value[S, U]) IsDomain() bool {
	return v.lo == minSigned[S, U]() && v.hi == maxSigned[S, U]() &&
		v.ulo == 0 && v.uhi == maxUnsigned[U]() &&
		v.bits.Zeros == 0 && v.bits.Ones == 0
}

// Equal reports whether v and o represent the same set. It ignores the widen counter.
func (v Value[S, U]) Equal(o Value[S, U]) bool {
	return v.lo == o.lo && v.hi == o.hi && v.ulo == o.ulo && v.uhi == o.uhi && v.bits == o.bits
}

// IsSubsetOf reports whether every member of v is a member of o. Because both values are canonical, this can be
// decided by comparing their constraints.
func (v Value[S, U]) IsSubsetOf(o Value[S, U]) bool {
	return o.lo <= v.lo && v.hi <= o.hi &&
		o.ulo <= v.ulo && v.uhi <= o.uhi &&
		o.bits.Zeros&^v.bits.Zeros == 0 && o.bits.Ones&^v.bits.Ones == 0
}

func (v Value[S, U]) String() string {
	var sb strings.Builder
	if c, ok := v.Constant(); ok {
		fmt.Fprintf(&sb, "%d", c)
	} else {
		fmt.Fprintf(&sb, "%d..%d", v.lo, v.hi)
		if v.Prototype().isSplit() {
			fmt.Fprintf(&sb, " ^ %d..%du", v.ulo, v.uhi)
		}
		// Only print bits that the bounds don't already imply.
		if v.bits != v.impliedBits() {
			fmt.Fprintf(&sb, ", bits:%s", v.bits.Format())
		}
	}
	if v.widen > 0 {
		fmt.Fprintf(&sb, ", widen:%d", v.widen)
	}
	return sb.String()
}

// impliedBits returns the bits known from the bounds of v alone. For split values, these are the bits that both halves
// agree on.
func (v Value[S, U]) impliedBits() KnownBits[U] {
	if !v.Prototype().isSplit() {
		return adjustBitsFromBounds(KnownBits[U]{}, RangeInt[U]{v.ulo, v.uhi}).result
	}
	neg := adjustBitsFromBounds(KnownBits[U]{}, RangeInt[U]{U(v.lo), v.uhi}).result
	pos := adjustBitsFromBounds(KnownBits[U]{}, RangeInt[U]{v.ulo, U(v.hi)}).result
	return KnownBits[U]{Zeros: neg.Zeros & pos.Zeros, Ones: neg.Ones & pos.Ones}
}
