// Package vrp implements an abstract domain for the values of fixed-width integers.
//
// An abstract value combines three constraints on the same bit pattern: a range under the signed interpretation, a
// range under the unsigned interpretation, and per-bit knowledge (known zero, known one, or unknown). Values are kept
// in a canonical form, in which no constraint can be tightened further without changing the set of integers that the
// value represents. See [Prototype.Canonicalize] for the details.
//
// The domain is generic over a pair of signed and unsigned integer types of the same width, see [Int] and [Long] for
// the two common instantiations. Ordering of the lattice follows the convention of optimizing compilers: [Lattice.Meet]
// computes the union of two sets and [Lattice.Join] their intersection.
package vrp

import (
	"fmt"
	"log"
	"math/bits"
	"strings"

	"golang.org/x/exp/constraints"
)

const debugging = false

func debugf(f string, args ...any) {
	if debugging {
		log.Printf(f, args...)
	}
}

// RangeInt is the closed interval [Lo, Hi], ordered according to T.
type RangeInt[T constraints.Integer] struct {
	Lo, Hi T
}

func (r RangeInt[T]) Contains(v T) bool {
	return r.Lo <= v && v <= r.Hi
}

func (r RangeInt[T]) String() string {
	return fmt.Sprintf("%d..%d", r.Lo, r.Hi)
}

// KnownBits describes bits that are known to be zero or one. A bit that is set in neither mask is unknown. Zeros and
// Ones must not have any bits in common.
type KnownBits[U constraints.Unsigned] struct {
	Zeros, Ones U
}

// IsSatisfiedBy reports whether v has all the bits that bits requires.
func (bits KnownBits[U]) IsSatisfiedBy(v U) bool {
	return v&bits.Zeros == 0 && ^v&bits.Ones == 0
}

// Known returns the mask of bits that are either known zero or known one.
func (bits KnownBits[U]) Known() U {
	return bits.Zeros | bits.Ones
}

// Format renders bits MSB first, using '0' and '1' for known bits and '*' for unknown ones.
func (bits KnownBits[U]) Format() string {
	w := width[U]()
	var sb strings.Builder
	sb.Grow(w)
	for i := w - 1; i >= 0; i-- {
		mask := U(1) << i
		switch {
		case bits.Zeros&mask != 0:
			sb.WriteByte('0')
		case bits.Ones&mask != 0:
			sb.WriteByte('1')
		default:
			sb.WriteByte('*')
		}
	}
	return sb.String()
}

func (bits KnownBits[U]) String() string {
	return bits.Format()
}

// width returns the number of bits in U.
func width[U constraints.Unsigned]() int {
	return bits.Len64(uint64(^U(0)))
}

func leadingZeros[U constraints.Unsigned](x U) int {
	return bits.LeadingZeros64(uint64(x)) - (64 - width[U]())
}

func maxUnsigned[U constraints.Unsigned]() U {
	return ^U(0)
}

func minSigned[S constraints.Signed, U constraints.Unsigned]() S {
	return S(U(1) << (width[U]() - 1))
}

func maxSigned[S constraints.Signed, U constraints.Unsigned]() S {
	return S(^U(0) >> 1)
}
