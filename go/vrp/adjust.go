package vrp

import (
	"golang.org/x/exp/constraints"
)

// adjustResult is the outcome of one tightening step.
type adjustResult[T any] struct {
	// Whether the result differs from the input.
	progress bool
	// Whether the result still describes a non-empty set.
	consistent bool
	result     T
}

func emptyAdjustResult[T any]() adjustResult[T] {
	return adjustResult[T]{progress: true, consistent: false}
}

// simpleResult is the canonical form of a range that lies entirely on one side of the sign boundary.
type simpleResult[U constraints.Unsigned] struct {
	present bool
	bounds  RangeInt[U]
	bits    KnownBits[U]
}

// adjustLo returns the smallest value not less than lo that satisfies bits. If no such value exists, the computation
// wraps around and the result is less than lo.
//
// Bits are numbered from the most significant one. Let r be the result and consider the first bit at which r differs
// from lo. Because r > lo, that bit is 0 in lo and 1 in r, so it must not be known zero. All bits before it are shared
// with lo and so must already satisfy bits. Because r is minimal, the bit is the last one with these properties, and
// all bits after it are as small as possible, which is exactly bits.Ones.
//
// Call the first bit of lo that violates bits the first violation. The bit we're looking for is the last bit at or
// before the first violation that is zero in both lo and bits.Zeros.
func adjustLo[U constraints.Unsigned](lo U, bits KnownBits[U]) U {
	zeroViolation := lo & bits.Zeros
	oneViolation := ^lo & bits.Ones
	if zeroViolation == oneViolation {
		// Both are zero, lo satisfies bits.
		return lo
	}

	// All bits before the first violation are zero in both masks. The mask that holds the first violation is
	// therefore the larger one.
	if zeroViolation < oneViolation {
		// The first violation is a 0 that must be 1. It is not known zero, so it is the bit we want.
		//
		//      lo = 1 0 0 1 0 0 1 0
		//   zeros = 0 0 1 0 0 1 0 0
		//    ones = 0 1 0 0 1 0 1 0
		//   1-vio = 0 1 0 0 1 0 0 0
		//  result = 1 1 0 0 1 0 1 0
		firstViolation := width[U]() - 1 - leadingZeros(oneViolation)
		alignment := U(1) << firstViolation
		// Set the bit, clear everything after it, then satisfy ones. Clearing bits after the violation cannot
		// violate zeros.
		newLo := (lo & -alignment) + alignment
		newLo |= bits.Ones
		if debugging && newLo <= lo {
			panic("adjustLo: setting a one-violation cannot overflow")
		}
		return newLo
	}

	// The first violation is a 1 that must be 0. Search backwards from it for the last bit that is 0 in lo and not
	// known zero.
	//
	//      lo = 1 0 0 0 1 1 1 0
	//   zeros = 0 0 0 1 0 1 0 0
	//    ones = 1 0 0 0 0 0 1 1
	//   0-vio = 0 0 0 0 0 1 0 0
	//  either = 1 0 0 1 1 1 1 0
	//  result = 1 0 1 0 0 0 1 1
	firstViolation := width[U]() - leadingZeros(zeroViolation)
	// Bits strictly before the first violation. Shifting by the full width yields 0, which happens when the
	// violation is the most significant bit and nothing can be incremented.
	findMask := maxUnsigned[U]() << firstViolation
	either := lo | bits.Zeros
	tmp := ^either & findMask
	// The lowest set bit of tmp. If tmp is 0, so is alignment, and the result below is bits.Ones, which is less
	// than lo.
	alignment := tmp & -tmp
	newLo := (lo & -alignment) + alignment
	newLo |= bits.Ones
	if debugging && newLo <= lo && newLo != bits.Ones {
		panic("adjustLo: overflow must produce bits.Ones")
	}
	return newLo
}

// adjustHi returns the largest value not greater than hi that satisfies bits. If no such value exists, the result is
// greater than hi.
//
// If v satisfies {zeros, ones} then ^v satisfies {ones, zeros}, and ^ is strictly decreasing. The largest value not
// greater than hi that satisfies bits is therefore the complement of the smallest value not less than ^hi that
// satisfies the swapped bits.
func adjustHi[U constraints.Unsigned](hi U, bits KnownBits[U]) U {
	return ^adjustLo(^hi, KnownBits[U]{Zeros: bits.Ones, Ones: bits.Zeros})
}

// adjustBoundsFromBits tightens both bounds to the nearest values that satisfy bits.
//
//	lo = 0010, hi = 1001, zeros = 0011, ones = 0000
//
//	        0    1    2    3    4    5    6    7    8    9    10
//	bits:   ok   .    .    .    ok   .    .    .    ok   .    .
//	bounds:           lo                                 hi
//	adjust:           --------> lo                  hi <---
func adjustBoundsFromBits[U constraints.Unsigned](bounds RangeInt[U], bits KnownBits[U]) adjustResult[RangeInt[U]] {
	newLo := adjustLo(bounds.Lo, bits)
	if newLo < bounds.Lo {
		// Wrapped around, no value not less than lo satisfies bits.
		return emptyAdjustResult[RangeInt[U]]()
	}
	newHi := adjustHi(bounds.Hi, bits)
	if newHi > bounds.Hi {
		return emptyAdjustResult[RangeInt[U]]()
	}

	return adjustResult[RangeInt[U]]{
		progress:   newLo != bounds.Lo || newHi != bounds.Hi,
		consistent: newLo <= newHi,
		result:     RangeInt[U]{newLo, newHi},
	}
}

// adjustBitsFromBounds derives known bits from the common prefix of the bounds. All values in [lo, hi] share the
// bits that lo and hi have in common before their first difference.
//
//	lo = 010011
//	hi = 010100
//	     010***
func adjustBitsFromBounds[U constraints.Unsigned](bits KnownBits[U], bounds RangeInt[U]) adjustResult[KnownBits[U]] {
	mismatch := bounds.Lo ^ bounds.Hi
	matchMask := maxUnsigned[U]()
	if mismatch != 0 {
		matchMask = ^(maxUnsigned[U]() >> leadingZeros(mismatch))
	}
	newZeros := bits.Zeros | (matchMask &^ bounds.Lo)
	newOnes := bits.Ones | (matchMask & bounds.Lo)
	return adjustResult[KnownBits[U]]{
		progress:   newZeros != bits.Zeros || newOnes != bits.Ones,
		consistent: newZeros&newOnes == 0,
		result:     KnownBits[U]{newZeros, newOnes},
	}
}

// canonicalizeSimple tightens bounds and bits against each other until neither changes. Every round that makes
// progress turns at least one unknown bit into a known one, so there are at most as many rounds as U has bits.
func canonicalizeSimple[U constraints.Unsigned](bounds RangeInt[U], bits KnownBits[U]) simpleResult[U] {
	nbits := adjustBitsFromBounds(bits, bounds)
	if !nbits.consistent {
		return simpleResult[U]{}
	}
	nbounds := adjustResult[RangeInt[U]]{progress: true, consistent: true, result: bounds}
	// Bits are derived from the bounds of the previous step and vice versa. If one step makes no progress, the next
	// one cannot either.
	for {
		nbounds = adjustBoundsFromBits(nbounds.result, nbits.result)
		if !nbounds.progress || !nbounds.consistent {
			return simpleResult[U]{nbounds.consistent, nbounds.result, nbits.result}
		}
		nbits = adjustBitsFromBounds(nbits.result, nbounds.result)
		if !nbits.progress || !nbits.consistent {
			return simpleResult[U]{nbits.consistent, nbounds.result, nbits.result}
		}
	}
}
