package vrp

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Prototype is a set of raw constraints on an integer. The integer must lie in SRange when interpreted as signed, in
// URange when interpreted as unsigned, and must satisfy Bits. S and U must have the same width.
//
// A Prototype need not be canonical; use [Prototype.Canonicalize] or [Lattice.Make] to obtain the canonical form.
type Prototype[S constraints.Signed, U constraints.Unsigned] struct {
	SRange RangeInt[S]
	URange RangeInt[U]
	Bits   KnownBits[U]
}

// Contains reports whether v satisfies all constraints of p.
func (p Prototype[S, U]) Contains(v S) bool {
	u := U(v)
	return p.SRange.Contains(v) && p.URange.Contains(u) && p.Bits.IsSatisfiedBy(u)
}

// Canonicalize tightens all constraints of p to their canonical form. The result represents the same set as p, each
// bound belongs to the set, and for each bit position that is not constrained by Bits, the set contains two values
// that differ only in that bit position. The second return value is false if p represents the empty set.
//
// In the canonical form, [lo, hi] and [ulo, uhi] relate in one of two ways. Either they are the same interval, and lo
// and hi are both negative or both non-negative. Or they differ, in which case the set is the union of [lo, uhi],
// which consists of negative values, and [ulo, hi], which consists of non-negative values.
func (p Prototype[S, U]) Canonicalize() (Prototype[S, U], bool) {
	srange := p.SRange
	urange := p.URange
	if srange.Lo > srange.Hi || urange.Lo > urange.Hi || p.Bits.Zeros&p.Bits.Ones != 0 {
		return Prototype[S, U]{}, false
	}

	// Make sure that S(urange.Lo) and srange.Hi, as well as srange.Lo and S(urange.Hi), are on the same side of the
	// sign boundary where possible.
	if S(urange.Lo) > S(urange.Hi) {
		// S(urange.Lo) >= 0 and S(urange.Hi) < 0
		if S(urange.Hi) < srange.Lo {
			// [min_S, S(urange.Hi)] holds no elements, so the negative part is empty.
			urange.Hi = U(maxSigned[S, U]())
		} else if S(urange.Lo) > srange.Hi {
			// [S(urange.Lo), max_S] holds no elements, so the non-negative part is empty.
			urange.Lo = U(minSigned[S, U]())
		}
	}

	if S(urange.Lo) <= S(urange.Hi) {
		// Both ranges describe the same interval.
		urange.Lo = U(max(S(urange.Lo), srange.Lo))
		urange.Hi = U(min(S(urange.Hi), srange.Hi))
		if S(urange.Lo) > S(urange.Hi) {
			return Prototype[S, U]{}, false
		}
		res := canonicalizeSimple(urange, p.Bits)
		if !res.present {
			return Prototype[S, U]{}, false
		}
		return fromSimple[S](res), true
	}

	// The set is split at the sign boundary. Canonicalize both halves independently and combine the results.
	neg := canonicalizeSimple(RangeInt[U]{U(srange.Lo), urange.Hi}, p.Bits)
	pos := canonicalizeSimple(RangeInt[U]{urange.Lo, U(srange.Hi)}, p.Bits)
	debugf("split %v: negative %v, non-negative %v", p, neg, pos)

	switch {
	case !neg.present && !pos.present:
		return Prototype[S, U]{}, false
	case !neg.present:
		return fromSimple[S](pos), true
	case !pos.present:
		return fromSimple[S](neg), true
	default:
		return Prototype[S, U]{
			SRange: RangeInt[S]{S(neg.bounds.Lo), S(pos.bounds.Hi)},
			URange: RangeInt[U]{pos.bounds.Lo, neg.bounds.Hi},
			Bits:   KnownBits[U]{neg.bits.Zeros & pos.bits.Zeros, neg.bits.Ones & pos.bits.Ones},
		}, true
	}
}

func fromSimple[S constraints.Signed, U constraints.Unsigned](res simpleResult[U]) Prototype[S, U] {
	return Prototype[S, U]{
		SRange: RangeInt[S]{S(res.bounds.Lo), S(res.bounds.Hi)},
		URange: res.bounds,
		Bits:   res.bits,
	}
}

// isSplit reports whether the canonical p consists of a negative and a non-negative part.
func (p Prototype[S, U]) isSplit() bool {
	return U(p.SRange.Lo) != p.URange.Lo
}

// span returns the number of elements of the canonical p, minus one. Subtracting one keeps the full domain
// representable.
func (p Prototype[S, U]) span() U {
	if !p.isSplit() {
		return p.URange.Hi - p.URange.Lo
	}
	return (p.URange.Hi - U(p.SRange.Lo)) + (U(p.SRange.Hi) - p.URange.Lo) + 1
}

// verify checks that p is in canonical form: no bound and no bit can be tightened without removing a member of the
// set.
func (p Prototype[S, U]) verify() error {
	for _, b := range []S{p.SRange.Lo, p.SRange.Hi, S(p.URange.Lo), S(p.URange.Hi)} {
		if !p.Contains(b) {
			return fmt.Errorf("%v: bound %d is not a member", p, b)
		}
	}
	if p.Bits.Zeros&p.Bits.Ones != 0 {
		return fmt.Errorf("%v: contradictory bits", p)
	}

	if !p.isSplit() {
		if U(p.SRange.Hi) != p.URange.Hi {
			return fmt.Errorf("%v: signed and unsigned ranges disagree", p)
		}
		if adjustBitsFromBounds(p.Bits, p.URange).progress {
			return fmt.Errorf("%v: bits can be derived from bounds", p)
		}
		if adjustBoundsFromBits(p.URange, p.Bits).progress {
			return fmt.Errorf("%v: bounds can be derived from bits", p)
		}
		return nil
	}

	if p.SRange.Lo >= 0 || S(p.URange.Hi) >= 0 || S(p.URange.Lo) < 0 || p.SRange.Hi < 0 {
		return fmt.Errorf("%v: halves are not separated by the sign boundary", p)
	}
	check := func(r RangeInt[U]) (KnownBits[U], error) {
		nbits := adjustBitsFromBounds(p.Bits, r)
		if !nbits.consistent {
			return KnownBits[U]{}, fmt.Errorf("%v: half %v contradicts bits", p, r)
		}
		if adjustBoundsFromBits(r, nbits.result).progress {
			return KnownBits[U]{}, fmt.Errorf("%v: half %v can be tightened", p, r)
		}
		return nbits.result, nil
	}
	negBits, err := check(RangeInt[U]{U(p.SRange.Lo), p.URange.Hi})
	if err != nil {
		return err
	}
	posBits, err := check(RangeInt[U]{p.URange.Lo, U(p.SRange.Hi)})
	if err != nil {
		return err
	}
	if negBits.Zeros&posBits.Zeros != p.Bits.Zeros || negBits.Ones&posBits.Ones != p.Bits.Ones {
		return fmt.Errorf("%v: bits can be derived from the halves", p)
	}
	return nil
}

func (p Prototype[S, U]) String() string {
	return fmt.Sprintf("{%v, %vu, %v}", p.SRange, p.URange, p.Bits)
}
