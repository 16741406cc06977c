package vrp

import (
	"golang.org/x/exp/constraints"
)

// Policy controls the convergence heuristics of widening and narrowing. Sizes are expressed as spans, the number of
// members of a value minus one.
type Policy struct {
	// Values whose span is at most SmallSpan are never widened, and their widen counter is always zero. This covers
	// constants and other tiny sets, such as booleans.
	SmallSpan uint64
	// The number of times a value may be widened precisely before its bounds are abandoned.
	MaxWiden int
	// Narrowing only accepts a new value if its span is at most half of the old span plus NarrowSlack.
	NarrowSlack uint64
}

const (
	defaultSmallSpan = 3
	defaultMaxWiden  = 3
)

var DefaultPolicy = Policy{
	SmallSpan:   defaultSmallSpan,
	MaxWiden:    defaultMaxWiden,
	NarrowSlack: defaultSmallSpan * 2,
}

// Lattice provides the lattice operations of the domain, using a convergence policy.
type Lattice[S constraints.Signed, U constraints.Unsigned] struct {
	Policy Policy
}

var (
	IntLattice  = Lattice[int32, uint32]{Policy: DefaultPolicy}
	LongLattice = Lattice[int64, uint64]{Policy: DefaultPolicy}
)

// Make canonicalizes p and returns the resulting value with the given widen counter. It returns false if p
// represents the empty set.
func (l Lattice[S, U]) Make(p Prototype[S, U], widen int) (Value[S, U], bool) {
	c, ok := p.Canonicalize()
	if !ok {
		debugf("%v is empty", p)
		return Value[S, U]{}, false
	}
	if debugging {
		if err := c.verify(); err != nil {
			panic(err)
		}
	}
	return newValue(c, l.normalizeWiden(c, widen)), true
}

func (l Lattice[S, U]) normalizeWiden(p Prototype[S, U], widen int) int {
	if uint64(p.span()) <= l.Policy.SmallSpan {
		return 0
	}
	if newValue(p, 0).IsDomain() {
		return l.Policy.MaxWiden
	}
	return widen
}

func (l Lattice[S, U]) mustMake(p Prototype[S, U], widen int) Value[S, U] {
	v, ok := l.Make(p, widen)
	if !ok {
		panic("vrp: constraints unexpectedly describe the empty set")
	}
	return v
}

// Domain returns the value that contains every integer of its width.
func (l Lattice[S, U]) Domain() Value[S, U] {
	return l.mustMake(domainPrototype[S, U](), l.Policy.MaxWiden)
}

func domainPrototype[S constraints.Signed, U constraints.Unsigned]() Prototype[S, U] {
	return Prototype[S, U]{
		SRange: RangeInt[S]{minSigned[S, U](), maxSigned[S, U]()},
		URange: RangeInt[U]{0, maxUnsigned[U]()},
	}
}

// Const returns the value whose only member is c.
func (l Lattice[S, U]) Const(c S) Value[S, U] {
	p := domainPrototype[S, U]()
	p.SRange = RangeInt[S]{c, c}
	return l.mustMake(p, 0)
}

// Range returns the value containing all integers in the signed range [lo, hi].
func (l Lattice[S, U]) Range(lo, hi S) (Value[S, U], bool) {
	p := domainPrototype[S, U]()
	p.SRange = RangeInt[S]{lo, hi}
	return l.Make(p, 0)
}

// URange returns the value containing all integers in the unsigned range [lo, hi].
func (l Lattice[S, U]) URange(lo, hi U) (Value[S, U], bool) {
	p := domainPrototype[S, U]()
	p.URange = RangeInt[U]{lo, hi}
	return l.Make(p, 0)
}

// Meet returns the smallest value that contains all members of a and b. It is used where control flow merges.
func (l Lattice[S, U]) Meet(a, b Value[S, U]) Value[S, U] {
	if a == b {
		return a
	}
	return l.mustMake(Prototype[S, U]{
		SRange: RangeInt[S]{min(a.lo, b.lo), max(a.hi, b.hi)},
		URange: RangeInt[U]{min(a.ulo, b.ulo), max(a.uhi, b.uhi)},
		Bits:   KnownBits[U]{a.bits.Zeros & b.bits.Zeros, a.bits.Ones & b.bits.Ones},
	}, max(a.widen, b.widen))
}

// Join returns the value containing the members common to a and b. It returns false if a and b have no members in
// common, which indicates a contradiction, for example a branch that can never be taken.
func (l Lattice[S, U]) Join(a, b Value[S, U]) (Value[S, U], bool) {
	if a == b {
		return a, true
	}
	return l.Make(Prototype[S, U]{
		SRange: RangeInt[S]{max(a.lo, b.lo), min(a.hi, b.hi)},
		URange: RangeInt[U]{max(a.ulo, b.ulo), min(a.uhi, b.uhi)},
		Bits:   KnownBits[U]{a.bits.Zeros | b.bits.Zeros, a.bits.Ones | b.bits.Ones},
	}, min(a.widen, b.widen))
}

// Widen monotonically widens nv, the value computed in the current iteration of an analysis, relative to old, the
// value of the previous iteration. Values are widened precisely Policy.MaxWiden times, after which the bounds are
// abandoned to speed up convergence. Only the known bits are kept, of which there are few, so they converge fast.
//
// old may be nil if there is no previous value. If limit is not nil, abandoned bounds are replaced by those of limit
// instead of those of the full domain, and limit's known bits are kept as well.
func (l Lattice[S, U]) Widen(nv Value[S, U], old, limit *Value[S, U]) Value[S, U] {
	if old == nil {
		return nv
	}
	if nv.Equal(*old) {
		return *old
	}
	// If old contains nv, we probably widened too far already.
	if nv.IsSubsetOf(*old) {
		return *old
	}
	// Neither contains the other. This shouldn't happen in a monotone analysis.
	if !old.IsSubsetOf(nv) {
		return l.Domain()
	}
	if _, ok := old.Constant(); ok {
		return nv
	}
	if nv.widen > old.widen {
		return nv
	}
	if nv.widen < l.Policy.MaxWiden {
		return l.mustMake(nv.Prototype(), nv.widen+1)
	}

	p := domainPrototype[S, U]()
	p.Bits = nv.bits
	if limit != nil {
		p.SRange = limit.SRange()
		p.URange = limit.URange()
		p.Bits.Zeros |= limit.bits.Zeros
		p.Bits.Ones |= limit.bits.Ones
	}
	v, ok := l.Make(p, l.Policy.MaxWiden)
	if !ok || !nv.IsSubsetOf(v) {
		// The limit doesn't cover the new value.
		return l.Domain()
	}
	debugf("widened %v to %v", nv, v)
	return v
}

// Narrow monotonically narrows old, the value of a previous iteration, towards nv, the value of the current one.
// A new value is only accepted if its known bits changed or if it is considerably smaller than old, which avoids slow
// convergence caused by many small improvements.
func (l Lattice[S, U]) Narrow(nv Value[S, U], old *Value[S, U]) Value[S, U] {
	if old == nil {
		return nv
	}
	if _, ok := nv.Constant(); ok {
		return nv
	}
	if nv.Equal(*old) {
		return *old
	}
	if old.IsDomain() {
		return nv
	}
	// nv doesn't narrow old, which is odd.
	if !nv.IsSubsetOf(*old) {
		return nv
	}
	if nv.bits != old.bits {
		return nv
	}
	oc := uint64(old.Prototype().span())
	nc := uint64(nv.Prototype().span())
	if nc > oc/2+l.Policy.NarrowSlack {
		return *old
	}
	return nv
}
