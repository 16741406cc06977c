package vrp

import (
	"math/rand"
	"testing"
)

type proto8 = Prototype[int8, uint8]

func members(p proto8) [256]bool {
	var out [256]bool
	for v := -128; v < 128; v++ {
		out[uint8(v)] = p.Contains(int8(v))
	}
	return out
}

func randomPrototype(r *rand.Rand) proto8 {
	var p proto8
	p.SRange = RangeInt[int8]{-128, 127}
	p.URange = RangeInt[uint8]{0, 255}
	if r.Intn(3) != 0 {
		a, b := int8(r.Intn(256)), int8(r.Intn(256))
		p.SRange = RangeInt[int8]{min(a, b), max(a, b)}
	}
	if r.Intn(3) != 0 {
		a, b := uint8(r.Intn(256)), uint8(r.Intn(256))
		p.URange = RangeInt[uint8]{min(a, b), max(a, b)}
	}
	// Sparse bits, so that most prototypes aren't empty.
	known := uint8(r.Intn(256)) & uint8(r.Intn(256)) & uint8(r.Intn(256))
	ones := uint8(r.Intn(256)) & known
	p.Bits = KnownBits[uint8]{known &^ ones, ones}
	return p
}

func checkCanonical(t *testing.T, in proto8) {
	t.Helper()
	want := members(in)
	empty := true
	for _, ok := range want {
		if ok {
			empty = false
			break
		}
	}

	out, ok := in.Canonicalize()
	if !ok {
		if !empty {
			t.Fatalf("Canonicalize(%v) is empty, but the set has members", in)
		}
		return
	}
	if empty {
		t.Fatalf("Canonicalize(%v) = %v, want empty", in, out)
	}
	if got := members(out); got != want {
		t.Fatalf("Canonicalize(%v) = %v, which represents a different set", in, out)
	}
	if err := out.verify(); err != nil {
		t.Fatalf("Canonicalize(%v) = %v, not canonical: %s", in, out, err)
	}
	again, ok := out.Canonicalize()
	if !ok || again != out {
		t.Fatalf("Canonicalize isn't idempotent: %v -> %v -> %v", in, out, again)
	}
}

func TestCanonicalizeSplit(t *testing.T) {
	in := proto8{
		SRange: RangeInt[int8]{-5, 5},
		URange: RangeInt[uint8]{0, 255},
	}
	out, ok := in.Canonicalize()
	if !ok {
		t.Fatalf("Canonicalize(%v) is empty", in)
	}
	want := proto8{
		SRange: RangeInt[int8]{-5, 5},
		URange: RangeInt[uint8]{0, 255},
	}
	if out != want {
		t.Errorf("Canonicalize(%v) = %v, want %v", in, out, want)
	}
	if !out.isSplit() {
		t.Errorf("%v should be split at the sign boundary", out)
	}
	if got := out.span(); got != 10 {
		t.Errorf("span(%v) = %d, want 10", out, got)
	}
	checkCanonical(t, in)
}

func TestCanonicalizeExamples(t *testing.T) {
	tt := []struct {
		in   proto8
		want proto8
		ok   bool
	}{
		// Even numbers in [-5, 5]
		{
			proto8{RangeInt[int8]{-5, 5}, RangeInt[uint8]{0, 255}, KnownBits[uint8]{Zeros: 1}},
			proto8{RangeInt[int8]{-4, 4}, RangeInt[uint8]{0, 254}, KnownBits[uint8]{Zeros: 1}},
			true,
		},
		// Only the non-negative half survives the unsigned bound.
		{
			proto8{RangeInt[int8]{-5, 5}, RangeInt[uint8]{0, 100}, KnownBits[uint8]{}},
			proto8{RangeInt[int8]{0, 5}, RangeInt[uint8]{0, 5}, KnownBits[uint8]{Zeros: 0b11111000}},
			true,
		},
		// The unsigned range straddles the sign boundary, but the signed range rules out its negative part.
		{
			proto8{RangeInt[int8]{10, 20}, RangeInt[uint8]{15, 200}, KnownBits[uint8]{}},
			proto8{RangeInt[int8]{15, 20}, RangeInt[uint8]{15, 20}, KnownBits[uint8]{Zeros: 0b11100000}},
			true,
		},
		// ... and the same for the non-negative part.
		{
			proto8{RangeInt[int8]{-20, -10}, RangeInt[uint8]{100, 240}, KnownBits[uint8]{}},
			proto8{RangeInt[int8]{-20, -16}, RangeInt[uint8]{236, 240}, KnownBits[uint8]{Ones: 0b11100000}},
			true,
		},
		// Constant
		{
			proto8{RangeInt[int8]{-1, -1}, RangeInt[uint8]{0, 255}, KnownBits[uint8]{}},
			proto8{RangeInt[int8]{-1, -1}, RangeInt[uint8]{255, 255}, KnownBits[uint8]{Ones: 0xFF}},
			true,
		},
		// Trivial contradictions
		{proto8{RangeInt[int8]{1, 0}, RangeInt[uint8]{0, 255}, KnownBits[uint8]{}}, proto8{}, false},
		{proto8{RangeInt[int8]{-128, 127}, RangeInt[uint8]{1, 0}, KnownBits[uint8]{}}, proto8{}, false},
		{proto8{RangeInt[int8]{-128, 127}, RangeInt[uint8]{0, 255}, KnownBits[uint8]{1, 1}}, proto8{}, false},
		// Disjoint ranges
		{proto8{RangeInt[int8]{-10, -5}, RangeInt[uint8]{0, 100}, KnownBits[uint8]{}}, proto8{}, false},
		// No odd number in [2, 2]
		{proto8{RangeInt[int8]{2, 2}, RangeInt[uint8]{0, 255}, KnownBits[uint8]{Ones: 1}}, proto8{}, false},
	}
	for _, tc := range tt {
		got, ok := tc.in.Canonicalize()
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Canonicalize(%v) = %v, %t; want %v, %t", tc.in, got, ok, tc.want, tc.ok)
		}
		checkCanonical(t, tc.in)
	}
}

func TestCanonicalizeRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100000; i++ {
		checkCanonical(t, randomPrototype(r))
	}
}

func TestCanonicalizeWide(t *testing.T) {
	// Spot checks of the 32- and 64-bit instantiations.
	p32 := Prototype[int32, uint32]{
		SRange: RangeInt[int32]{-1 << 31, 1<<31 - 1},
		URange: RangeInt[uint32]{0, 1<<32 - 1},
		Bits:   KnownBits[uint32]{Zeros: 0xFF, Ones: 0x80000000},
	}
	got32, ok := p32.Canonicalize()
	want32 := Prototype[int32, uint32]{
		SRange: RangeInt[int32]{-1 << 31, -256},
		URange: RangeInt[uint32]{0x80000000, 0xFFFFFF00},
		Bits:   KnownBits[uint32]{Zeros: 0xFF, Ones: 0x80000000},
	}
	if !ok || got32 != want32 {
		t.Errorf("Canonicalize(%v) = %v, %t; want %v", p32, got32, ok, want32)
	}
	if err := got32.verify(); err != nil {
		t.Error(err)
	}

	p64 := Prototype[int64, uint64]{
		SRange: RangeInt[int64]{-1000, 1000},
		URange: RangeInt[uint64]{0, 1<<64 - 1},
		Bits:   KnownBits[uint64]{Ones: 1 << 63},
	}
	got64, ok := p64.Canonicalize()
	want64 := Prototype[int64, uint64]{
		SRange: RangeInt[int64]{-1000, -1},
		URange: RangeInt[uint64]{1<<64 - 1000, 1<<64 - 1},
		Bits:   KnownBits[uint64]{Ones: ^uint64(1023)},
	}
	if !ok || got64 != want64 {
		t.Errorf("Canonicalize(%v) = %v, %t; want %v", p64, got64, ok, want64)
	}
	if err := got64.verify(); err != nil {
		t.Error(err)
	}
}

func FuzzCanonicalize(f *testing.F) {
	f.Add(int8(-5), int8(5), uint8(0), uint8(255), uint8(0), uint8(0))
	f.Add(int8(-128), int8(127), uint8(0), uint8(255), uint8(3), uint8(0))
	f.Add(int8(10), int8(20), uint8(15), uint8(200), uint8(0), uint8(1))

	f.Fuzz(func(t *testing.T, lo, hi int8, ulo, uhi, zeros, ones uint8) {
		checkCanonical(t, proto8{
			SRange: RangeInt[int8]{lo, hi},
			URange: RangeInt[uint8]{ulo, uhi},
			Bits:   KnownBits[uint8]{zeros, ones},
		})
	})
}
