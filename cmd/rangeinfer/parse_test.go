package main

import (
	"math/rand"
	"testing"

	"honnef.co/go/rangeinfer/go/vrp"
)

type proto8 = vrp.Prototype[int8, uint8]

func TestParsePrototype(t *testing.T) {
	full := vrp.RangeInt[uint8]{Lo: 0, Hi: 255}
	tt := []struct {
		in    string
		want  proto8
		widen int
	}{
		{"-5..5", proto8{SRange: vrp.RangeInt[int8]{Lo: -5, Hi: 5}, URange: full}, 0},
		{"7", proto8{SRange: vrp.RangeInt[int8]{Lo: 7, Hi: 7}, URange: full}, 0},
		{"*,10..20", proto8{SRange: vrp.RangeInt[int8]{Lo: -128, Hi: 127}, URange: vrp.RangeInt[uint8]{Lo: 10, Hi: 20}}, 0},
		{"*,0..255u", proto8{SRange: vrp.RangeInt[int8]{Lo: -128, Hi: 127}, URange: full}, 0},
		{"0..100,*******0@2", proto8{SRange: vrp.RangeInt[int8]{Lo: 0, Hi: 100}, URange: full, Bits: vrp.KnownBits[uint8]{Zeros: 1}}, 2},
		{"0x10..0x1f,0..200,1*******", proto8{
			SRange: vrp.RangeInt[int8]{Lo: 16, Hi: 31},
			URange: vrp.RangeInt[uint8]{Lo: 0, Hi: 200},
			Bits:   vrp.KnownBits[uint8]{Ones: 0x80},
		}, 0},
	}
	for _, tc := range tt {
		p, widen, err := parsePrototype[int8, uint8](tc.in)
		if err != nil {
			t.Errorf("parsePrototype(%q) failed: %v", tc.in, err)
			continue
		}
		if p != tc.want || widen != tc.widen {
			t.Errorf("parsePrototype(%q) = %v, %d; want %v, %d", tc.in, p, widen, tc.want, tc.widen)
		}
	}
}

func TestParsePrototypeErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"5..1",
		"0..128",
		"*,0..256",
		"*,20..10",
		"0..1,****",
		"0..1,*******x",
		"0..1,0..1,********,extra",
		"0..1@x",
		"0..1@-1",
		"a..b",
	} {
		if p, _, err := parsePrototype[int8, uint8](in); err == nil {
			t.Errorf("parsePrototype(%q) = %v, want error", in, p)
		}
	}
}

func TestParseMember(t *testing.T) {
	tt := []struct {
		in       string
		x        int8
		ux       uint8
		unsigned bool
	}{
		{"-1", -1, 0, false},
		{"127", 127, 0, false},
		{"255", 0, 255, true},
		{"0x80", 0, 128, true},
		{"-0x80", -128, 0, false},
	}
	for _, tc := range tt {
		x, ux, unsigned, err := parseMember[int8, uint8](tc.in)
		if err != nil || x != tc.x || ux != tc.ux || unsigned != tc.unsigned {
			t.Errorf("parseMember(%q) = %d, %d, %t, %v; want %d, %d, %t", tc.in, x, ux, unsigned, err, tc.x, tc.ux, tc.unsigned)
		}
	}
	if _, _, _, err := parseMember[int8, uint8]("256"); err == nil {
		t.Error("parseMember(256) succeeded")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	l := vrp.Lattice[int8, uint8]{Policy: vrp.DefaultPolicy}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		a, b := int8(r.Intn(256)), int8(r.Intn(256))
		if a > b {
			a, b = b, a
		}
		p := proto8{
			SRange: vrp.RangeInt[int8]{Lo: a, Hi: b},
			URange: vrp.RangeInt[uint8]{Lo: 0, Hi: 255},
			Bits:   vrp.KnownBits[uint8]{Zeros: uint8(r.Intn(256)) & uint8(r.Intn(256))},
		}
		v, ok := l.Make(p, r.Intn(4))
		if !ok {
			continue
		}
		text := formatValue(v)
		q, widen, err := parsePrototype[int8, uint8](text)
		if err != nil {
			t.Fatalf("parsePrototype(%q) failed: %v", text, err)
		}
		got, ok := l.Make(q, widen)
		if !ok || got != v {
			t.Fatalf("round trip of %v through %q = %v", v, text, got)
		}
	}
}
