package main

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"honnef.co/go/rangeinfer/go/vrp"

	"golang.org/x/exp/constraints"
)

func width[U constraints.Unsigned]() int {
	return bits.Len64(uint64(^U(0)))
}

// parsePrototype parses the constraints and the widen counter of a value written as lo..hi[,ulo..uhi][,bits][@widen].
func parsePrototype[S constraints.Signed, U constraints.Unsigned](text string) (vrp.Prototype[S, U], int, error) {
	w := width[U]()
	p := vrp.Prototype[S, U]{
		SRange: vrp.RangeInt[S]{Lo: S(U(1) << (w - 1)), Hi: S(^U(0) >> 1)},
		URange: vrp.RangeInt[U]{Lo: 0, Hi: ^U(0)},
	}
	fail := func(format string, args ...any) (vrp.Prototype[S, U], int, error) {
		return vrp.Prototype[S, U]{}, 0, fmt.Errorf("invalid value %q: %s", text, fmt.Sprintf(format, args...))
	}

	body, widenText, hasWiden := strings.Cut(text, "@")
	widen := 0
	if hasWiden {
		n, err := strconv.Atoi(widenText)
		if err != nil || n < 0 {
			return fail("bad widen counter %q", widenText)
		}
		widen = n
	}

	parts := strings.Split(body, ",")
	if len(parts) > 3 {
		return fail("too many components")
	}
	if parts[0] != "*" {
		lo, hi, err := parseRange(parts[0], func(s string) (S, error) {
			n, err := strconv.ParseInt(s, 0, w)
			return S(n), err
		})
		if err != nil {
			return fail("signed range: %v", err)
		}
		p.SRange = vrp.RangeInt[S]{Lo: lo, Hi: hi}
	}
	parts = parts[1:]
	if len(parts) > 0 && strings.Contains(parts[0], "..") {
		lo, hi, err := parseRange(strings.TrimSuffix(parts[0], "u"), func(s string) (U, error) {
			n, err := strconv.ParseUint(s, 0, w)
			return U(n), err
		})
		if err != nil {
			return fail("unsigned range: %v", err)
		}
		p.URange = vrp.RangeInt[U]{Lo: lo, Hi: hi}
		parts = parts[1:]
	}
	if len(parts) > 0 {
		kb, err := parseBits[U](parts[0])
		if err != nil {
			return fail("%v", err)
		}
		p.Bits = kb
		parts = parts[1:]
	}
	if len(parts) > 0 {
		return fail("unexpected component %q", parts[0])
	}
	return p, widen, nil
}

// parseRange parses lo..hi or a single number n, which stands for n..n.
func parseRange[T constraints.Integer](s string, parse func(string) (T, error)) (T, T, error) {
	loText, hiText, ok := strings.Cut(s, "..")
	if !ok {
		hiText = loText
	}
	lo, err := parse(loText)
	if err != nil {
		return 0, 0, err
	}
	hi, err := parse(hiText)
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("lower bound %d is larger than upper bound %d", lo, hi)
	}
	return lo, hi, nil
}

// parseBits parses a known bits pattern, most significant bit first.
func parseBits[U constraints.Unsigned](s string) (vrp.KnownBits[U], error) {
	w := width[U]()
	if len(s) != w {
		return vrp.KnownBits[U]{}, fmt.Errorf("bits pattern %q has %d characters, want %d", s, len(s), w)
	}
	var kb vrp.KnownBits[U]
	for i, c := range []byte(s) {
		bit := U(1) << (w - 1 - i)
		switch c {
		case '0':
			kb.Zeros |= bit
		case '1':
			kb.Ones |= bit
		case '*':
		default:
			return vrp.KnownBits[U]{}, fmt.Errorf("bits pattern %q contains %q, want '0', '1' or '*'", s, c)
		}
	}
	return kb, nil
}

// parseMember parses an integer in signed notation or, if it doesn't fit S, in unsigned notation. unsigned reports
// which of x and ux holds the result.
func parseMember[S constraints.Signed, U constraints.Unsigned](s string) (x S, ux U, unsigned bool, err error) {
	w := width[U]()
	if n, err := strconv.ParseInt(s, 0, w); err == nil {
		return S(n), 0, false, nil
	}
	n, err := strconv.ParseUint(s, 0, w)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return 0, U(n), true, nil
}

// formatValue formats v in the syntax understood by parsePrototype.
func formatValue[S constraints.Signed, U constraints.Unsigned](v vrp.Value[S, U]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d..%d,%d..%d,%s", v.Lo(), v.Hi(), v.ULo(), v.UHi(), v.Bits().Format())
	if v.WidenCount() > 0 {
		fmt.Fprintf(&sb, "@%d", v.WidenCount())
	}
	return sb.String()
}
