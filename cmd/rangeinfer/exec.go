package main

import (
	"encoding/json"
	"fmt"
	"io"

	"honnef.co/go/rangeinfer/go/vrp"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
)

type settings struct {
	width  int
	json   bool
	pretty bool
	policy vrp.Policy
}

func dispatch(s settings, op string, args []string, w io.Writer) error {
	switch s.width {
	case 8:
		return execute[int8, uint8](s, op, args, w)
	case 16:
		return execute[int16, uint16](s, op, args, w)
	case 32:
		return execute[int32, uint32](s, op, args, w)
	case 64:
		return execute[int64, uint64](s, op, args, w)
	default:
		return fmt.Errorf("unsupported width %d, want 8, 16, 32 or 64", s.width)
	}
}

func execute[S constraints.Signed, U constraints.Unsigned](s settings, op string, args []string, w io.Writer) error {
	l := vrp.Lattice[S, U]{Policy: s.policy}

	if op == "contains" {
		v, ok, err := parseValue(l, args[0])
		if err != nil {
			return err
		}
		x, ux, unsigned, err := parseMember[S, U](args[1])
		if err != nil {
			return err
		}
		if unsigned {
			return printContains(w, s.json, ok && v.ContainsUnsigned(ux))
		}
		return printContains(w, s.json, ok && v.Contains(x))
	}

	values := make([]vrp.Value[S, U], 0, len(args))
	for _, arg := range args {
		v, ok, err := parseValue(l, arg)
		if err != nil {
			return err
		}
		if !ok {
			if op == "canon" {
				return printValue(w, s, v, false)
			}
			return fmt.Errorf("%s describes the empty set", arg)
		}
		values = append(values, v)
	}

	res, ok := values[0], true
	switch op {
	case "canon":
	case "meet":
		for _, v := range values[1:] {
			res = l.Meet(res, v)
		}
	case "join":
		for _, v := range values[1:] {
			if res, ok = l.Join(res, v); !ok {
				break
			}
		}
	case "widen":
		var limit *vrp.Value[S, U]
		if len(values) == 3 {
			limit = &values[2]
		}
		res = l.Widen(values[0], &values[1], limit)
	case "narrow":
		res = l.Narrow(values[0], &values[1])
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
	log.Debugf("%s(%v) = %v, %t", op, values, res, ok)
	return printValue(w, s, res, ok)
}

func parseValue[S constraints.Signed, U constraints.Unsigned](l vrp.Lattice[S, U], text string) (vrp.Value[S, U], bool, error) {
	p, widen, err := parsePrototype[S, U](text)
	if err != nil {
		return vrp.Value[S, U]{}, false, err
	}
	v, ok := l.Make(p, widen)
	log.Debugf("parsed %q as %v", text, p)
	return v, ok, nil
}

type valueJSON struct {
	Lo     int64  `json:"lo"`
	Hi     int64  `json:"hi"`
	ULo    uint64 `json:"ulo"`
	UHi    uint64 `json:"uhi"`
	Bits   string `json:"bits"`
	Widen  int    `json:"widen"`
	Text   string `json:"text"`
	String string `json:"string"`
}

type resultJSON struct {
	Empty bool       `json:"empty"`
	Value *valueJSON `json:"value,omitempty"`
}

// printValue prints v in the syntax accepted on the command line, or in the more readable format of [vrp.Value.String]
// if s.pretty is set.
func printValue[S constraints.Signed, U constraints.Unsigned](w io.Writer, s settings, v vrp.Value[S, U], ok bool) error {
	if !s.json {
		if !ok {
			_, err := fmt.Fprintln(w, "empty")
			return err
		}
		text := formatValue(v)
		if s.pretty {
			text = v.String()
		}
		_, err := fmt.Fprintln(w, text)
		return err
	}
	out := resultJSON{Empty: !ok}
	if ok {
		out.Value = &valueJSON{
			Lo:     int64(v.Lo()),
			Hi:     int64(v.Hi()),
			ULo:    uint64(v.ULo()),
			UHi:    uint64(v.UHi()),
			Bits:   v.Bits().Format(),
			Widen:  v.WidenCount(),
			Text:   formatValue(v),
			String: v.String(),
		}
	}
	return json.NewEncoder(w).Encode(out)
}

func printContains(w io.Writer, asJSON bool, contains bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(struct {
			Contains bool `json:"contains"`
		}{contains})
	}
	_, err := fmt.Fprintln(w, contains)
	return err
}
