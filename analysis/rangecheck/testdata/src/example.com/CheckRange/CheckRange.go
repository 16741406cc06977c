package pkg

func fn(a uint8, b int8, c uint, d int, e int64) {
	if a < 0 { // want `comparison is always false: a is in 0\.\.255`
	}
	if a >= 0 { // want `comparison is always true`
	}
	if 0 > a { // want `comparison is always false`
	}
	if a > 255 { // want `comparison is always false`
	}
	if a <= 255 { // want `comparison is always true`
	}
	if a != 256-1 {
	}
	if a < 200 {
	}
	if b > 127 { // want `comparison is always false: b is in -128\.\.127`
	}
	if b == -128 {
	}
	if (b) >= -128 { // want `comparison is always true`
	}
	if int(b) < 100 {
	}
	if int(b) < 1000 { // want `comparison is always true: int\(b\) is in -128\.\.127`
	}
	if uint8(d) <= 255 { // want `comparison is always true`
	}
	if int8(a) < 0 {
	}
	if d < 0 {
	}
	if e <= 9223372036854775807 { // want `comparison is always true`
	}
}

func masks(c uint, d int) {
	if c&7 > 7 { // want `comparison is always false: c ?& ?7 is in 0\.\.7`
	}
	if c&7 == 8 { // want `comparison is always false`
	}
	if 0xf0&c == 1 { // want `comparison is always false`
	}
	if c&7 < 4 {
	}
	if c|1 == 0 { // want `comparison is always false`
	}
	if c|1 != 0 { // want `comparison is always true`
	}
	if d&-4 == 2 { // want `comparison is always false`
	}
	if d&0xff < 0 { // want `comparison is always false`
	}
}

func remainders(c uint, d int, n uint8) {
	if d%10 < 10 { // want `comparison is always true`
	}
	if d%10 >= 10 { // want `comparison is always false`
	}
	if d%-10 > -10 { // want `comparison is always true`
	}
	if d%10 > 5 {
	}
	if c%10 <= 9 { // want `comparison is always true`
	}
	if int(n)%4 < 0 { // want `comparison is always false`
	}
}

func notIntegers(f float64, s string) {
	if f < 0 {
	}
	if s == "" {
	}
	const k = 5
	if k < 0 {
	}
}

func ignored(a uint8) {
	//rangecheck:ignore kept for documentation
	if a < 0 {
	}
}
