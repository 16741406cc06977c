package pkg

type Small interface {
	~uint8 | ~uint16
}

func generic[T Small](x T) {
	if x >= 0 { // want `comparison is always true`
	}
	if x <= 255 {
	}
	if x&3 > 3 { // want `comparison is always false`
	}
}

func mixed[T ~uint8 | ~int8](x T) {
	if x < 0 {
	}
}

func signed[T ~int8 | ~int16](x T) {
	if x&0x7f < 0 { // want `comparison is always false`
	}
	if x >= -128 {
	}
	if x < 100 {
	}
}

func conversion[T ~uint8](x T) {
	if int(x) >= 0 { // want `comparison is always true`
	}
}
