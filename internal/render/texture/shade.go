package texture

// Darken subtracts threshold*clamp(norm, 0, 1) from each RGB channel of c,
// never going below zero. Alpha is kept.
func Darken(c uint32, norm float64, threshold uint8) uint32 {
	if norm <= 0 || threshold == 0 {
		return c
	}
	if norm > 1 {
		norm = 1
	}
	amount := uint8(float64(threshold) * norm)
	if amount == 0 {
		return c
	}

	a, r, g, b := Channels(c)
	return uint32(a)<<24 |
		uint32(sub(r, amount))<<16 |
		uint32(sub(g, amount))<<8 |
		uint32(sub(b, amount))
}

// DarkenBy subtracts a fixed amount from each channel.
func DarkenBy(c uint32, amount uint8) uint32 {
	return Darken(c, 1, amount)
}

func sub(ch, amount uint8) uint8 {
	if amount > ch {
		return 0
	}
	return ch - amount
}
