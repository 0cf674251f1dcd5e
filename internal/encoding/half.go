package encoding

import "math"

// HalfToFloat converts the bits of an IEEE-754 binary16 value
// into the binary32 value it denotes. The conversion is exact.
func HalfToFloat(h uint16) float32 {
	hbits := uint32(h)
	mant := hbits & 0x03ff
	exp := hbits & 0x7c00

	switch {
	case exp == 0x7c00:
		// NaN and infinities keep their mantissa
		exp = 0x3fc00
	case exp != 0:
		// rebias the exponent: exp - 15 + 127
		exp += 0x1c000
	case mant != 0:
		// subnormal, normalize it
		exp = 0x1c400
		for {
			mant <<= 1
			exp -= 0x400
			if mant&0x400 != 0 {
				break
			}
		}
		mant &= 0x3ff
	}

	return math.Float32frombits((hbits&0x8000)<<16 | (exp|mant)<<13)
}

// FloatToHalf converts a binary32 value into the bits of the nearest
// binary16 value, rounding half away from zero on the cut off bit.
// Values too large become infinities, values too small become zeros
// and NaN payloads are truncated but stay NaN.
func FloatToHalf(f float32) uint16 {
	fbits := math.Float32bits(f)
	sign := fbits >> 16 & 0x8000
	abs := fbits & 0x7fffffff
	val := abs + 0x1000

	if val >= 0x47800000 {
		if abs >= 0x47800000 {
			if abs < 0x7f800000 {
				return uint16(sign | 0x7c00)
			}
			h := sign | 0x7c00 | (fbits&0x007fffff)>>13
			if abs > 0x7f800000 && h&0x3ff == 0 {
				// the payload was only in the truncated bits
				h |= 0x200
			}
			return uint16(h)
		}
		return uint16(sign | 0x7bff)
	}

	if val >= 0x38800000 {
		return uint16(sign | (val-0x38000000)>>13)
	}

	if val < 0x33000000 {
		return uint16(sign)
	}

	e := abs >> 23
	return uint16(sign | ((fbits&0x7fffff|0x800000)+(0x800000>>((e-102)&31)))>>(126-e))
}
