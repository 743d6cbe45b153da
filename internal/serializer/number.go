package serializer

import (
	"math"
	"strconv"
)

// sizeTable[i] is the largest value with i+1 decimal digits.
var sizeTable = [...]uint64{
	9, 99, 999, 9999, 99999, 999999, 9999999, 99999999, 999999999,
	9999999999, 99999999999, 999999999999, 9999999999999, 99999999999999,
	999999999999999, 9999999999999999, 99999999999999999, 999999999999999999,
	9999999999999999999,
}

func stringSize(u uint64) int {
	for i, max := range sizeTable {
		if u <= max {
			return i + 1
		}
	}
	return len(sizeTable) + 1
}

// fillDigits writes u right-aligned into dst.
func fillDigits(dst []byte, u uint64) {
	p := len(dst) - 1
	for u >= 100 {
		q := u / 100
		r := u - q*100
		dst[p] = byte('0' + r%10)
		dst[p-1] = byte('0' + r/10)
		p -= 2
		u = q
	}
	if u >= 10 {
		dst[p] = byte('0' + u%10)
		dst[p-1] = byte('0' + u/10)
		return
	}
	dst[p] = byte('0' + u)
}

// AppendFloat appends the shortest decimal that round-trips f at the given
// bit size. Magnitudes below 1e-6 or from 1e21 up use exponent notation; a
// trailing ".0" is never produced.
func AppendFloat(dst []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(dst) - start
		if n >= 4 && dst[len(dst)-4] == 'e' && dst[len(dst)-3] == '-' && dst[len(dst)-2] == '0' {
			dst[len(dst)-2] = dst[len(dst)-1]
			dst = dst[:len(dst)-1]
		}
	}
	if n := len(dst); n-start >= 2 && dst[n-2] == '.' && dst[n-1] == '0' {
		dst = dst[:n-2]
	}
	return dst
}
