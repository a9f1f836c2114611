// Package mathutil contains the bit-level primitives the adder is assembled from.
// Every primitive states its bit width explicitly, so that the same steps can be
// mirrored by a fixed-width implementation.
package mathutil

import (
	"math"
	"math/big"
	"math/bits"
	"unsafe"

	"github.com/JohnCGriffin/overflow"
)

// Pow2 returns a new big.Int equal to 2^n.
func Pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

// BinaryDigits returns the number of bits needed to represent value.
func BinaryDigits(value uint64) int {
	return int(8*unsafe.Sizeof(uint64(0))) - bits.LeadingZeros64(value)
}

// CheckBitLength reports whether x is non-negative and fits in b bits.
func CheckBitLength(x *big.Int, b uint) bool {
	return x.Sign() >= 0 && x.BitLen() <= int(b)
}

// CheckBitLength64 is CheckBitLength for machine words.
func CheckBitLength64(x uint64, b uint) bool {
	return BinaryDigits(x) <= int(b)
}

// LeftShift returns x << shift.
// shift must be strictly less than bound, otherwise ok is false.
func LeftShift(x *big.Int, shift, bound uint) (y *big.Int, ok bool) {
	if shift >= bound {
		return nil, false
	}
	return new(big.Int).Lsh(x, shift), true
}

// RightShift returns x >> shift, where x is a non-negative number of at most b bits.
// If x does not fit in b bits, ok is false.
func RightShift(x *big.Int, b, shift uint) (y *big.Int, ok bool) {
	if !CheckBitLength(x, b) {
		return nil, false
	}
	return new(big.Int).Rsh(x, shift), true
}

// OneHot returns b flags, where only the flag at pos is set.
// If pos >= b, all flags are cleared.
func OneHot(pos, b uint) []bool {
	result := make([]bool, b)
	if pos < b {
		result[pos] = true
	}
	return result
}

// AddExp returns e + delta for a biased exponent e.
// ok is false if e does not fit int64, or if the result is negative or overflows.
func AddExp(e uint64, delta int64) (result uint64, ok bool) {
	if e > math.MaxInt64 {
		return 0, false
	}
	sum, ok := overflow.Add64(int64(e), delta)
	if !ok || sum < 0 {
		return 0, false
	}
	return uint64(sum), true
}
