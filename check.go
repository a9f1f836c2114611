package binfloat

import (
	"fmt"
	"math/big"

	mu "github.com/avdva/binfloat/internal/mathutil"
)

// CheckWellFormedness returns an *OperandError if (e, m) is not a well-formed pair
// for a k-bit exponent and precision p:
//   - if e is zero, m must be zero;
//   - otherwise e must fit in k bits, and m must lie in [2^p, 2^(p+1)).
//
// A nil m is treated as zero.
func CheckWellFormedness(k, p uint, e uint64, m *big.Int) error {
	return checkWellFormedness(0, k, p, e, m)
}

func checkWellFormedness(index int, k, p uint, e uint64, m *big.Int) error {
	if m == nil {
		m = new(big.Int)
	}
	if e == 0 {
		if m.Sign() != 0 {
			return &OperandError{Index: index, E: e, M: m, Reason: "zero exponent with a non-zero mantissa"}
		}
		return nil
	}
	if !mu.CheckBitLength64(e, k) {
		return &OperandError{Index: index, E: e, M: m, Reason: fmt.Sprintf("exponent does not fit in %d bits", k)}
	}
	// m is in [2^p, 2^(p+1)) iff m - 2^p is in [0, 2^p).
	if tmp := new(big.Int).Sub(m, mu.Pow2(p)); !mu.CheckBitLength(tmp, p) {
		return &OperandError{Index: index, E: e, M: m, Reason: fmt.Sprintf("mantissa is not normalized at precision %d", p)}
	}
	return nil
}
