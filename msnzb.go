package binfloat

import (
	"math/big"

	mu "github.com/avdva/binfloat/internal/mathutil"
)

// MSNZB returns the position of the most significant non-zero bit of inp,
// i.e. such ell, that 2^ell <= inp < 2^(ell+1).
// inp must be positive and fit in b bits.
func MSNZB(inp *big.Int, b uint) (uint, error) {
	if inp == nil || inp.Sign() <= 0 {
		return 0, rangeError("msnzb of a non-positive number %v", inp)
	}
	if !mu.CheckBitLength(inp, b) {
		return 0, rangeError("msnzb: %v does not fit in %d bits", inp, b)
	}
	return uint(inp.BitLen() - 1), nil
}

// MSNZBOneHot returns b flags, where only the flag at MSNZB(inp, b) is set.
func MSNZBOneHot(inp *big.Int, b uint) ([]bool, error) {
	ell, err := MSNZB(inp, b)
	if err != nil {
		return nil, err
	}
	return mu.OneHot(ell, b), nil
}
