package binfloat

import (
	"math/big"

	mu "github.com/avdva/binfloat/internal/mathutil"
)

// Normalize re-expresses (e, m), a non-zero mantissa m of at most P+1 bits with precision p,
// at precision P, so that the resulting mantissa lies in [2^P, 2^(P+1)).
// The result represents exactly the same number: no rounding takes place.
// k is not used by the calculation.
func Normalize(k, p, P uint, e uint64, m *big.Int) (uint64, *big.Int, error) {
	if P <= p {
		return 0, nil, rangeError("normalize: precision %d must be greater than %d", P, p)
	}
	if m == nil || m.Sign() == 0 {
		return 0, nil, rangeError("normalize: zero mantissa")
	}
	ell, err := MSNZB(m, P+1)
	if err != nil {
		return 0, nil, err
	}
	// shifting left by P-ell subtracts P-ell from the exponent,
	// widening the precision from p to P adds P-p.
	eOut, ok := mu.AddExp(e, int64(ell)-int64(p))
	if !ok {
		return 0, nil, rangeError("normalize: exponent %d%+d is out of range", e, int64(ell)-int64(p))
	}
	return eOut, new(big.Int).Lsh(m, P-ell), nil
}

// RoundNearestAndCheck rounds (e, m), normalized at precision P, to the precision p < P.
// Ties are rounded up, i.e. towards the larger magnitude.
// If rounding carries into the next binade, the result is (e+1, 2^p).
func RoundNearestAndCheck(k, p, P uint, e uint64, m *big.Int) (uint64, *big.Int, error) {
	if P <= p {
		return 0, nil, rangeError("round: precision %d must be greater than %d", P, p)
	}
	if m == nil || m.Cmp(mu.Pow2(P)) < 0 || !mu.CheckBitLength(m, P+1) {
		return 0, nil, rangeError("round: mantissa %v is not normalized at precision %d", m, P)
	}
	shift := P - p
	half := mu.Pow2(shift - 1)
	// for m >= 2^(P+1) - 2^(P-p-1) the rounded mantissa would be 2^(p+1).
	threshold := new(big.Int).Sub(mu.Pow2(P+1), half)
	if m.Cmp(threshold) >= 0 {
		eOut, ok := mu.AddExp(e, 1)
		if !ok {
			return 0, nil, rangeError("round: exponent %d+1 is out of range", e)
		}
		return eOut, mu.Pow2(p), nil
	}
	rounded, ok := mu.RightShift(new(big.Int).Add(m, half), P+2, shift)
	if !ok {
		return 0, nil, rangeError("round: %v+%v does not fit in %d bits", m, half, P+2)
	}
	return e, rounded, nil
}
