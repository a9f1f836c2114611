package harness

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/avdva/binfloat"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// maxDecimalShift bounds the binary exponent of values rendered in decimal,
// so that 5^shift stays a reasonably sized number.
const maxDecimalShift = 1 << 16

// Decimal returns the exact value of v, m / 2^p * 2^(e - bias).
// It returns an error wrapping binfloat.ErrOutOfRange, if the binary exponent
// of v exceeds maxDecimalShift in absolute value.
func Decimal(f binfloat.Format, v binfloat.Value) (decimal.Decimal, error) {
	if v.IsZero() {
		return decimal.Zero, nil
	}
	shift := int64(v.E) - f.Bias() - int64(f.P)
	if shift > maxDecimalShift || shift < -maxDecimalShift {
		return decimal.Zero, fmt.Errorf("%w: %v has binary exponent %d", binfloat.ErrOutOfRange, v, shift)
	}
	if shift >= 0 {
		return decimal.NewFromBigInt(new(big.Int).Lsh(v.M, uint(shift)), 0), nil
	}
	// m / 2^n = m * 5^n / 10^n
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(-shift), nil)
	return decimal.NewFromBigInt(five.Mul(five, v.M), int32(shift)), nil
}

// String returns a decimal representation of v. Zero is "0.0".
// Values out of the decimal range are written as m*2^n.
func String(f binfloat.Format, v binfloat.Value) string {
	if v.IsZero() {
		return "0.0"
	}
	d, err := Decimal(f, v)
	if err != nil {
		return fmt.Sprintf("%s*2^%d", v.M, int64(v.E)-f.Bias()-int64(f.P))
	}
	s := d.String()
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// ToFloat returns an approximation of v.
func ToFloat[T constraints.Float](f binfloat.Format, v binfloat.Value) T {
	return T(f.Float64(v))
}
