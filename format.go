// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package binfloat implements addition of binary floating-point numbers with
// a k-bit biased exponent and a (p+1)-bit normalized mantissa.
// All the steps are performed on integers, so that the result can be reproduced
// bit-for-bit by a hardware or a circuit implementation.
//
// A value is a pair (e, m), representing m / 2^p * 2^(e - bias), where bias = 2^(k-1) - 1.
// Zero is encoded as (0, 0). Otherwise 1 <= e < 2^k and 2^p <= m < 2^(p+1).
// Infinities, NaNs and subnormal numbers are not supported.
package binfloat

import (
	"fmt"
	"math"
	"math/big"

	mu "github.com/avdva/binfloat/internal/mathutil"
)

const (
	maxExpBits   = 63
	maxPrecision = 1 << 16

	float64MantBits = 52
)

var (
	// Binary16 is the IEEE-754 half precision layout.
	Binary16 = Format{K: 5, P: 10}
	// BFloat16 is the brain floating-point layout.
	BFloat16 = Format{K: 8, P: 7}
	// Binary32 is the IEEE-754 single precision layout.
	Binary32 = Format{K: 8, P: 23}
	// Binary64 is the IEEE-754 double precision layout.
	Binary64 = Format{K: 11, P: 52}
	// Tiny is an 8-bit exponent with a 3-bit fraction, handy for tracing by hand.
	Tiny = Format{K: 8, P: 3}
)

// Format defines the widths of a floating-point number.
type Format struct {
	// K is the number of bits in the biased exponent.
	K uint
	// P is the precision: the number of fractional mantissa bits.
	P uint
}

// Validate returns an error if f can't be used for calculations.
func (f Format) Validate() error {
	if f.K == 0 || f.K > maxExpBits {
		return fmt.Errorf("%w: exponent width %d is not in [1, %d]", ErrInvalidFormat, f.K, maxExpBits)
	}
	if f.P > maxPrecision {
		return fmt.Errorf("%w: precision %d exceeds %d", ErrInvalidFormat, f.P, maxPrecision)
	}
	return nil
}

// Bias returns 2^(k-1) - 1.
func (f Format) Bias() int64 {
	return 1<<(f.K-1) - 1
}

// MaxExponent returns the largest biased exponent, 2^k - 1.
func (f Format) MaxExponent() uint64 {
	return 1<<f.K - 1
}

// String returns a (k, p) representation of the format.
func (f Format) String() string {
	return fmt.Sprintf("(k=%d, p=%d)", f.K, f.P)
}

// Check returns an error if v is not a well-formed value of f.
func (f Format) Check(v Value) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return CheckWellFormedness(f.K, f.P, v.E, v.mant())
}

// Pack lays v out as a single number: the exponent occupies the high K bits,
// and the fractional part of the mantissa (without its leading bit) the low P bits.
//
//	K+P-1       P-1                0
//	____________|__________________
//	eeeeeeeeeeeeffffffffffffffffffff
//
// The format must fit in 64 bits.
func (f Format) Pack(v Value) (uint64, error) {
	if err := f.validatePacked(); err != nil {
		return 0, err
	}
	if err := CheckWellFormedness(f.K, f.P, v.E, v.mant()); err != nil {
		return 0, err
	}
	if v.E == 0 {
		return 0, nil
	}
	frac := new(big.Int).Sub(v.M, mu.Pow2(f.P))
	return v.E<<f.P | frac.Uint64(), nil
}

// Unpack is the reverse of Pack.
func (f Format) Unpack(bits uint64) (Value, error) {
	if err := f.validatePacked(); err != nil {
		return Zero(), err
	}
	if !mu.CheckBitLength64(bits, f.K+f.P) {
		return Zero(), fmt.Errorf("%w: %#x does not fit in %d bits", ErrOutOfRange, bits, f.K+f.P)
	}
	e, frac := bits>>f.P, bits&(1<<f.P-1)
	if e == 0 {
		if frac != 0 {
			return Zero(), &OperandError{E: e, M: new(big.Int).SetUint64(frac), Reason: "subnormal numbers are not supported"}
		}
		return Zero(), nil
	}
	m := new(big.Int).SetUint64(frac)
	return Value{E: e, M: m.SetBit(m, int(f.P), 1)}, nil
}

func (f Format) validatePacked() error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.K+f.P > 64 {
		return fmt.Errorf("%w: %v does not fit in 64 bits", ErrInvalidFormat, f)
	}
	return nil
}

// FromFloat64 returns the value of f equal to x.
// Returns an error for negative values, infinities, NaNs, and numbers
// that can't be represented exactly.
func (f Format) FromFloat64(x float64) (Value, error) {
	if err := f.Validate(); err != nil {
		return Zero(), err
	}
	if x < 0 || math.Signbit(x) || math.IsInf(x, 0) || math.IsNaN(x) {
		return Zero(), fmt.Errorf("%w: bad float number %v", ErrOutOfRange, x)
	}
	if x == 0 {
		return Zero(), nil
	}
	frac, exp := math.Frexp(x) // x = frac * 2^exp, 0.5 <= frac < 1
	m := new(big.Int).SetUint64(uint64(math.Ldexp(frac, float64MantBits+1)))
	if f.P >= float64MantBits {
		m.Lsh(m, f.P-float64MantBits)
	} else {
		shift := float64MantBits - f.P
		if m.TrailingZeroBits() < shift {
			return Zero(), fmt.Errorf("%w: %v needs more than %d fractional bits", ErrOutOfRange, x, f.P)
		}
		m.Rsh(m, shift)
	}
	e := int64(exp) - 1 + f.Bias()
	if e < 1 || uint64(e) > f.MaxExponent() {
		return Zero(), fmt.Errorf("%w: exponent of %v does not fit %d bits", ErrOutOfRange, x, f.K)
	}
	return Value{E: uint64(e), M: m}, nil
}

// Float64 returns the nearest float64 to v.
// The result is not checked for overflow or underflow.
func (f Format) Float64(v Value) float64 {
	if v.IsZero() {
		return 0
	}
	result := new(big.Float).SetInt(v.M)
	result.SetMantExp(result, int(int64(v.E)-f.Bias()-int64(f.P)))
	x, _ := result.Float64()
	return x
}
