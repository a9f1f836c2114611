// Copyright 2020 Aleksandr Demakin. All rights reserved.

package binfloat

import (
	"math/big"

	mu "github.com/avdva/binfloat/internal/mathutil"
)

// Branch tells which path the adder has taken.
type Branch int

const (
	// BranchSum means the operands were aligned, summed, normalized and rounded.
	BranchSum Branch = iota
	// BranchAbsorbed means the smaller operand is below the rounding threshold,
	// and the larger one was returned as is.
	BranchAbsorbed
	// BranchZero means both operands were zero.
	BranchZero
)

func (b Branch) String() string {
	switch b {
	case BranchSum:
		return "sum"
	case BranchAbsorbed:
		return "absorbed"
	case BranchZero:
		return "zero"
	default:
		return "unknown"
	}
}

// Trace holds all the intermediate values of an addition.
// It can be used to check a step-by-step implementation of the algorithm,
// for instance, the witness of an arithmetic circuit.
// Fields after Diff are only set for BranchSum.
type Trace struct {
	Branch Branch
	// Alpha is the operand with the larger magnitude, Beta is the other one.
	Alpha, Beta Value
	Diff        uint64
	// Aligned is the sum of the aligned mantissas with exponent Beta.E and precision p.
	Aligned *big.Int
	// Normalized is the sum at precision 2p+1.
	Normalized Value
	// Carried is true, if rounding has overflowed into the next binade.
	Carried bool
	Result  Value
}

// Add returns the sum of two well-formed values (e1, m1) and (e2, m2)
// with k-bit exponents and precision p.
// Returns an *OperandError wrapping ErrInvalidOperand if an operand is malformed.
// The exponent of the result is not checked for overflow, and might be equal to 2^k.
func Add(k, p uint, e1 uint64, m1 *big.Int, e2 uint64, m2 *big.Int) (uint64, *big.Int, error) {
	tr, err := addTrace(k, p, NewValueBig(e1, m1), NewValueBig(e2, m2))
	if err != nil {
		return 0, nil, err
	}
	return tr.Result.E, tr.Result.M, nil
}

// Add returns a+b.
func (f Format) Add(a, b Value) (Value, error) {
	tr, err := f.AddTrace(a, b)
	if err != nil {
		return Zero(), err
	}
	return tr.Result, nil
}

// MustAdd returns a+b. It panics if an operand is malformed.
func (f Format) MustAdd(a, b Value) Value {
	v, err := f.Add(a, b)
	if err != nil {
		panic(err)
	}
	return v
}

// AddTrace returns a+b together with all the intermediate values.
func (f Format) AddTrace(a, b Value) (Trace, error) {
	return addTrace(f.K, f.P, a.Clone(), b.Clone())
}

// addTrace owns a and b.
func addTrace(k, p uint, a, b Value) (Trace, error) {
	var tr Trace
	if err := (Format{K: k, P: p}).Validate(); err != nil {
		return tr, err
	}
	if err := checkWellFormedness(1, k, p, a.E, a.M); err != nil {
		return tr, err
	}
	if err := checkWellFormedness(2, k, p, b.E, b.M); err != nil {
		return tr, err
	}

	// comparing e1 || m1 against e2 || m2 over k+p+1 bits compares the magnitudes,
	// as the mantissas of non-zero values have the same bit length.
	if magnitudeKey(p, a).Cmp(magnitudeKey(p, b)) > 0 {
		tr.Alpha, tr.Beta = a, b
	} else {
		tr.Alpha, tr.Beta = b, a
	}
	alpha, beta := tr.Alpha, tr.Beta

	tr.Diff = alpha.E - beta.E
	if alpha.E == 0 {
		tr.Branch, tr.Result = BranchZero, alpha.Clone()
		return tr, nil
	}
	if tr.Diff > uint64(p)+1 {
		tr.Branch, tr.Result = BranchAbsorbed, alpha.Clone()
		return tr, nil
	}

	// (e, m) and (e-diff, m<<diff) represent the same number.
	// the sum fits in 2p+2 bits.
	aligned, ok := mu.LeftShift(alpha.M, uint(tr.Diff), p+2)
	if !ok {
		return tr, rangeError("add: alignment shift %d exceeds %d", tr.Diff, p+1)
	}
	tr.Aligned = aligned.Add(aligned, beta.M)

	P := 2*p + 1
	e, m, err := Normalize(k, p, P, beta.E, tr.Aligned)
	if err != nil {
		return tr, err
	}
	tr.Normalized = Value{E: e, M: m}

	e, m, err = RoundNearestAndCheck(k, p, P, e, m)
	if err != nil {
		return tr, err
	}
	tr.Carried = e != tr.Normalized.E
	tr.Result = Value{E: e, M: m}
	return tr, nil
}

func magnitudeKey(p uint, v Value) *big.Int {
	key := new(big.Int).SetUint64(v.E)
	key.Lsh(key, p+1)
	return key.Add(key, v.mant())
}
