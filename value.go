// Copyright 2020 Aleksandr Demakin. All rights reserved.

package binfloat

import (
	"fmt"
	"math/big"
)

// Value is an (exponent, mantissa) pair.
// The exponent is stored as is, i.e. biased. The mantissa includes its leading bit.
// Values are treated as immutable: no function of this package changes its arguments.
type Value struct {
	E uint64
	M *big.Int
}

// Zero returns the canonical zero (0, 0).
func Zero() Value {
	return Value{M: new(big.Int)}
}

// NewValue returns a value for given exponent and mantissa.
// The pair is not checked, see Format.Check.
func NewValue(e, m uint64) Value {
	return Value{E: e, M: new(big.Int).SetUint64(m)}
}

// NewValueBig returns a value for given exponent and a copy of m.
func NewValueBig(e uint64, m *big.Int) Value {
	if m == nil {
		return Value{E: e, M: new(big.Int)}
	}
	return Value{E: e, M: new(big.Int).Set(m)}
}

func (v Value) mant() *big.Int {
	if v.M == nil {
		return new(big.Int)
	}
	return v.M
}

// IsZero returns true for the (0, 0) pair.
func (v Value) IsZero() bool {
	return v.E == 0 && v.mant().Sign() == 0
}

// Equal returns true, if both pairs are bitwise equal.
func (v Value) Equal(other Value) bool {
	return v.E == other.E && v.mant().Cmp(other.mant()) == 0
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	return NewValueBig(v.E, v.M)
}

// String returns an (e, m) representation of the value.
func (v Value) String() string {
	return fmt.Sprintf("(%d, %s)", v.E, v.mant().String())
}

// GoString returns debug string representation.
func (v Value) GoString() string {
	return fmt.Sprintf("binfloat.Value{E: %d, M: %s (%#b)}", v.E, v.mant().String(), v.mant())
}
