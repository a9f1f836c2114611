package binfloat

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckWellFormedness(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		k, p   uint
		e      uint64
		m      int64
		reason string
	}{
		{8, 3, 0, 0, ""},
		{8, 3, 1, 8, ""},
		{8, 3, 255, 15, ""},
		{8, 23, 127, 1 << 23, ""},
		{8, 23, 127, 1<<24 - 1, ""},
		{8, 3, 0, 8, "zero exponent with a non-zero mantissa"},
		{8, 3, 256, 8, "exponent does not fit in 8 bits"},
		{8, 3, 1, 7, "mantissa is not normalized at precision 3"},
		{8, 3, 1, 16, "mantissa is not normalized at precision 3"},
		{8, 3, 1, 0, "mantissa is not normalized at precision 3"},
		{8, 3, 1, -8, "mantissa is not normalized at precision 3"},
		{8, 0, 1, 1, ""},
		{8, 0, 1, 2, "mantissa is not normalized at precision 0"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			err := CheckWellFormedness(test.k, test.p, test.e, big.NewInt(test.m))
			if len(test.reason) == 0 {
				a.NoError(err)
				return
			}
			var oe *OperandError
			if a.True(errors.As(err, &oe)) {
				a.Equal(test.reason, oe.Reason)
				a.Equal(0, oe.Index)
			}
			a.True(errors.Is(err, ErrInvalidOperand))
		})
	}
	a.NoError(CheckWellFormedness(8, 3, 0, nil))
	a.Error(CheckWellFormedness(8, 3, 1, nil))
}

func TestOperandErrorString(t *testing.T) {
	a := assert.New(t)
	err := &OperandError{Index: 2, E: 256, M: big.NewInt(8), Reason: "exponent does not fit in 8 bits"}
	a.EqualError(err, "operand 2: invalid operand (256, 8): exponent does not fit in 8 bits")
	err.Index = 0
	a.EqualError(err, "invalid operand (256, 8): exponent does not fit in 8 bits")
}
