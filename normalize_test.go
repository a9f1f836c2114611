package binfloat

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bigFromString(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad number " + s)
	}
	return v
}

func TestNormalize(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		p, P  uint
		e     uint64
		m     string
		eOut  uint64
		mOut  string
		isErr bool
	}{
		{23, 47, 100, "20565784002591", 121, "164526272020728", false},
		{23, 47, 100, "164526272020728", 124, "164526272020728", false},
		{3, 7, 127, "80", 130, "160", false},
		{3, 7, 0, "1", 0, "128", true},  // exponent underflow: 0+0-3
		{3, 7, 3, "1", 0, "128", false}, // 3+0-3
		{23, 47, 100, "0", 0, "", true},
		{3, 7, 127, "256", 0, "", true},
		{3, 3, 127, "8", 0, "", true},
		{7, 3, 127, "8", 0, "", true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			e, m, err := Normalize(8, test.p, test.P, test.e, bigFromString(test.m))
			if test.isErr {
				a.True(errors.Is(err, ErrOutOfRange), "unexpected error %v", err)
				return
			}
			if a.NoError(err) {
				a.Equal(test.eOut, e)
				a.Equal(test.mOut, m.String())
			}
		})
	}
	_, _, err := Normalize(8, 3, 7, 127, nil)
	a.True(errors.Is(err, ErrOutOfRange))
}

func TestNormalizeInvariant(t *testing.T) {
	a := assert.New(t)
	const e = 100
	for P := uint(1); P <= 10; P++ {
		for p := uint(0); p < P; p++ {
			lo, hi := mu2(P), mu2(P+1)
			for m := int64(1); m < hi.Int64(); m++ {
				eOut, mOut, err := Normalize(8, p, P, e, big.NewInt(m))
				if !a.NoError(err) {
					return
				}
				if !a.True(mOut.Cmp(lo) >= 0 && mOut.Cmp(hi) < 0, "P=%d, m=%d: %v", P, m, mOut) {
					return
				}
				// m * 2^(e-p) == mOut * 2^(eOut-P)
				left := new(big.Int).Lsh(big.NewInt(m), uint(e)+P)
				right := new(big.Int).Lsh(mOut, uint(eOut)+p)
				if !a.Equal(0, left.Cmp(right), "p=%d, P=%d, m=%d", p, P, m) {
					return
				}
			}
		}
	}
}

func mu2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func TestRoundNearestAndCheck(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		p, P  uint
		e     uint64
		m     int64
		eOut  uint64
		mOut  int64
		isErr bool
	}{
		{3, 7, 130, 160, 130, 10, false},
		{3, 7, 130, 248, 131, 8, false},  // 2^(P+1) - 2^(P-p-1)
		{3, 7, 130, 255, 131, 8, false},  // the largest mantissa
		{3, 7, 130, 247, 130, 15, false}, // just below the carry
		{3, 7, 130, 136, 130, 9, false},  // a tie goes up
		{3, 7, 130, 135, 130, 8, false},
		{3, 7, 130, 128, 130, 8, false},
		{3, 4, 130, 31, 131, 8, false}, // shift of a single bit
		{3, 4, 130, 29, 130, 15, false},
		{3, 4, 130, 28, 130, 14, false},
		{3, 7, 130, 127, 0, 0, true}, // not normalized
		{3, 7, 130, 256, 0, 0, true},
		{3, 3, 130, 8, 0, 0, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			e, m, err := RoundNearestAndCheck(8, test.p, test.P, test.e, big.NewInt(test.m))
			if test.isErr {
				a.True(errors.Is(err, ErrOutOfRange), "unexpected error %v", err)
				return
			}
			if a.NoError(err) {
				a.Equal(test.eOut, e)
				a.Equal(test.mOut, m.Int64())
			}
		})
	}
}

func TestRoundOverflowBoundary(t *testing.T) {
	a := assert.New(t)
	for P := uint(1); P <= 64; P++ {
		for p := uint(0); p < P; p++ {
			boundary := new(big.Int).Sub(mu2(P+1), mu2(P-p-1))
			e, m, err := RoundNearestAndCheck(11, p, P, 1000, boundary)
			if !a.NoError(err) {
				return
			}
			a.Equal(uint64(1001), e)
			a.Equal(0, m.Cmp(mu2(p)), "p=%d, P=%d: %v", p, P, m)

			below := new(big.Int).Sub(boundary, big.NewInt(1))
			e, m, err = RoundNearestAndCheck(11, p, P, 1000, below)
			if !a.NoError(err) {
				return
			}
			a.Equal(uint64(1000), e)
			a.Equal(0, m.Cmp(new(big.Int).Sub(mu2(p+1), big.NewInt(1))), "p=%d, P=%d: %v", p, P, m)
		}
	}
}
