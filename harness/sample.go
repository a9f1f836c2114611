// Package harness drives the adder with sampled or recorded operands:
// it evaluates batches in parallel, renders values in decimal,
// summarizes rounding errors and exports the results as test vectors.
package harness

import (
	"math/big"
	"math/rand"

	"github.com/avdva/binfloat"
)

// NoGap makes Sampler.Pair draw both exponents independently.
const NoGap = -1

// Case is a pair of operands.
type Case struct {
	A, B binfloat.Value
}

// Sampler draws random operands.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler returns a sampler with a fixed seed, so that batches can be reproduced.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

// Sample returns a well-formed value of f.
// Exponents are drawn from a small range [2^(k-1), 2^(k-1)+2p],
// so that the operands of a pair often overlap, and all the branches of the adder are hit.
func (s *Sampler) Sample(f binfloat.Format) binfloat.Value {
	lo := uint64(1) << (f.K - 1)
	e := lo + uint64(s.rnd.Int63n(2*int64(f.P)+1))
	if maxExp := f.MaxExponent(); e > maxExp {
		e = maxExp
	}
	pow := new(big.Int).Lsh(big.NewInt(1), f.P)
	m := new(big.Int).Rand(s.rnd, pow)
	return binfloat.Value{E: e, M: m.Add(m, pow)}
}

// Pair returns two values of f.
// If gap is not NoGap, the exponent of the second one is set to e1 - gap.
// If e1 <= gap, the second value is zero.
func (s *Sampler) Pair(f binfloat.Format, gap int) Case {
	c := Case{A: s.Sample(f), B: s.Sample(f)}
	if gap < 0 {
		return c
	}
	if c.A.E <= uint64(gap) {
		c.B = binfloat.Zero()
	} else {
		c.B.E = c.A.E - uint64(gap)
	}
	return c
}

// Cases returns n pairs, see Pair.
func (s *Sampler) Cases(f binfloat.Format, n, gap int) []Case {
	result := make([]Case, n)
	for i := range result {
		result[i] = s.Pair(f, gap)
	}
	return result
}
