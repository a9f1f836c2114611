package harness

import (
	"fmt"

	"github.com/avdva/binfloat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// relErrPrecision is the number of decimal places used to calculate relative errors.
const relErrPrecision = 64

// Summary describes a batch of results.
type Summary struct {
	Count    int
	Summed   int
	Absorbed int
	Zero     int
	// Carried is the number of sums, where rounding has carried into the next binade.
	Carried int
	Failed  int
	// Unmeasured is the number of sums without a relative error:
	// exact zeros and values out of the decimal range.
	Unmeasured int

	// Relative errors of the rounded sums against the exact ones.
	MaxRelErr, MeanRelErr, StdRelErr float64
}

// Summarize counts the branches taken by the adder and calculates error statistics.
func Summarize(f binfloat.Format, results []Result) Summary {
	s := Summary{Count: len(results)}
	var relErrs []float64
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		switch r.Trace.Branch {
		case binfloat.BranchSum:
			s.Summed++
		case binfloat.BranchAbsorbed:
			s.Absorbed++
		case binfloat.BranchZero:
			s.Zero++
		}
		if r.Trace.Carried {
			s.Carried++
		}
		relErr, ok := relativeError(f, r)
		if !ok {
			s.Unmeasured++
			continue
		}
		relErrs = append(relErrs, relErr)
	}
	switch len(relErrs) {
	case 0:
	case 1:
		s.MaxRelErr, s.MeanRelErr = relErrs[0], relErrs[0]
	default:
		s.MaxRelErr = floats.Max(relErrs)
		s.MeanRelErr, s.StdRelErr = stat.MeanStdDev(relErrs, nil)
	}
	return s
}

// relativeError returns |sum - (a+b)| / (a+b).
// ok is false, if the exact sum is zero or can not be represented in decimal.
func relativeError(f binfloat.Format, r Result) (relErr float64, ok bool) {
	a, errA := Decimal(f, r.A)
	b, errB := Decimal(f, r.B)
	sum, errSum := Decimal(f, r.Sum)
	if errA != nil || errB != nil || errSum != nil {
		return 0, false
	}
	exact := a.Add(b)
	if exact.IsZero() {
		return 0, false
	}
	relErr, _ = sum.Sub(exact).Abs().DivRound(exact, relErrPrecision).Float64()
	return relErr, true
}

// String returns a one-line representation of the summary.
func (s Summary) String() string {
	return fmt.Sprintf("count=%d summed=%d absorbed=%d zero=%d carried=%d failed=%d unmeasured=%d rel_err(max=%g mean=%g std=%g)",
		s.Count, s.Summed, s.Absorbed, s.Zero, s.Carried, s.Failed, s.Unmeasured, s.MaxRelErr, s.MeanRelErr, s.StdRelErr)
}
