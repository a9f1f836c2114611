package harness

import (
	"context"

	"github.com/avdva/binfloat"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of a single addition.
type Result struct {
	Case
	// Sum is a+b. It is zero, if Err is not nil.
	Sum   binfloat.Value
	Trace binfloat.Trace
	// Err is set for malformed operands.
	Err error
}

// Run adds all the pairs using up to workers goroutines.
// If workers <= 0, the number of goroutines is not limited.
// Malformed operands do not stop the batch, their errors are reported in Result.Err.
// Results are returned in the order of cases.
func Run(ctx context.Context, f binfloat.Format, cases []Case, workers int) ([]Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	results := make([]Result, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range cases {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = evaluate(f, cases[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// the loop might have stopped before any goroutine failed.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluate(f binfloat.Format, c Case) Result {
	tr, err := f.AddTrace(c.A, c.B)
	if err != nil {
		return Result{Case: c, Sum: binfloat.Zero(), Err: err}
	}
	return Result{Case: c, Sum: tr.Result, Trace: tr}
}
