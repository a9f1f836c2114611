// floatadd adds binary floating-point numbers the way the binfloat package does,
// and produces or checks test vectors for other implementations of the adder.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/avdva/binfloat"
	"github.com/avdva/binfloat/harness"
	"github.com/docopt/docopt-go"
)

const usage = `Binary floating-point adder.
Usage:
  floatadd add [--format=FORMAT] [--k=K] [--p=P] [--trace] <e1> <m1> <e2> <m2>
  floatadd sample [--format=FORMAT] [--k=K] [--p=P] [--n=N] [--seed=SEED] [--gap=GAP]
                  [--workers=WORKERS] [--json] [--zstd] [--out=FILE]
  floatadd verify [--format=FORMAT] [--k=K] [--p=P] [--workers=WORKERS] [--zstd] <file>
  floatadd -h | --help
Options:
  -h --help            Show this screen.
  --format=FORMAT      One of binary16, bfloat16, binary32, binary64, tiny [default: binary32].
  --k=K                Exponent width, -1 takes it from the format [default: -1].
  --p=P                Precision, -1 takes it from the format [default: -1].
  --trace              Print the intermediate values of the addition.
  --n=N                Number of pairs to sample [default: 100].
  --seed=SEED          Random seed [default: 1].
  --gap=GAP            Exponent gap of the second operand, -1 draws it independently [default: -1].
  --workers=WORKERS    Number of goroutines, 0 means unlimited [default: 0].
  --json               Write json lines instead of a table.
  --zstd               Compress the output, or decompress the input, with zstd.
  --out=FILE           Output file, - for stdout [default: -].`

var formats = map[string]binfloat.Format{
	"binary16": binfloat.Binary16,
	"bfloat16": binfloat.BFloat16,
	"binary32": binfloat.Binary32,
	"binary64": binfloat.Binary64,
	"tiny":     binfloat.Tiny,
}

type config struct {
	Help   bool `docopt:"--help"`
	Add    bool `docopt:"add"`
	Sample bool `docopt:"sample"`
	Verify bool `docopt:"verify"`

	Format  string `docopt:"--format"`
	K       string `docopt:"--k"`
	P       string `docopt:"--p"`
	Trace   bool   `docopt:"--trace"`
	N       string `docopt:"--n"`
	Seed    string `docopt:"--seed"`
	Gap     string `docopt:"--gap"`
	Workers string `docopt:"--workers"`
	JSON    bool   `docopt:"--json"`
	Zstd    bool   `docopt:"--zstd"`
	Out     string `docopt:"--out"`

	E1   string `docopt:"<e1>"`
	M1   string `docopt:"<m1>"`
	E2   string `docopt:"<e2>"`
	M2   string `docopt:"<m2>"`
	File string `docopt:"<file>"`
}

func parseConfig(p *docopt.Parser, argv []string) (config, error) {
	var cfg config
	opts, err := p.ParseArgs(usage, argv, "")
	if err != nil {
		return cfg, err
	}
	if err := opts.Bind(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg config) format() (binfloat.Format, error) {
	f, found := formats[strings.ToLower(cfg.Format)]
	if !found {
		return f, fmt.Errorf("unknown format %q", cfg.Format)
	}
	if err := overrideWidth(&f.K, cfg.K, "--k"); err != nil {
		return f, err
	}
	if err := overrideWidth(&f.P, cfg.P, "--p"); err != nil {
		return f, err
	}
	return f, f.Validate()
}

// overrideWidth sets *w to s, unless s is empty or negative.
func overrideWidth(w *uint, s, name string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return fmt.Errorf("bad %s: %w", name, err)
	}
	if v >= 0 {
		*w = uint(v)
	}
	return nil
}

func parseInt(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", name, err)
	}
	return v, nil
}

func parseValue(es, ms string) (binfloat.Value, error) {
	e, err := strconv.ParseUint(es, 0, 64)
	if err != nil {
		return binfloat.Value{}, fmt.Errorf("bad exponent: %w", err)
	}
	m, ok := new(big.Int).SetString(ms, 0)
	if !ok {
		return binfloat.Value{}, fmt.Errorf("bad mantissa %q", ms)
	}
	return binfloat.Value{E: e, M: m}, nil
}

func runAdd(w io.Writer, f binfloat.Format, cfg config) error {
	a, err := parseValue(cfg.E1, cfg.M1)
	if err != nil {
		return err
	}
	b, err := parseValue(cfg.E2, cfg.M2)
	if err != nil {
		return err
	}
	tr, err := f.AddTrace(a, b)
	if err != nil {
		return err
	}
	if cfg.Trace {
		fmt.Fprintf(w, "alpha:      %v\n", tr.Alpha)
		fmt.Fprintf(w, "beta:       %v\n", tr.Beta)
		fmt.Fprintf(w, "diff:       %d\n", tr.Diff)
		fmt.Fprintf(w, "branch:     %v\n", tr.Branch)
		if tr.Branch == binfloat.BranchSum {
			fmt.Fprintf(w, "aligned:    %b\n", tr.Aligned)
			fmt.Fprintf(w, "normalized: (%d, %b)\n", tr.Normalized.E, tr.Normalized.M)
			fmt.Fprintf(w, "carried:    %v\n", tr.Carried)
		}
	}
	_, err = fmt.Fprintf(w, "%s + %s = %v = %s\n", harness.String(f, a), harness.String(f, b), tr.Result, harness.String(f, tr.Result))
	return err
}

func runSample(ctx context.Context, stdout io.Writer, f binfloat.Format, cfg config) error {
	n, err := parseInt(cfg.N, "--n")
	if err != nil {
		return err
	}
	seed, err := strconv.ParseInt(cfg.Seed, 0, 64)
	if err != nil {
		return fmt.Errorf("bad --seed: %w", err)
	}
	gap, err := parseInt(cfg.Gap, "--gap")
	if err != nil {
		return err
	}
	workers, err := parseInt(cfg.Workers, "--workers")
	if err != nil {
		return err
	}
	results, err := harness.Run(ctx, f, harness.NewSampler(seed).Cases(f, n, gap), workers)
	if err != nil {
		return err
	}

	w, closeOutput, err := openOutput(stdout, cfg.Out, cfg.Zstd)
	if err != nil {
		return err
	}
	if cfg.JSON {
		err = harness.WriteJSON(w, results)
	} else {
		err = harness.WriteText(w, f, results)
	}
	if cerr := closeOutput(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Printf("%v: %v", f, harness.Summarize(f, results))
	log.Printf("digest: %016x", harness.Digest(results))
	return nil
}

func openOutput(stdout io.Writer, name string, compress bool) (w io.Writer, closeFn func() error, err error) {
	w, closeFn = stdout, func() error { return nil }
	if name != "" && name != "-" {
		file, err := os.Create(name)
		if err != nil {
			return nil, nil, err
		}
		w, closeFn = file, file.Close
	}
	if !compress {
		return w, closeFn, nil
	}
	cw, err := harness.NewCompressedWriter(w)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	closeFile := closeFn
	return cw, func() error {
		err := cw.Close()
		if ferr := closeFile(); err == nil {
			err = ferr
		}
		return err
	}, nil
}

func runVerify(ctx context.Context, stdout io.Writer, f binfloat.Format, cfg config) error {
	workers, err := parseInt(cfg.Workers, "--workers")
	if err != nil {
		return err
	}
	file, err := os.Open(cfg.File)
	if err != nil {
		return err
	}
	defer file.Close()
	var r io.Reader = file
	if cfg.Zstd {
		dr, err := harness.NewDecompressedReader(file)
		if err != nil {
			return err
		}
		defer dr.Close()
		r = dr
	}
	expected, err := harness.ReadJSON(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.File, err)
	}
	cases := make([]harness.Case, len(expected))
	for i, e := range expected {
		cases[i] = e.Case
	}
	got, err := harness.Run(ctx, f, cases, workers)
	if err != nil {
		return err
	}
	mismatches := harness.Compare(expected, got)
	for _, mm := range mismatches {
		if mm.Err != nil {
			fmt.Fprintf(stdout, "%d: %v + %v: expected %v, got error: %v\n", mm.Index, mm.Case.A, mm.Case.B, mm.Expected, mm.Err)
		} else {
			fmt.Fprintf(stdout, "%d: %v + %v: expected %v, got %v\n", mm.Index, mm.Case.A, mm.Case.B, mm.Expected, mm.Got)
		}
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d of %d sums differ", len(mismatches), len(expected))
	}
	log.Printf("%d sums match, digest: %016x", len(expected), harness.Digest(got))
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("floatadd: ")

	cfg, err := parseConfig(&docopt.Parser{HelpHandler: docopt.PrintHelpAndExit}, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	f, err := cfg.format()
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case cfg.Add:
		err = runAdd(os.Stdout, f, cfg)
	case cfg.Sample:
		err = runSample(ctx, os.Stdout, f, cfg)
	case cfg.Verify:
		err = runVerify(ctx, os.Stdout, f, cfg)
	}
	if err != nil {
		log.Fatal(err)
	}
}
