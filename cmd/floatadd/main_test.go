package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avdva/binfloat"
	"github.com/docopt/docopt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (config, binfloat.Format) {
	cfg, err := parseConfig(&docopt.Parser{HelpHandler: docopt.NoHelpHandler}, args)
	require.NoError(t, err)
	f, err := cfg.format()
	require.NoError(t, err)
	return cfg, f
}

func TestConfig(t *testing.T) {
	a := assert.New(t)
	cfg, f := parse(t, "add", "130", "9", "127", "8")
	a.True(cfg.Add)
	a.Equal(binfloat.Binary32, f)
	a.Equal([]string{"130", "9", "127", "8"}, []string{cfg.E1, cfg.M1, cfg.E2, cfg.M2})

	_, f = parse(t, "add", "--format=tiny", "--p=5", "1", "2", "3", "4")
	a.Equal(binfloat.Format{K: 8, P: 5}, f)
	_, f = parse(t, "add", "--format=binary16", "--p=0", "--k=-1", "1", "2", "3", "4")
	a.Equal(binfloat.Format{K: 5, P: 0}, f)
	_, f = parse(t, "verify", "--k=11", "--p=52", "vectors.json")
	a.Equal(binfloat.Binary64, f)

	cfg, f = parse(t, "sample", "--format=binary16", "--n=7", "--json", "--gap=3")
	a.True(cfg.Sample)
	a.True(cfg.JSON)
	a.Equal(binfloat.Binary16, f)
	a.Equal("7", cfg.N)
	a.Equal("3", cfg.Gap)
	a.Equal("-", cfg.Out)

	cfg, err := parseConfig(&docopt.Parser{HelpHandler: docopt.NoHelpHandler}, []string{"sample", "--format=decimal32"})
	require.NoError(t, err)
	_, err = cfg.format()
	a.Error(err)
	cfg, err = parseConfig(&docopt.Parser{HelpHandler: docopt.NoHelpHandler}, []string{"sample", "--k=64"})
	require.NoError(t, err)
	_, err = cfg.format()
	a.ErrorIs(err, binfloat.ErrInvalidFormat)

	_, err = parseConfig(&docopt.Parser{HelpHandler: docopt.NoHelpHandler}, []string{"add", "1", "2"})
	a.Error(err)
}

func TestRunAdd(t *testing.T) {
	a := assert.New(t)
	var b bytes.Buffer
	cfg, f := parse(t, "add", "--format=tiny", "130", "9", "127", "0x8")
	require.NoError(t, runAdd(&b, f, cfg))
	a.Equal("9.0 + 1.0 = (130, 10) = 10.0\n", b.String())

	b.Reset()
	cfg, f = parse(t, "add", "--format=tiny", "--trace", "130", "9", "127", "8")
	require.NoError(t, runAdd(&b, f, cfg))
	a.Contains(b.String(), "branch:     sum\n")
	a.Contains(b.String(), "diff:       3\n")

	b.Reset()
	cfg, f = parse(t, "add", "--format=tiny", "--p=0", "127", "1", "127", "1")
	require.NoError(t, runAdd(&b, f, cfg))
	a.Equal("1.0 + 1.0 = (128, 1) = 2.0\n", b.String())

	cfg, f = parse(t, "add", "--format=tiny", "0", "8", "127", "8")
	a.ErrorIs(runAdd(&b, f, cfg), binfloat.ErrInvalidOperand)
	cfg, f = parse(t, "add", "--format=tiny", "x", "8", "127", "8")
	a.Error(runAdd(&b, f, cfg))
	cfg, f = parse(t, "add", "--format=tiny", "127", "8", "127", "eight")
	a.Error(runAdd(&b, f, cfg))
}

func TestSampleAndVerify(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	var b bytes.Buffer
	cfg, f := parse(t, "sample", "--format=tiny", "--n=20")
	require.NoError(t, runSample(ctx, &b, f, cfg))
	a.Len(strings.Split(strings.TrimSpace(b.String()), "\n"), 21)

	for _, compressed := range []bool{false, true} {
		name := filepath.Join(dir, "vectors.json")
		args := []string{"sample", "--format=bfloat16", "--n=50", "--seed=3", "--json", "--out=" + name}
		if compressed {
			name += ".zst"
			args = []string{"sample", "--format=bfloat16", "--n=50", "--seed=3", "--json", "--zstd", "--out=" + name}
		}
		cfg, f := parse(t, args...)
		b.Reset()
		require.NoError(t, runSample(ctx, &b, f, cfg))
		a.Zero(b.Len())

		args = []string{"verify", "--format=bfloat16", name}
		if compressed {
			args = []string{"verify", "--format=bfloat16", "--zstd", name}
		}
		cfg, f = parse(t, args...)
		a.NoError(runVerify(ctx, &b, f, cfg))
		a.Zero(b.Len())

		// the same vectors do not hold for another precision.
		args = append(args, "--p=6")
		cfg, f = parse(t, args...)
		a.Error(runVerify(ctx, &b, f, cfg))
		a.NotZero(b.Len())
	}
}

func TestVerifyMismatch(t *testing.T) {
	a := assert.New(t)
	name := filepath.Join(t.TempDir(), "vectors.json")
	require.NoError(t, os.WriteFile(name, []byte(
		`{"a":{"e":130,"m":9},"b":{"e":127,"m":8},"sum":{"e":130,"m":10},"branch":"sum"}
{"a":{"e":130,"m":9},"b":{"e":127,"m":8},"sum":{"e":130,"m":11},"branch":"sum"}
{"a":{"e":0,"m":8},"b":{"e":127,"m":8},"error":"invalid operand"}
`), 0o644))

	var b bytes.Buffer
	cfg, f := parse(t, "verify", "--format=tiny", name)
	err := runVerify(context.Background(), &b, f, cfg)
	if a.Error(err) {
		a.Equal("1 of 3 sums differ", err.Error())
	}
	a.Equal("1: (130, 9) + (127, 8): expected (130, 11), got (130, 10)\n", b.String())

	cfg, f = parse(t, "verify", "--format=tiny", filepath.Join(t.TempDir(), "missing.json"))
	a.Error(runVerify(context.Background(), &b, f, cfg))
}
