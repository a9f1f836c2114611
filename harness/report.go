package harness

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"

	"github.com/avdva/binfloat"
	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// WriteText writes a table of results, with both the raw pairs and their decimal values.
func WriteText(w io.Writer, f binfloat.Format, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "#\ta\tb\tsum\tbranch\ta (dec)\tb (dec)\tsum (dec)")
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%d\t%v\t%v\terror: %v\t\t%s\t%s\t\n", i, r.A, r.B, r.Err, String(f, r.A), String(f, r.B))
			continue
		}
		branch := r.Trace.Branch.String()
		if r.Trace.Carried {
			branch += ",carried"
		}
		fmt.Fprintf(tw, "%d\t%v\t%v\t%v\t%s\t%s\t%s\t%s\n",
			i, r.A, r.B, r.Sum, branch, String(f, r.A), String(f, r.B), String(f, r.Sum))
	}
	return tw.Flush()
}

type jsonPair struct {
	E uint64   `json:"e"`
	M *big.Int `json:"m"`
}

type jsonRecord struct {
	A       jsonPair  `json:"a"`
	B       jsonPair  `json:"b"`
	Sum     *jsonPair `json:"sum,omitempty"`
	Branch  string    `json:"branch,omitempty"`
	Carried bool      `json:"carried,omitempty"`
	Err     string    `json:"error,omitempty"`
}

func toPair(v binfloat.Value) jsonPair {
	v = binfloat.NewValueBig(v.E, v.M)
	return jsonPair{E: v.E, M: v.M}
}

// WriteJSON writes one json object per result, like
//
//	{"a":{"e":130,"m":9},"b":{"e":127,"m":8},"sum":{"e":130,"m":10},"branch":"sum"}
func WriteJSON(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, r := range results {
		rec := jsonRecord{A: toPair(r.A), B: toPair(r.B)}
		if r.Err != nil {
			rec.Err = r.Err.Error()
		} else {
			sum := toPair(r.Sum)
			rec.Sum = &sum
			rec.Branch = r.Trace.Branch.String()
			rec.Carried = r.Trace.Carried
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadJSON reads the records written by WriteJSON.
// Only the operands and the sums are restored: Trace and Err are left empty,
// records without a sum get a nil Sum.M.
func ReadJSON(r io.Reader) ([]Result, error) {
	dec := json.NewDecoder(r)
	var results []Result
	for line := 1; ; line++ {
		var rec jsonRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return results, nil
			}
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		res := Result{Case: Case{A: fromPair(rec.A), B: fromPair(rec.B)}}
		if rec.Sum != nil {
			res.Sum = fromPair(*rec.Sum)
		}
		results = append(results, res)
	}
}

func fromPair(p jsonPair) binfloat.Value {
	return binfloat.NewValueBig(p.E, p.M)
}

// Mismatch is a recorded sum that differs from the calculated one.
type Mismatch struct {
	Index    int
	Case     Case
	Expected binfloat.Value
	Got      binfloat.Value
	Err      error
}

// Compare returns the records of expected, whose sums differ from got.
// Both slices must describe the same cases in the same order.
func Compare(expected, got []Result) []Mismatch {
	var result []Mismatch
	for i := range expected {
		if i >= len(got) {
			result = append(result, Mismatch{Index: i, Case: expected[i].Case, Expected: expected[i].Sum, Err: fmt.Errorf("missing result")})
			continue
		}
		g, want := got[i], expected[i]
		var differs bool
		if want.Sum.M == nil { // the recorded addition has failed
			differs = g.Err == nil
		} else {
			differs = g.Err != nil || !g.Sum.Equal(want.Sum)
		}
		if differs {
			result = append(result, Mismatch{Index: i, Case: expected[i].Case, Expected: expected[i].Sum, Got: g.Sum, Err: g.Err})
		}
	}
	return result
}

// NewCompressedWriter returns a writer that compresses its output with zstd.
// The writer must be closed to flush the data.
func NewCompressedWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// NewDecompressedReader returns a reader of zstd-compressed data.
func NewDecompressedReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
