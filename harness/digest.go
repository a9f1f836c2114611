package harness

import (
	"encoding/binary"

	"github.com/avdva/binfloat"
	"github.com/zeebo/xxh3"
)

// Digest returns a fingerprint of the operands and the sums of a batch.
// Two implementations of the adder agree on a batch iff their digests match
// (up to hash collisions). Failed additions are hashed with a marker instead of a sum.
func Digest(results []Result) uint64 {
	h := xxh3.New()
	var buf []byte
	for _, r := range results {
		buf = appendValue(buf[:0], r.A)
		buf = appendValue(buf, r.B)
		if r.Err != nil {
			buf = append(buf, 0)
		} else {
			buf = append(buf, 1)
			buf = appendValue(buf, r.Sum)
		}
		h.Write(buf)
	}
	return h.Sum64()
}

// appendValue appends e as 8 bytes, followed by the length of m and its big-endian bytes.
func appendValue(b []byte, v binfloat.Value) []byte {
	b = binary.LittleEndian.AppendUint64(b, v.E)
	var m []byte
	if v.M != nil {
		m = v.M.Bytes()
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(len(m)))
	return append(b, m...)
}
