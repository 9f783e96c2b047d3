package selection

import (
	"math/rand/v2"

	"wallswitch/internal/imagefile"
)

// NewRand returns a PCG generator seeded from the runtime's random source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Shuffle permutes records in place with a Fisher–Yates shuffle driven by r.
func Shuffle(r *rand.Rand, records []imagefile.Record) {
	r.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}

// Chunks cuts records into consecutive slices of exactly size elements. A
// trailing remainder shorter than size is dropped. The chunks alias records.
func Chunks(records []imagefile.Record, size int) [][]imagefile.Record {
	if size <= 0 {
		return nil
	}
	chunks := make([][]imagefile.Record, 0, len(records)/size)
	for start := 0; start+size <= len(records); start += size {
		chunks = append(chunks, records[start:start+size:start+size])
	}
	return chunks
}
