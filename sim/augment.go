package sim

import (
	"math/rand"

	"github.com/storage-sim/tracegen/trace"
)

// Augment turns a raw address sequence into full trace entries. For
// each address, in input order: a Bernoulli(fracRead) draw decides
// read vs write, a size draw picks the request size in blocks, and
// both size and address are converted to bytes. Stateless across
// entries except for the shared stream.
func Augment(addrs []int64, fracRead float64, sizeDist Sampler, blockSize int64, rng *rand.Rand) []trace.Entry {
	entries := make([]trace.Entry, 0, len(addrs))
	for _, addr := range addrs {
		isRead := rng.Float64() < fracRead
		size := sizeDist.Sample(rng)
		entries = append(entries, trace.Entry{
			IsRead:      isRead,
			SizeBytes:   size * blockSize,
			OffsetBytes: addr * blockSize,
		})
	}
	return entries
}
