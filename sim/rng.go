package sim

import "math/rand"

// GenerationKey uniquely identifies a reproducible generation run.
// Two runs with the same GenerationKey and identical parameters MUST
// produce bit-for-bit identical traces.
type GenerationKey int64

// NewGenerationKey creates a GenerationKey from a seed value.
func NewGenerationKey(seed int64) GenerationKey {
	return GenerationKey(seed)
}

// NewRNG returns the pseudorandom stream for this run. A run owns
// exactly one stream: every sampling call (scheduling, blending,
// augmentation) consumes from it in program order, which is what makes
// the emitted trace a pure function of (key, parameters).
//
// Thread-safety: NOT thread-safe. Generation is single-threaded.
func (k GenerationKey) NewRNG() *rand.Rand {
	return rand.New(rand.NewSource(int64(k)))
}
