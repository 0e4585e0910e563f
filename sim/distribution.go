package sim

import (
	"math"
	"math/rand"
	"sort"
)

// popularityScale is the fixed-point factor used to carry normalized
// popularity weights through the integer Sampler contract. Changing it
// breaks compatibility with previously generated traces.
const popularityScale = 10000

// Sampler draws integer samples from a fixed distribution.
// Implementations are deterministic given the rng state; all mutable
// sampler state is private to the value, there is no global source.
type Sampler interface {
	Sample(rng *rand.Rand) int64
}

// normalizeWeights scales weights in place so they sum to 1.0.
// The sum must be positive.
func normalizeWeights(weights []float64) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
}

// discreteChoice picks indices with probability proportional to the
// supplied weights, via inverse CDF and binary search.
type discreteChoice struct {
	cdf []float64
}

// newDiscreteChoice builds a choice table from normalized weights.
func newDiscreteChoice(weights []float64) discreteChoice {
	cdf := make([]float64, len(weights))
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		cdf[i] = cumulative
	}
	if len(cdf) > 0 {
		cdf[len(cdf)-1] = 1.0
	}
	return discreteChoice{cdf: cdf}
}

func (d discreteChoice) pick(rng *rand.Rand) int {
	u := rng.Float64()
	idx := sort.SearchFloat64s(d.cdf, u)
	if idx >= len(d.cdf) {
		idx = len(d.cdf) - 1
	}
	return idx
}

// interval is a closed integer range [lo, hi].
type interval struct {
	lo, hi int64
}

// uniformIn draws uniformly from the interval.
func (iv interval) uniformIn(rng *rand.Rand) int64 {
	if iv.hi <= iv.lo {
		return iv.lo
	}
	return iv.lo + rng.Int63n(iv.hi-iv.lo+1)
}

// makeIntervals partitions [0, max) into classes contiguous
// equal-width subintervals. Width is max/classes (integer division);
// the last interval absorbs the remainder up to max-1.
func makeIntervals(classes, max int64) []interval {
	width := max / classes
	intervals := make([]interval, 0, classes)
	for i := int64(1); i <= classes; i++ {
		lo := (i - 1) * width
		hi := i*width - 1
		if hi > max-1 {
			hi = max - 1
		}
		if i == classes {
			hi = max - 1
		}
		intervals = append(intervals, interval{lo: lo, hi: hi})
	}
	return intervals
}

// UniformSampler draws uniformly from [0, max).
type UniformSampler struct {
	max int64
}

func NewUniformSampler(max int64) *UniformSampler {
	return &UniformSampler{max: max}
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	return rng.Int63n(s.max)
}

// classIntervalSampler is the shared two-stage mechanism behind Zipf
// and Pareto: pick a class by weighted choice, then draw uniformly
// inside that class's interval of the address range.
type classIntervalSampler struct {
	choice    discreteChoice
	intervals []interval
	weights   []float64 // normalized, retained for inspection
}

func (s *classIntervalSampler) Sample(rng *rand.Rand) int64 {
	idx := s.choice.pick(rng)
	return s.intervals[idx].uniformIn(rng)
}

// ClassWeights returns the normalized per-class selection weights.
func (s *classIntervalSampler) ClassWeights() []float64 {
	return s.weights
}

// ZipfSampler skews draws over [0, max) with weight(i) = 1/i^alpha.
type ZipfSampler struct {
	classIntervalSampler
}

func NewZipfSampler(alpha float64, classes, max int64) *ZipfSampler {
	weights := make([]float64, 0, classes)
	for i := int64(1); i <= classes; i++ {
		weights = append(weights, 1.0/math.Pow(float64(i), alpha))
	}
	normalizeWeights(weights)
	return &ZipfSampler{classIntervalSampler{
		choice:    newDiscreteChoice(weights),
		intervals: makeIntervals(classes, max),
		weights:   weights,
	}}
}

// ParetoSampler skews draws over [0, max) with weight(i) = (xm/i)^alpha.
type ParetoSampler struct {
	classIntervalSampler
}

func NewParetoSampler(xm, alpha float64, classes, max int64) *ParetoSampler {
	weights := make([]float64, 0, classes)
	for i := int64(1); i <= classes; i++ {
		weights = append(weights, math.Pow(xm/float64(i), alpha))
	}
	normalizeWeights(weights)
	return &ParetoSampler{classIntervalSampler{
		choice:    newDiscreteChoice(weights),
		intervals: makeIntervals(classes, max),
		weights:   weights,
	}}
}

// NormalSampler draws a real normal sample, clamps it to [0, max] and
// rounds to the nearest integer.
type NormalSampler struct {
	mean, stdDev float64
	max          int64
}

func NewNormalSampler(mean, stdDev float64, max int64) *NormalSampler {
	return &NormalSampler{mean: mean, stdDev: stdDev, max: max}
}

func (s *NormalSampler) Sample(rng *rand.Rand) int64 {
	val := rng.NormFloat64()*s.stdDev + s.mean
	if val < 0 {
		return 0
	}
	if val > float64(s.max) {
		return s.max
	}
	return int64(math.Round(val))
}

// SequentialSampler counts up from 0 on every call. It never wraps or
// resets; bounding usage is the caller's job.
type SequentialSampler struct {
	next int64
}

func NewSequentialSampler() *SequentialSampler {
	return &SequentialSampler{}
}

func (s *SequentialSampler) Sample(_ *rand.Rand) int64 {
	v := s.next
	s.next++
	return v
}

// SpikeSampler draws an index from a length-k weight vector that is
// epsilon everywhere except at the spike indices, which carry
// 1-epsilon each. Models a mostly-flat inter-reference-distance
// distribution with a few high-probability burst distances.
type SpikeSampler struct {
	choice  discreteChoice
	weights []float64
}

func NewSpikeSampler(k int64, epsilon float64, spikes []int64) *SpikeSampler {
	weights := make([]float64, k)
	for i := range weights {
		weights[i] = epsilon
	}
	for _, s := range spikes {
		weights[s] = 1 - epsilon
	}
	normalizeWeights(weights)
	return &SpikeSampler{choice: newDiscreteChoice(weights), weights: weights}
}

func (s *SpikeSampler) Sample(rng *rand.Rand) int64 {
	return int64(s.choice.pick(rng))
}

// SizeSampler returns the size paired with a weighted index draw.
// Weights and sizes are parallel lists of equal length.
type SizeSampler struct {
	choice discreteChoice
	sizes  []int64
}

func NewSizeSampler(weights []float64, sizes []int64) *SizeSampler {
	normalizeWeights(weights)
	return &SizeSampler{choice: newDiscreteChoice(weights), sizes: sizes}
}

func (s *SizeSampler) Sample(rng *rand.Rand) int64 {
	return s.sizes[s.choice.pick(rng)]
}

// AddressBinSampler partitions [0, max) into weighted contiguous bins
// and draws uniformly inside a weighted-chosen bin. Bin boundary i is
// floor(max * cumulative_weight_i).
type AddressBinSampler struct {
	choice     discreteChoice
	boundaries []int64 // len(weights)+1 entries, boundaries[0] == 0
}

func NewAddressBinSampler(weights []float64, max int64) *AddressBinSampler {
	normalizeWeights(weights)
	boundaries := make([]int64, 0, len(weights)+1)
	boundaries = append(boundaries, 0)
	sum := 0.0
	for _, w := range weights {
		sum += w
		boundaries = append(boundaries, int64(math.Floor(sum*float64(max))))
	}
	return &AddressBinSampler{choice: newDiscreteChoice(weights), boundaries: boundaries}
}

func (s *AddressBinSampler) Sample(rng *rand.Rand) int64 {
	bin := s.choice.pick(rng)
	iv := interval{lo: s.boundaries[bin], hi: s.boundaries[bin+1] - 1}
	return iv.uniformIn(rng)
}

// PopularitySampler draws an index by weighted choice and returns the
// selected normalized weight as a fixed-point value (popularityScale).
// Downstream the value decodes to a per-group popularity multiplier,
// not an address.
type PopularitySampler struct {
	choice  discreteChoice
	weights []float64
}

func NewPopularitySampler(weights []float64) *PopularitySampler {
	normalizeWeights(weights)
	return &PopularitySampler{choice: newDiscreteChoice(weights), weights: weights}
}

func (s *PopularitySampler) Sample(rng *rand.Rand) int64 {
	idx := s.choice.pick(rng)
	return int64(math.Round(s.weights[idx] * popularityScale))
}
