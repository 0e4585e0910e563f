package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// GenerateBlended produces an address sequence of the given length over
// addresses [0, addresses), blending locality-preserving schedule pops
// with direct popularity draws.
//
// Each address starts with one schedule entry seeded from the IRD
// distribution. Per step: with probability pIRM the address is a direct
// IRM draw and the schedule is untouched; otherwise the minimum-virtual-
// time entry is popped, emitted, and rescheduled at vtime + a fresh IRD
// increment. The heap holds exactly one entry per address throughout.
//
// Deterministic given the same parameters and rng state.
func GenerateBlended(addresses, length int64, pIRM float64, ird, irm Sampler, rng *rand.Rand) ([]int64, error) {
	trace, _, err := generateBlended(addresses, length, pIRM, ird, irm, rng)
	return trace, err
}

// generateBlended also returns the final schedule heap so tests can
// check the one-entry-per-address invariant.
func generateBlended(addresses, length int64, pIRM float64, ird, irm Sampler, rng *rand.Rand) ([]int64, *scheduleHeap, error) {
	if addresses <= 0 {
		return nil, nil, errConfig("addresses must be positive, got %d", addresses)
	}
	if length < 0 {
		return nil, nil, errConfig("length must be non-negative, got %d", length)
	}
	if pIRM < 0 || pIRM > 1 {
		return nil, nil, errConfig("p_irm must be in [0, 1], got %v", pIRM)
	}

	h := newScheduleHeap(int(addresses))
	for a := int64(0); a < addresses; a++ {
		h.Schedule(scheduleEntry{vtime: ird.Sample(rng), addr: a})
	}

	logrus.Debugf("blended generation: addresses=%d length=%d p_irm=%v first_vtime=%d",
		addresses, length, pIRM, h.Peek().vtime)

	trace := make([]int64, 0, length)
	for i := int64(0); i < length; i++ {
		// The blend draw is only consumed when blending is possible,
		// so a p_irm=0 run is stream-identical to a schedule-only run.
		if pIRM > 0 && rng.Float64() < pIRM {
			addr := irm.Sample(rng)
			if addr < 0 || addr >= addresses {
				return nil, nil, errConfig("IRM draw %d outside address range [0, %d)", addr, addresses)
			}
			trace = append(trace, addr)
			continue
		}

		increment := ird.Sample(rng)
		if increment < 0 {
			return nil, nil, errConfig("IRD increment %d is negative", increment)
		}
		entry := h.PopNext()
		trace = append(trace, entry.addr)
		entry.vtime += increment
		h.Schedule(entry)
	}
	return trace, h, nil
}

// GenerateGrouped produces an address sequence from G address-space
// partitions, each with its own IRD distribution and popularity weight.
// Addresses split into G contiguous groups of floor(addresses/G), the
// last group absorbing the remainder. Every emission is schedule-driven;
// there is no blend branch.
//
// IRD draws are scaled by 1/pop[g] (left unscaled when pop[g] is zero),
// rounded and clamped to >= 0. Dividing by popularity compresses the
// effective re-reference distance of hot groups.
func GenerateGrouped(addresses, length int64, irds []Sampler, pop []float64, rng *rand.Rand) ([]int64, error) {
	trace, _, err := generateGrouped(addresses, length, irds, pop, rng)
	return trace, err
}

func generateGrouped(addresses, length int64, irds []Sampler, pop []float64, rng *rand.Rand) ([]int64, *scheduleHeap, error) {
	groups := len(irds)
	if groups == 0 {
		return nil, nil, errConfig("at least one group is required")
	}
	if len(pop) != groups {
		return nil, nil, errConfig("got %d popularity weights for %d groups", len(pop), groups)
	}
	if addresses <= 0 {
		return nil, nil, errConfig("addresses must be positive, got %d", addresses)
	}
	if addresses < int64(groups) {
		return nil, nil, errConfig("addresses (%d) must be at least the group count (%d)", addresses, groups)
	}
	if length < 0 {
		return nil, nil, errConfig("length must be non-negative, got %d", length)
	}

	groupSize := addresses / int64(groups)
	h := newScheduleHeap(int(addresses))
	for a := int64(0); a < addresses; a++ {
		g := groupIndex(a, groupSize, groups)
		vt := scaleIncrement(irds[g].Sample(rng), pop[g])
		h.Schedule(scheduleEntry{vtime: vt, addr: a, group: g})
	}

	logrus.Debugf("grouped generation: addresses=%d length=%d groups=%d pop=%v", addresses, length, groups, pop)

	trace := make([]int64, 0, length)
	for i := int64(0); i < length; i++ {
		entry := h.PopNext()
		trace = append(trace, entry.addr)
		entry.vtime += scaleIncrement(irds[entry.group].Sample(rng), pop[entry.group])
		h.Schedule(entry)
	}
	return trace, h, nil
}

// groupIndex maps an address to its contiguous group. The final group
// absorbs the remainder when addresses do not divide evenly.
func groupIndex(a, groupSize int64, groups int) int {
	g := int(a / groupSize)
	if g >= groups {
		g = groups - 1
	}
	return g
}

// scaleIncrement divides a raw IRD draw by the group popularity,
// rounding to the nearest integer and clamping at zero. Zero popularity
// leaves the draw unscaled.
func scaleIncrement(raw int64, pop float64) int64 {
	scaled := float64(raw)
	if pop != 0 {
		scaled = float64(raw) / pop
	}
	v := int64(math.Round(scaled))
	if v < 0 {
		v = 0
	}
	return v
}

// DerivePopularities draws one popularity weight per group from a
// popularity-mode sampler and decodes the fixed-point values back to
// fractions in [0, 1].
func DerivePopularities(irm Sampler, groups int, rng *rand.Rand) []float64 {
	pop := make([]float64, 0, groups)
	for i := 0; i < groups; i++ {
		pop = append(pop, float64(irm.Sample(rng))/popularityScale)
	}
	return pop
}
