package sim

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// DistMode selects how a plain comma-separated weight list (a spec
// with no colon) is interpreted by BuildDistribution.
type DistMode int

const (
	// ModeAddress partitions the address range into weighted bins.
	ModeAddress DistMode = iota
	// ModePopularity yields fixed-point per-group popularity weights.
	ModePopularity
)

// spikePreset is a named (k, epsilon, spikes) shorthand for the fgen
// family of inter-reference-distance distributions.
type spikePreset struct {
	k       int64
	epsilon float64
	spikes  []int64
}

var irdPresets = map[string]spikePreset{
	"b": {k: 20, epsilon: 0.005, spikes: []int64{0, 3}},
	"c": {k: 20, epsilon: 0.005, spikes: []int64{2, 9}},
	"d": {k: 5, epsilon: 0.01, spikes: []int64{0, 4}},
	"e": {k: 20, epsilon: 0.005, spikes: []int64{1}},
	"f": {k: 20, epsilon: 0.01, spikes: []int64{2}},
}

// BuildDistribution parses a reference-model specification and returns
// a ready Sampler over [0, max).
//
// Canonical form is "<type>:<arg1>,<arg2>,...":
//
//	zipf:alpha,n    pareto:xm,alpha,n    uniform:max    normal:mu,sigma
//
// A spec with no colon is a plain weight list ("2,8"), interpreted per
// mode: address bins (ModeAddress) or fixed-point popularity values
// (ModePopularity).
func BuildDistribution(spec string, max int64, mode DistMode) (Sampler, error) {
	if max <= 0 {
		return nil, errConfig("distribution range must be positive, got %d", max)
	}
	if !strings.Contains(spec, ":") {
		return buildWeightList(spec, max, mode)
	}

	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return nil, errParse(spec, "expected a single <type>:<args> pair, got %d tokens", len(parts))
	}
	distType := parts[0]
	args := strings.Split(parts[1], ",")

	switch distType {
	case "pareto":
		if len(args) != 3 {
			return nil, errParse(spec, "pareto requires 3 args (xm,alpha,n), got %d", len(args))
		}
		xm, err := parseFloat(spec, args[0])
		if err != nil {
			return nil, err
		}
		alpha, err := parseFloat(spec, args[1])
		if err != nil {
			return nil, err
		}
		n, err := parseInt(spec, args[2])
		if err != nil {
			return nil, err
		}
		if xm <= 0 || alpha <= 0 {
			return nil, errParse(spec, "pareto xm and alpha must be positive")
		}
		if err := checkClasses(spec, n, max); err != nil {
			return nil, err
		}
		logrus.Debugf("pareto dist: xm=%v alpha=%v n=%d max=%d", xm, alpha, n, max)
		return NewParetoSampler(xm, alpha, n, max), nil

	case "zipf":
		if len(args) != 2 {
			return nil, errParse(spec, "zipf requires 2 args (alpha,n), got %d", len(args))
		}
		alpha, err := parseFloat(spec, args[0])
		if err != nil {
			return nil, err
		}
		n, err := parseInt(spec, args[1])
		if err != nil {
			return nil, err
		}
		if alpha <= 0 {
			return nil, errParse(spec, "zipf alpha must be positive")
		}
		if err := checkClasses(spec, n, max); err != nil {
			return nil, err
		}
		logrus.Debugf("zipf dist: alpha=%v n=%d max=%d", alpha, n, max)
		return NewZipfSampler(alpha, n, max), nil

	case "uniform":
		// The token after the colon is ignored; the range comes from max.
		logrus.Debugf("uniform dist: max=%d", max)
		return NewUniformSampler(max), nil

	case "normal":
		if len(args) != 2 {
			return nil, errParse(spec, "normal requires 2 args (mu,sigma), got %d", len(args))
		}
		mu, err := parseFloat(spec, args[0])
		if err != nil {
			return nil, err
		}
		sigma, err := parseFloat(spec, args[1])
		if err != nil {
			return nil, err
		}
		logrus.Debugf("normal dist: mu=%v sigma=%v max=%d", mu, sigma, max)
		return NewNormalSampler(mu, sigma, max), nil

	case "sequential":
		logrus.Debug("sequential dist")
		return NewSequentialSampler(), nil
	}

	return nil, errParse(spec, "unknown distribution type %q", distType)
}

// buildWeightList handles the non-canonical comma-separated weight
// list form shared by the address-partition and popularity specs.
func buildWeightList(spec string, max int64, mode DistMode) (Sampler, error) {
	weights, err := parseFloatList(spec, spec)
	if err != nil {
		return nil, err
	}
	if err := checkWeights(spec, weights); err != nil {
		return nil, err
	}
	if mode == ModePopularity {
		logrus.Debugf("popularity weights: %v", weights)
		return NewPopularitySampler(weights), nil
	}
	logrus.Debugf("address bins: weights=%v max=%d", weights, max)
	return NewAddressBinSampler(weights, max), nil
}

// ParseIRD parses an inter-reference-distance specification: either a
// shorthand preset letter (b..f) or "fgen:k,epsilon,spike1,spike2,...".
func ParseIRD(spec string) (Sampler, error) {
	if p, ok := irdPresets[spec]; ok {
		logrus.Debugf("ird preset %q: k=%d epsilon=%v spikes=%v", spec, p.k, p.epsilon, p.spikes)
		return NewSpikeSampler(p.k, p.epsilon, p.spikes), nil
	}

	parts := strings.Split(spec, ":")
	if parts[0] != "fgen" {
		return nil, errParse(spec, "unknown IRD distribution %q", parts[0])
	}
	if len(parts) != 2 {
		return nil, errParse(spec, "fgen requires args: fgen:k,epsilon,spikes...")
	}
	args := strings.Split(parts[1], ",")
	if len(args) < 3 {
		return nil, errParse(spec, "fgen requires at least 3 args (k,epsilon,spike), got %d", len(args))
	}
	k, err := parseInt(spec, args[0])
	if err != nil {
		return nil, err
	}
	epsilon, err := parseFloat(spec, args[1])
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, errParse(spec, "fgen k must be positive, got %d", k)
	}
	if epsilon < 0 || epsilon >= 1 {
		return nil, errParse(spec, "fgen epsilon must be in [0, 1), got %v", epsilon)
	}
	spikes := make([]int64, 0, len(args)-2)
	for _, a := range args[2:] {
		s, err := parseInt(spec, a)
		if err != nil {
			return nil, err
		}
		if s < 0 || s >= k {
			return nil, errParse(spec, "spike index %d outside [0, %d)", s, k)
		}
		spikes = append(spikes, s)
	}
	logrus.Debugf("fgen dist: k=%d epsilon=%v spikes=%v", k, epsilon, spikes)
	return NewSpikeSampler(k, epsilon, spikes), nil
}

// ParseIRDList parses a semicolon-separated list of IRD specs, one per
// group. A count mismatch is a configuration violation, not a parse
// error.
func ParseIRDList(spec string, groups int) ([]Sampler, error) {
	parts := strings.Split(spec, ";")
	if len(parts) != groups {
		return nil, errConfig("expected %d IRD specs, got %d", groups, len(parts))
	}
	samplers := make([]Sampler, 0, groups)
	for _, p := range parts {
		s, err := ParseIRD(p)
		if err != nil {
			return nil, err
		}
		samplers = append(samplers, s)
	}
	return samplers, nil
}

// ParseSizeDist parses a request-size specification of the form
// "w1,w2,...:s1,s2,..." with parallel weight and block-size lists.
func ParseSizeDist(spec string) (Sampler, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return nil, errParse(spec, "expected <weights>:<sizes>")
	}
	weights, err := parseFloatList(spec, parts[0])
	if err != nil {
		return nil, err
	}
	if err := checkWeights(spec, weights); err != nil {
		return nil, err
	}
	sizeTokens := strings.Split(parts[1], ",")
	if len(weights) != len(sizeTokens) {
		return nil, errParse(spec, "unequal number of weights (%d) and sizes (%d)", len(weights), len(sizeTokens))
	}
	sizes := make([]int64, 0, len(sizeTokens))
	for _, t := range sizeTokens {
		s, err := parseInt(spec, t)
		if err != nil {
			return nil, err
		}
		if s <= 0 {
			return nil, errParse(spec, "request size must be positive, got %d", s)
		}
		sizes = append(sizes, s)
	}
	logrus.Debugf("size dist: weights=%v sizes=%v", weights, sizes)
	return NewSizeSampler(weights, sizes), nil
}

// checkWeights rejects weight lists normalization cannot handle: a
// negative entry or a non-positive sum (which would divide to NaN).
func checkWeights(spec string, weights []float64) error {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return errParse(spec, "weights must be non-negative")
		}
		sum += w
	}
	if sum <= 0 {
		return errParse(spec, "weight sum must be positive")
	}
	return nil
}

func checkClasses(spec string, classes, max int64) error {
	if classes <= 0 {
		return errParse(spec, "class count must be positive, got %d", classes)
	}
	if classes > max {
		return errParse(spec, "class count %d exceeds range %d", classes, max)
	}
	return nil
}

func parseFloat(spec, token string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return 0, errParse(spec, "unparsable number %q", token)
	}
	return v, nil
}

func parseInt(spec, token string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
	if err != nil {
		return 0, errParse(spec, "unparsable integer %q", token)
	}
	return v, nil
}

func parseFloatList(spec, list string) ([]float64, error) {
	tokens := strings.Split(list, ",")
	vals := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		v, err := parseFloat(spec, t)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}
