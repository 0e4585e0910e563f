package sim

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

// constSampler always returns the same value; handy for steering
// schedule behavior in tests.
type constSampler struct {
	v int64
}

func (s constSampler) Sample(_ *rand.Rand) int64 { return s.v }

func mustParseIRD(t *testing.T, spec string) Sampler {
	t.Helper()
	s, err := ParseIRD(spec)
	if err != nil {
		t.Fatalf("ParseIRD(%q): %v", spec, err)
	}
	return s
}

func TestGenerateBlended_SameSeedIdenticalTrace(t *testing.T) {
	run := func() []int64 {
		rng := NewGenerationKey(42).NewRNG()
		ird := mustParseIRD(t, "d")
		irm, err := BuildDistribution("uniform:0", 4, ModeAddress)
		if err != nil {
			t.Fatal(err)
		}
		trace, err := GenerateBlended(4, 1000, 0.3, ird, irm, rng)
		if err != nil {
			t.Fatal(err)
		}
		return trace
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("traces diverge at step %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestGenerateBlended_ZeroLengthEmptyTrace(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	trace, err := GenerateBlended(4, 0, 0, mustParseIRD(t, "d"), NewUniformSampler(4), rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace) != 0 {
		t.Errorf("trace length = %d, want 0", len(trace))
	}
}

func TestGenerateBlended_HeapHoldsOneEntryPerAddress(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	_, h, err := generateBlended(16, 500, 0.25, mustParseIRD(t, "b"), NewUniformSampler(16), rng)
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 16 {
		t.Fatalf("heap size = %d, want 16", h.Len())
	}
	seen := make(map[int64]int)
	for _, e := range h.entries {
		seen[e.addr]++
	}
	for a := int64(0); a < 16; a++ {
		if seen[a] != 1 {
			t.Errorf("address %d has %d schedule entries, want 1", a, seen[a])
		}
	}
}

func TestGenerateBlended_PureIRMLeavesHeapUntouched(t *testing.T) {
	ird := mustParseIRD(t, "b")
	rng := NewGenerationKey(7).NewRNG()
	_, h, err := generateBlended(8, 200, 1.0, ird, NewUniformSampler(8), rng)
	if err != nil {
		t.Fatal(err)
	}

	// Replay only the setup draws on a fresh identical stream; the
	// run's heap must equal that initial state exactly.
	wantIRD := mustParseIRD(t, "b")
	wantRNG := NewGenerationKey(7).NewRNG()
	want := make([]scheduleEntry, 0, 8)
	for a := int64(0); a < 8; a++ {
		want = append(want, scheduleEntry{vtime: wantIRD.Sample(wantRNG), addr: a})
	}

	got := append([]scheduleEntry(nil), h.entries...)
	sort.Slice(got, func(i, j int) bool { return got[i].addr < got[j].addr })
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGenerateBlended_PureIRDConsumesNoBlendDraws(t *testing.T) {
	const addrs, steps = 8, 300

	rng := NewGenerationKey(11).NewRNG()
	_, err := GenerateBlended(addrs, steps, 0, mustParseIRD(t, "c"), NewUniformSampler(addrs), rng)
	if err != nil {
		t.Fatal(err)
	}
	next := rng.Int63()

	// A control stream that performs only the schedule draws (setup +
	// one increment per step) must land in the same state.
	control := NewGenerationKey(11).NewRNG()
	ird := mustParseIRD(t, "c")
	for i := 0; i < addrs+steps; i++ {
		ird.Sample(control)
	}
	if want := control.Int63(); next != want {
		t.Errorf("stream diverged: got %d, want %d (blend draws were consumed)", next, want)
	}
}

func TestGenerateBlended_IRMDrawOutOfRangeFails(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	// Sequential IRM emits 0,1,2,...; with 2 addresses the third
	// blended step must fail.
	_, err := GenerateBlended(2, 10, 1.0, mustParseIRD(t, "d"), NewSequentialSampler(), rng)
	if err == nil {
		t.Fatal("expected out-of-range IRM draw to fail")
	}
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("got %T, want *ConfigError", err)
	}
}

func TestGenerateBlended_InvalidBounds(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	cases := []struct {
		addresses, length int64
		pIRM              float64
	}{
		{0, 10, 0},
		{-3, 10, 0},
		{4, -1, 0},
		{4, 10, -0.1},
		{4, 10, 1.5},
	}
	for _, tc := range cases {
		_, err := GenerateBlended(tc.addresses, tc.length, tc.pIRM, mustParseIRD(t, "d"), NewUniformSampler(4), rng)
		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("addresses=%d length=%d pIRM=%v: got %T, want *ConfigError",
				tc.addresses, tc.length, tc.pIRM, err)
		}
	}
}

func TestGroupIndex_EqualPartition(t *testing.T) {
	// groups=2, addresses=10: addresses 0-4 in group 0, 5-9 in group 1.
	for a := int64(0); a < 5; a++ {
		if g := groupIndex(a, 5, 2); g != 0 {
			t.Errorf("address %d: group %d, want 0", a, g)
		}
	}
	for a := int64(5); a < 10; a++ {
		if g := groupIndex(a, 5, 2); g != 1 {
			t.Errorf("address %d: group %d, want 1", a, g)
		}
	}
}

func TestGroupIndex_LastGroupAbsorbsRemainder(t *testing.T) {
	// groups=3, addresses=10: group size 3, address 9 folds into group 2.
	if g := groupIndex(9, 3, 3); g != 2 {
		t.Errorf("address 9: group %d, want 2", g)
	}
}

func TestScaleIncrement(t *testing.T) {
	cases := []struct {
		raw  int64
		pop  float64
		want int64
	}{
		{10, 0.5, 20},
		{10, 0, 10}, // zero popularity leaves the draw unscaled
		{7, 3, 2},   // round(2.333)
		{5, 2, 3},   // round(2.5) rounds half away from zero
		{0, 0.25, 0},
	}
	for _, tc := range cases {
		if got := scaleIncrement(tc.raw, tc.pop); got != tc.want {
			t.Errorf("scaleIncrement(%d, %v) = %d, want %d", tc.raw, tc.pop, got, tc.want)
		}
	}
}

func TestGenerateGrouped_SameSeedIdenticalTrace(t *testing.T) {
	run := func() []int64 {
		rng := NewGenerationKey(42).NewRNG()
		irds, err := ParseIRDList("d;b", 2)
		if err != nil {
			t.Fatal(err)
		}
		pop := []float64{0.8, 0.2}
		trace, err := GenerateGrouped(10, 500, irds, pop, rng)
		if err != nil {
			t.Fatal(err)
		}
		return trace
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("traces diverge at step %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestGenerateGrouped_HotGroupDominatesEarly(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	// Group 0 reschedules at +1, group 1 at +100: the first emissions
	// must all come from addresses 0-4.
	irds := []Sampler{constSampler{1}, constSampler{100}}
	trace, err := GenerateGrouped(10, 20, irds, []float64{0, 0}, rng)
	if err != nil {
		t.Fatal(err)
	}
	for i, addr := range trace {
		if addr >= 5 {
			t.Errorf("step %d emitted cold address %d", i, addr)
		}
	}
}

func TestGenerateGrouped_HeapHoldsOneEntryPerAddress(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	irds, err := ParseIRDList("b;c;d", 3)
	if err != nil {
		t.Fatal(err)
	}
	_, h, err := generateGrouped(30, 400, irds, []float64{0.5, 0.3, 0.2}, rng)
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 30 {
		t.Fatalf("heap size = %d, want 30", h.Len())
	}
	seen := make(map[int64]bool)
	for _, e := range h.entries {
		if seen[e.addr] {
			t.Errorf("address %d scheduled twice", e.addr)
		}
		seen[e.addr] = true
	}
}

func TestGenerateGrouped_StructuralViolations(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	ird := constSampler{1}

	cases := []struct {
		name      string
		addresses int64
		irds      []Sampler
		pop       []float64
	}{
		{"no groups", 10, nil, nil},
		{"pop count mismatch", 10, []Sampler{ird, ird}, []float64{1}},
		{"zero addresses", 0, []Sampler{ird}, []float64{1}},
		{"fewer addresses than groups", 2, []Sampler{ird, ird, ird}, []float64{1, 1, 1}},
	}
	for _, tc := range cases {
		_, err := GenerateGrouped(tc.addresses, 10, tc.irds, tc.pop, rng)
		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("%s: got %T, want *ConfigError", tc.name, err)
		}
	}
}

func TestDerivePopularities_DecodesFixedPoint(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	pop := DerivePopularities(NewPopularitySampler([]float64{2, 8}), 10, rng)
	if len(pop) != 10 {
		t.Fatalf("got %d popularities, want 10", len(pop))
	}
	for i, p := range pop {
		if p != 0.2 && p != 0.8 {
			t.Errorf("popularity %d = %v, want 0.2 or 0.8", i, p)
		}
	}
}
