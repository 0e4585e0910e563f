package sim

import (
	"testing"
)

func TestAugment_PreservesOrderAndScalesOffsets(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	addrs := []int64{3, 1, 2, 1}
	entries := Augment(addrs, 1.0, constSampler{1}, 4096, rng)

	if len(entries) != len(addrs) {
		t.Fatalf("got %d entries, want %d", len(entries), len(addrs))
	}
	for i, addr := range addrs {
		if entries[i].OffsetBytes != addr*4096 {
			t.Errorf("entry %d: offset = %d, want %d", i, entries[i].OffsetBytes, addr*4096)
		}
	}
}

func TestAugment_FracReadExtremes(t *testing.T) {
	addrs := []int64{0, 1, 2, 3, 4, 5, 6, 7}

	rng := NewGenerationKey(42).NewRNG()
	for i, e := range Augment(addrs, 1.0, constSampler{1}, 512, rng) {
		if !e.IsRead {
			t.Errorf("entry %d: want read with frac_read=1", i)
		}
	}

	rng = NewGenerationKey(42).NewRNG()
	for i, e := range Augment(addrs, 0.0, constSampler{1}, 512, rng) {
		if e.IsRead {
			t.Errorf("entry %d: want write with frac_read=0", i)
		}
	}
}

func TestAugment_SizesComeFromSizeDistribution(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	sizeDist, err := ParseSizeDist("1,1:1,3")
	if err != nil {
		t.Fatal(err)
	}
	entries := Augment([]int64{0, 0, 0, 0, 0, 0, 0, 0}, 1.0, sizeDist, 4096, rng)
	for i, e := range entries {
		if e.SizeBytes != 4096 && e.SizeBytes != 3*4096 {
			t.Errorf("entry %d: size = %d, want 4096 or 12288", i, e.SizeBytes)
		}
	}
}

func TestAugment_EmptyInput(t *testing.T) {
	rng := NewGenerationKey(42).NewRNG()
	entries := Augment(nil, 1.0, constSampler{1}, 4096, rng)
	if len(entries) != 0 {
		t.Errorf("got %d entries for empty input", len(entries))
	}
}
