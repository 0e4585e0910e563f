// Package report computes summary statistics over generated traces,
// for sanity-checking a synthesized workload before feeding it to a
// cache or storage simulator.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sugawarayuuta/sonnet"
	"gonum.org/v1/gonum/stat"

	"github.com/storage-sim/tracegen/trace"
)

// OffsetCount pairs a byte offset with its reference count.
type OffsetCount struct {
	Offset int64 `json:"offset"`
	Count  int   `json:"count"`
}

// Summary aggregates a trace into headline numbers.
type Summary struct {
	Entries         int           `json:"entries"`
	Footprint       int           `json:"footprint"` // unique offsets touched
	ReadFraction    float64       `json:"read_fraction"`
	TotalBytes      int64         `json:"total_bytes"`
	SizeMeanBytes   float64       `json:"size_mean_bytes"`
	SizeStdDevBytes float64       `json:"size_stddev_bytes"`
	Hottest         []OffsetCount `json:"hottest"`
}

// Summarize computes a Summary over entries. topK bounds the hottest
// offset list; ties order by ascending offset for stable output.
func Summarize(entries []trace.Entry, topK int) Summary {
	s := Summary{Entries: len(entries)}
	if len(entries) == 0 {
		return s
	}

	counts := make(map[int64]int, len(entries))
	sizes := make([]float64, 0, len(entries))
	reads := 0
	for _, e := range entries {
		counts[e.OffsetBytes]++
		sizes = append(sizes, float64(e.SizeBytes))
		s.TotalBytes += e.SizeBytes
		if e.IsRead {
			reads++
		}
	}
	s.Footprint = len(counts)
	s.ReadFraction = float64(reads) / float64(len(entries))
	s.SizeMeanBytes = stat.Mean(sizes, nil)
	s.SizeStdDevBytes = stat.StdDev(sizes, nil)

	hottest := make([]OffsetCount, 0, len(counts))
	for off, c := range counts {
		hottest = append(hottest, OffsetCount{Offset: off, Count: c})
	}
	sort.Slice(hottest, func(i, j int) bool {
		if hottest[i].Count != hottest[j].Count {
			return hottest[i].Count > hottest[j].Count
		}
		return hottest[i].Offset < hottest[j].Offset
	})
	if topK > 0 && len(hottest) > topK {
		hottest = hottest[:topK]
	}
	s.Hottest = hottest
	return s
}

// JSON renders the summary as indented JSON.
func (s Summary) JSON() ([]byte, error) {
	return sonnet.MarshalIndent(s, "", "  ")
}

// String renders a human-readable multi-line summary.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "entries:        %d\n", s.Entries)
	fmt.Fprintf(&b, "footprint:      %d unique offsets\n", s.Footprint)
	fmt.Fprintf(&b, "read fraction:  %.4f\n", s.ReadFraction)
	fmt.Fprintf(&b, "total bytes:    %d\n", s.TotalBytes)
	fmt.Fprintf(&b, "size mean:      %.1f bytes\n", s.SizeMeanBytes)
	fmt.Fprintf(&b, "size stddev:    %.1f bytes\n", s.SizeStdDevBytes)
	if len(s.Hottest) > 0 {
		fmt.Fprintf(&b, "hottest offsets:\n")
		for _, oc := range s.Hottest {
			fmt.Fprintf(&b, "  %12d  %d refs\n", oc.Offset, oc.Count)
		}
	}
	return b.String()
}
