// Package trace defines the emitted trace entry model and the sinks
// and sources that carry entries across the process boundary.
package trace

// Entry is one block-level access record, already in byte units.
type Entry struct {
	IsRead      bool
	SizeBytes   int64
	OffsetBytes int64
}

// Op returns the wire operation code: 0 for read, 1 for write.
func (e Entry) Op() int {
	if e.IsRead {
		return 0
	}
	return 1
}
