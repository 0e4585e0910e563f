package sim

import "container/heap"

// scheduleEntry tracks the next virtual time at which an address is
// due for re-reference. While a run is in flight every address has
// exactly one entry; a popped entry is always rescheduled.
type scheduleEntry struct {
	vtime int64 // next scheduled virtual time (non-decreasing per address)
	addr  int64
	group int
}

// scheduleHeap is a min-heap over virtual time with deterministic
// ordering: virtual time first, ties broken by ascending address. The
// tie-break is what makes pop order reproducible across platforms; the
// heap's internal layout never influences the emitted sequence.
type scheduleHeap struct {
	entries []scheduleEntry
}

func newScheduleHeap(capacity int) *scheduleHeap {
	h := &scheduleHeap{entries: make([]scheduleEntry, 0, capacity)}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *scheduleHeap) Len() int {
	return len(h.entries)
}

// Less implements heap.Interface with deterministic ordering
func (h *scheduleHeap) Less(i, j int) bool {
	ei, ej := h.entries[i], h.entries[j]
	if ei.vtime != ej.vtime {
		return ei.vtime < ej.vtime
	}
	return ei.addr < ej.addr
}

// Swap implements heap.Interface
func (h *scheduleHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

// Push implements heap.Interface
func (h *scheduleHeap) Push(x interface{}) {
	h.entries = append(h.entries, x.(scheduleEntry))
}

// Pop implements heap.Interface
func (h *scheduleHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	item := old[n-1]
	h.entries = old[0 : n-1]
	return item
}

// Schedule adds an entry to the heap.
func (h *scheduleHeap) Schedule(e scheduleEntry) {
	heap.Push(h, e)
}

// PopNext removes and returns the entry with the smallest virtual time.
func (h *scheduleHeap) PopNext() scheduleEntry {
	return heap.Pop(h).(scheduleEntry)
}

// Peek returns the minimum entry without removing it.
func (h *scheduleHeap) Peek() scheduleEntry {
	return h.entries[0]
}
