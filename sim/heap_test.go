package sim

import "testing"

func TestScheduleHeap_PopsInVirtualTimeOrder(t *testing.T) {
	h := newScheduleHeap(8)
	for _, e := range []scheduleEntry{
		{vtime: 30, addr: 0},
		{vtime: 10, addr: 1},
		{vtime: 20, addr: 2},
		{vtime: 5, addr: 3},
	} {
		h.Schedule(e)
	}

	want := []int64{3, 1, 2, 0}
	for i, addr := range want {
		got := h.PopNext()
		if got.addr != addr {
			t.Errorf("pop %d: addr = %d, want %d", i, got.addr, addr)
		}
	}
	if h.Len() != 0 {
		t.Errorf("heap not drained, %d entries left", h.Len())
	}
}

func TestScheduleHeap_TiesBreakByLowestAddress(t *testing.T) {
	h := newScheduleHeap(8)
	for _, addr := range []int64{4, 1, 3, 0, 2} {
		h.Schedule(scheduleEntry{vtime: 7, addr: addr})
	}

	for want := int64(0); want < 5; want++ {
		got := h.PopNext()
		if got.addr != want {
			t.Errorf("tie pop: addr = %d, want %d", got.addr, want)
		}
	}
}

func TestScheduleHeap_PeekDoesNotRemove(t *testing.T) {
	h := newScheduleHeap(2)
	h.Schedule(scheduleEntry{vtime: 3, addr: 9})
	h.Schedule(scheduleEntry{vtime: 1, addr: 4})

	if got := h.Peek(); got.addr != 4 {
		t.Errorf("Peek addr = %d, want 4", got.addr)
	}
	if h.Len() != 2 {
		t.Errorf("Peek changed heap size to %d", h.Len())
	}
}

func TestScheduleHeap_RescheduleKeepsCardinality(t *testing.T) {
	h := newScheduleHeap(4)
	for a := int64(0); a < 4; a++ {
		h.Schedule(scheduleEntry{vtime: a, addr: a})
	}
	for i := 0; i < 100; i++ {
		e := h.PopNext()
		e.vtime += 3
		h.Schedule(e)
		if h.Len() != 4 {
			t.Fatalf("step %d: heap size %d, want 4", i, h.Len())
		}
	}
}
