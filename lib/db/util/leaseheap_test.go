package util

import (
	"testing"
)

func TestLeaseHeapOrder(t *testing.T) {
	h := NewLeaseHeap()
	h.Schedule(1, 100)
	h.Schedule(2, 20)
	h.Schedule(3, 50)

	if h.Len() != 3 {
		t.Fatalf("Expected 3 leases, got %d", h.Len())
	}

	next, ok := h.Next()
	if !ok || next.Key != 2 || next.Deadline != 20 {
		t.Errorf("Expected next lease (2,20), got %v (ok=%v)", next, ok)
	}

	due := h.Expired(60)
	if len(due) != 2 {
		t.Fatalf("Expected 2 expired leases, got %d", len(due))
	}
	if due[0].Key != 2 || due[1].Key != 3 {
		t.Errorf("Expected leases in deadline order [2 3], got [%d %d]", due[0].Key, due[1].Key)
	}
	if h.Scheduled(2) || h.Scheduled(3) {
		t.Errorf("Expired leases should no longer be scheduled")
	}
	if !h.Scheduled(1) {
		t.Errorf("Lease 1 should still be scheduled")
	}
}

func TestLeaseHeapReschedule(t *testing.T) {
	h := NewLeaseHeap()
	h.Schedule(1, 10)
	h.Schedule(2, 20)

	// moving key 1 behind key 2
	h.Schedule(1, 30)

	if h.Len() != 2 {
		t.Fatalf("Rescheduling must not duplicate a key, got %d leases", h.Len())
	}
	next, _ := h.Next()
	if next.Key != 2 {
		t.Errorf("Expected key 2 first after reschedule, got %d", next.Key)
	}
}

func TestLeaseHeapCancel(t *testing.T) {
	h := NewLeaseHeap()
	h.Schedule(1, 10)
	h.Schedule(2, 20)
	h.Schedule(3, 30)

	deadline, ok := h.Cancel(2)
	if !ok || deadline != 20 {
		t.Errorf("Expected to cancel lease with deadline 20, got %d (ok=%v)", deadline, ok)
	}
	if _, ok := h.Cancel(2); ok {
		t.Errorf("Cancelling twice should report false")
	}

	due := h.Expired(100)
	if len(due) != 2 || due[0].Key != 1 || due[1].Key != 3 {
		t.Errorf("Expected remaining leases [1 3], got %v", due)
	}
}

func TestLeaseHeapEmpty(t *testing.T) {
	h := NewLeaseHeap()
	if _, ok := h.Next(); ok {
		t.Errorf("Next() on an empty heap should report false")
	}
	if due := h.Expired(1 << 62); len(due) != 0 {
		t.Errorf("Expected no expired leases, got %d", len(due))
	}
}
