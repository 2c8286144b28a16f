package util

import (
	"container/heap"
	"fmt"
)

// Lease is a scheduled deletion: the entry stored under Key should be removed
// once the write index reaches Deadline.
type Lease struct {
	Key      UintKey
	Deadline uint64
	pos      int // position in the heap slice, maintained by heap.Interface
}

func (l *Lease) String() string {
	return fmt.Sprintf("Lease{Key: %d, Deadline: %d}", l.Key, l.Deadline)
}

// LeaseHeap orders leases by deadline (earliest first) and allows O(1) lookup
// and O(log n) removal by key. A key is tracked at most once; adding it again
// moves its deadline.
//
// Thread-safety: LeaseHeap is not thread-safe, callers synchronize access.
type LeaseHeap struct {
	leases []*Lease
	byKey  map[UintKey]*Lease
}

// NewLeaseHeap creates an empty lease heap.
func NewLeaseHeap() *LeaseHeap {
	return &LeaseHeap{
		leases: make([]*Lease, 0),
		byKey:  make(map[UintKey]*Lease),
	}
}

// --------------------------------------------------------------------------
// heap.Interface (do not call directly, use the methods below)
// --------------------------------------------------------------------------

func (h *LeaseHeap) Len() int { return len(h.leases) }

func (h *LeaseHeap) Less(i, j int) bool {
	return h.leases[i].Deadline < h.leases[j].Deadline
}

func (h *LeaseHeap) Swap(i, j int) {
	h.leases[i], h.leases[j] = h.leases[j], h.leases[i]
	h.leases[i].pos = i
	h.leases[j].pos = j
}

func (h *LeaseHeap) Push(x interface{}) {
	l := x.(*Lease)
	l.pos = len(h.leases)
	h.leases = append(h.leases, l)
	h.byKey[l.Key] = l
}

func (h *LeaseHeap) Pop() interface{} {
	n := len(h.leases)
	l := h.leases[n-1]
	h.leases[n-1] = nil
	l.pos = -1
	h.leases = h.leases[:n-1]
	delete(h.byKey, l.Key)
	return l
}

// --------------------------------------------------------------------------
// Lease operations
// --------------------------------------------------------------------------

// Schedule tracks key with the given deadline, replacing an earlier deadline for the same key.
func (h *LeaseHeap) Schedule(key UintKey, deadline uint64) {
	if l, ok := h.byKey[key]; ok {
		l.Deadline = deadline
		heap.Fix(h, l.pos)
		return
	}
	heap.Push(h, &Lease{Key: key, Deadline: deadline})
}

// Cancel stops tracking key. It returns the deadline that was scheduled, if any.
func (h *LeaseHeap) Cancel(key UintKey) (uint64, bool) {
	l, ok := h.byKey[key]
	if !ok {
		return 0, false
	}
	heap.Remove(h, l.pos)
	return l.Deadline, true
}

// Next returns the lease with the earliest deadline without removing it.
func (h *LeaseHeap) Next() (Lease, bool) {
	if len(h.leases) == 0 {
		return Lease{}, false
	}
	return *h.leases[0], true
}

// Expired removes and returns all leases whose deadline is <= writeIdx, earliest first.
func (h *LeaseHeap) Expired(writeIdx uint64) []Lease {
	var due []Lease
	for len(h.leases) > 0 && h.leases[0].Deadline <= writeIdx {
		due = append(due, *heap.Pop(h).(*Lease))
	}
	return due
}

// Scheduled reports whether key is tracked.
func (h *LeaseHeap) Scheduled(key UintKey) bool {
	_, ok := h.byKey[key]
	return ok
}
