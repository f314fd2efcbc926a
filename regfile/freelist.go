package regfile

import "fmt"

// FreeList is a bounded FIFO ring of free physical-register indices. It
// is the sole allocator for UPRF/UCRF slots, and the sole place a slot
// returns to after a redefining instruction commits.
type FreeList struct {
	ring     []int
	head     int // next index to pop
	tail     int // next index to push
	count    int
	capacity int
}

// NewFreeList returns a free list with room for capacity indices,
// pre-populated with initial (in FIFO order — initial[0] is popped
// first).
func NewFreeList(capacity int, initial []int) *FreeList {
	fl := &FreeList{
		ring:     make([]int, capacity),
		capacity: capacity,
	}
	for _, idx := range initial {
		fl.Push(idx)
	}
	return fl
}

// Len returns the number of currently free indices.
func (fl *FreeList) Len() int {
	return fl.count
}

// Empty reports whether the free list has no indices left to allocate.
func (fl *FreeList) Empty() bool {
	return fl.count == 0
}

// Pop removes and returns the oldest free index. It returns an error on
// underflow — a fatal condition, since it means the allocator promised
// more physical slots than exist.
func (fl *FreeList) Pop() (int, error) {
	if fl.count == 0 {
		return 0, fmt.Errorf("regfile: free-list underflow")
	}
	idx := fl.ring[fl.head]
	fl.head = (fl.head + 1) % fl.capacity
	fl.count--
	return idx, nil
}

// Push returns idx to the free list. It returns an error on overflow —
// pushing more slots back than the list has room for indicates a
// double-release bug upstream.
func (fl *FreeList) Push(idx int) error {
	if fl.count == fl.capacity {
		return fmt.Errorf("regfile: free-list overflow pushing %d", idx)
	}
	fl.ring[fl.tail] = idx
	fl.tail = (fl.tail + 1) % fl.capacity
	fl.count++
	return nil
}

// Snapshot returns a deep copy of the free list's state, for BIS
// checkpointing.
func (fl *FreeList) Snapshot() FreeList {
	cp := *fl
	cp.ring = make([]int, len(fl.ring))
	copy(cp.ring, fl.ring)
	return cp
}

// Restore replaces fl's state with a previously captured snapshot.
func (fl *FreeList) Restore(snap FreeList) {
	fl.ring = make([]int, len(snap.ring))
	copy(fl.ring, snap.ring)
	fl.head = snap.head
	fl.tail = snap.tail
	fl.count = snap.count
	fl.capacity = snap.capacity
}
