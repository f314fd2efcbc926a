// Package rob implements the reorder buffer: an in-order FIFO of
// in-flight IQEs that owns their storage from dispatch to commit or
// squash. Only the head is ever examined at commit.
package rob

import (
	"fmt"

	"github.com/sarchlab/apexsim/iqe"
)

// DefaultCapacity is the default reorder buffer capacity, used when New
// is given a non-positive capacity.
const DefaultCapacity = 80

// ROB is the reorder buffer.
type ROB struct {
	capacity int
	entries  []*iqe.IQE
}

// New returns an empty reorder buffer with the given capacity.
func New(capacity int) *ROB {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ROB{capacity: capacity}
}

// Len returns the number of in-flight entries.
func (r *ROB) Len() int {
	return len(r.entries)
}

// Full reports whether the ROB has no room for another dispatch.
func (r *ROB) Full() bool {
	return len(r.entries) >= r.capacity
}

// Dispatch appends q to the tail. Returns an error if the ROB is full.
// A full ROB is a stall that decode2 detects through Full() before
// dispatch, so an overflow that reaches here indicates a caller bug,
// and the pipeline treats the error as fatal.
func (r *ROB) Dispatch(q *iqe.IQE) error {
	if r.Full() {
		return fmt.Errorf("rob: overflow: capacity %d exceeded", r.capacity)
	}
	r.entries = append(r.entries, q)
	return nil
}

// Head returns the oldest in-flight entry, if any.
func (r *ROB) Head() (*iqe.IQE, bool) {
	if len(r.entries) == 0 {
		return nil, false
	}
	return r.entries[0], true
}

// CommitHead removes the head entry — called once the caller has
// finished committing it.
func (r *ROB) CommitHead() {
	if len(r.entries) == 0 {
		return
	}
	r.entries = r.entries[1:]
}

// RemoveAfter drops every entry with a dispatch timestamp strictly
// greater than ts, preserving relative order among the survivors.
func (r *ROB) RemoveAfter(ts uint64) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Timestamp <= ts {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// Entries returns the live entries in program order, oldest first —
// used by invariant checks and Display.
func (r *ROB) Entries() []*iqe.IQE {
	return r.entries
}
