// Package rs implements the reservation stations: IRS, MRS, and LSQ
// are all instances of the same generic Station type, differing only
// in capacity and which opcode class feeds them. A Station never owns
// an IQE's storage — the ROB does — it holds only the *iqe.IQE
// reference the ROB handed it at dispatch.
package rs

import (
	"fmt"

	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/iqe"
)

// Station is a capacity-bounded pool of in-flight IQE references
// awaiting operands.
type Station struct {
	name     string
	capacity int
	entries  []*iqe.IQE
}

// New returns an empty station with the given name (for diagnostics)
// and capacity.
func New(name string, capacity int) *Station {
	return &Station{name: name, capacity: capacity}
}

// Len returns the number of entries currently held.
func (s *Station) Len() int {
	return len(s.entries)
}

// Full reports whether the station has no room for another dispatch.
func (s *Station) Full() bool {
	return len(s.entries) >= s.capacity
}

// Add inserts q into the station. Returns an error if the station is
// full. Decode2 stalls on Full() before a dispatch ever reaches Add, so
// the pipeline treats an error here as fatal.
func (s *Station) Add(q *iqe.IQE) error {
	if s.Full() {
		return fmt.Errorf("rs: %s is full", s.name)
	}
	s.entries = append(s.entries, q)
	return nil
}

// Remove drops q from the station. It is a no-op if q is not present.
// Issue does not need it: IssueOldestReady removes the entry it returns.
func (s *Station) Remove(q *iqe.IQE) {
	for i, e := range s.entries {
		if e == q {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// RemoveAfter drops every entry with a dispatch timestamp strictly
// greater than ts. Returns the removed entries.
func (s *Station) RemoveAfter(ts uint64) []*iqe.IQE {
	kept := s.entries[:0]
	var removed []*iqe.IQE
	for _, e := range s.entries {
		if e.Timestamp > ts {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return removed
}

// ForwardScanUPRF applies a UPRF broadcast (idx, value) to every entry
// waiting on that slot, capturing it the same cycle it's produced.
func (s *Station) ForwardScanUPRF(idx int, value int32) {
	for _, e := range s.entries {
		e.CaptureForward(idx, value)
	}
}

// ForwardScanUCRF applies a UCRF broadcast (idx, cc) to every entry.
func (s *Station) ForwardScanUCRF(idx int, cc isa.CC) {
	for _, e := range s.entries {
		e.CaptureForwardCC(idx, cc)
	}
}

// IssueOldestReady selects the entry with the smallest dispatch
// timestamp among those whose operands are all valid, removes it from
// the station, and returns it. Returns (nil, false) if nothing is
// ready.
func (s *Station) IssueOldestReady() (*iqe.IQE, bool) {
	var best *iqe.IQE
	bestIdx := -1
	for i, e := range s.entries {
		if !e.Ready() {
			continue
		}
		if best == nil || e.Timestamp < best.Timestamp {
			best = e
			bestIdx = i
		}
	}
	if best == nil {
		return nil, false
	}
	s.entries = append(s.entries[:bestIdx], s.entries[bestIdx+1:]...)
	return best, true
}

// Entries returns the live entries, for invariant checks and Display.
func (s *Station) Entries() []*iqe.IQE {
	return s.entries
}
