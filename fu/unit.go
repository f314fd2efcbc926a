// Package fu implements the generic multi-cycle countdown latch shared
// by IntFU, MulFU, and MemFU. Each unit holds at most one in-flight
// IQE; opcode-specific computation is the caller's responsibility (the
// pipeline controller, which has the register-file and memory access
// an FU needs) — this package only tracks occupancy and the latency
// countdown.
package fu

import (
	"fmt"

	"github.com/sarchlab/apexsim/iqe"
)

// Default per-FU latencies, in cycles.
const (
	DefaultIntLatency = 1
	DefaultMulLatency = 4
	DefaultMemLatency = 3
)

// Unit is one functional unit's countdown latch.
type Unit struct {
	name      string
	latency   uint64
	inflight  *iqe.IQE
	remaining uint64
}

// New returns an idle unit with the given name (for diagnostics) and
// fixed latency.
func New(name string, latency uint64) *Unit {
	return &Unit{name: name, latency: latency}
}

// Busy reports whether the unit already holds an in-flight IQE.
func (u *Unit) Busy() bool {
	return u.inflight != nil
}

// Accept hands q to the unit, starting its latency countdown. Returns
// an error if the unit is already busy — issue must check Busy()
// first; at most one issue per FU per cycle.
func (u *Unit) Accept(q *iqe.IQE) error {
	if u.Busy() {
		return fmt.Errorf("fu: %s is already busy", u.name)
	}
	u.inflight = q
	u.remaining = u.latency
	return nil
}

// Tick decrements the countdown. It returns the in-flight IQE and true
// exactly on the cycle the countdown reaches zero — the caller then
// computes the result and performs writeback, and must call Clear to
// free the unit.
func (u *Unit) Tick() (*iqe.IQE, bool) {
	if u.inflight == nil {
		return nil, false
	}
	if u.remaining > 0 {
		u.remaining--
	}
	if u.remaining == 0 {
		return u.inflight, true
	}
	return nil, false
}

// Clear frees the unit after its writeback has been performed.
func (u *Unit) Clear() {
	u.inflight = nil
	u.remaining = 0
}

// DropIfYounger squashes the in-flight IQE if its dispatch timestamp is
// strictly greater than ts. Returns the dropped entry, if any.
func (u *Unit) DropIfYounger(ts uint64) (*iqe.IQE, bool) {
	if u.inflight != nil && u.inflight.Timestamp > ts {
		dropped := u.inflight
		u.Clear()
		return dropped, true
	}
	return nil, false
}

// Inflight returns the unit's in-flight entry, if any, without
// affecting its countdown — used by Display and invariant checks.
func (u *Unit) Inflight() (*iqe.IQE, bool) {
	return u.inflight, u.inflight != nil
}
