package regfile

// UPRFSize is the number of physical integer register slots. The first
// ArchRegCount slots are preassigned as the initial map for R0..R31;
// the rest start free.
const UPRFSize = 60

// ArchRegCount is the number of architectural integer registers.
const ArchRegCount = 32

// UPRF is the unified physical integer register file. It keeps two
// parallel vectors over the same slot indices: Arch (committed,
// architecturally visible) and Forward (speculatively visible to
// younger in-flight instructions the same cycle a functional unit
// writes back). Commit copies a slot from Forward into Arch.
type UPRF struct {
	Arch    [UPRFSize]int32
	ArchOK  [UPRFSize]bool
	Forward [UPRFSize]int32
	FwdOK   [UPRFSize]bool
}

// NewUPRF returns a UPRF with slots 0..31 valid and zeroed (the initial
// R0..R31 values) in both the architectural and forwarding vectors.
func NewUPRF() *UPRF {
	u := &UPRF{}
	for i := 0; i < ArchRegCount; i++ {
		u.ArchOK[i] = true
		u.FwdOK[i] = true
	}
	return u
}

// ReadArch returns the architecturally committed value at slot idx and
// whether it is valid.
func (u *UPRF) ReadArch(idx int) (int32, bool) {
	return u.Arch[idx], u.ArchOK[idx]
}

// ReadForward returns the speculative (forwarded) value at slot idx and
// whether it is valid.
func (u *UPRF) ReadForward(idx int) (int32, bool) {
	return u.Forward[idx], u.FwdOK[idx]
}

// Invalidate marks idx invalid in both vectors — done when Decode2
// allocates idx as a fresh destination slot.
func (u *UPRF) Invalidate(idx int) {
	u.ArchOK[idx] = false
	u.FwdOK[idx] = false
}

// WriteForward records a functional unit's result into the forwarding
// shadow copy, making it visible to waiting reservation-station entries
// this same cycle.
func (u *UPRF) WriteForward(idx int, value int32) {
	u.Forward[idx] = value
	u.FwdOK[idx] = true
}

// Commit copies the forwarded value at idx into the architectural
// vector, making it visible to Display and to Decode2's operand
// capture, which reads the architectural file.
func (u *UPRF) Commit(idx int, value int32) {
	u.Arch[idx] = value
	u.ArchOK[idx] = true
}

// ForwardSnapshot is a deep copy of the forwarding vectors only, used by
// BIS — the architectural vector never needs restoring, since commit
// order is never speculative.
type ForwardSnapshot struct {
	Values [UPRFSize]int32
	Valid  [UPRFSize]bool
}

// SnapshotForward captures the current forwarding vectors.
func (u *UPRF) SnapshotForward() ForwardSnapshot {
	return ForwardSnapshot{Values: u.Forward, Valid: u.FwdOK}
}

// RestoreForward overwrites the forwarding vectors from a snapshot.
func (u *UPRF) RestoreForward(snap ForwardSnapshot) {
	u.Forward = snap.Values
	u.FwdOK = snap.Valid
}
