package regfile

import "github.com/sarchlab/apexsim/isa"

// UCRFSize is the number of physical condition-code slots. The spec
// requires at least 10; slot 0 is preassigned as the initial CC
// mapping, the rest start free.
const UCRFSize = 10

// UCRF is the unified physical condition-code file, mirroring UPRF's
// architectural/forwarding split for the {Z,N,P} flag triple.
type UCRF struct {
	Arch    [UCRFSize]isa.CC
	ArchOK  [UCRFSize]bool
	Forward [UCRFSize]isa.CC
	FwdOK   [UCRFSize]bool
}

// NewUCRF returns a UCRF with slot 0 valid (the initial CC, all flags
// clear) in both vectors.
func NewUCRF() *UCRF {
	u := &UCRF{}
	u.ArchOK[0] = true
	u.FwdOK[0] = true
	return u
}

// ReadArch returns the architecturally committed CC at slot idx.
func (u *UCRF) ReadArch(idx int) (isa.CC, bool) {
	return u.Arch[idx], u.ArchOK[idx]
}

// ReadForward returns the speculative CC at slot idx.
func (u *UCRF) ReadForward(idx int) (isa.CC, bool) {
	return u.Forward[idx], u.FwdOK[idx]
}

// Invalidate marks idx invalid in both vectors.
func (u *UCRF) Invalidate(idx int) {
	u.ArchOK[idx] = false
	u.FwdOK[idx] = false
}

// WriteForward records a CC-producing functional unit's result into the
// forwarding shadow copy.
func (u *UCRF) WriteForward(idx int, cc isa.CC) {
	u.Forward[idx] = cc
	u.FwdOK[idx] = true
}

// Commit copies the forwarded CC at idx into the architectural vector.
func (u *UCRF) Commit(idx int, cc isa.CC) {
	u.Arch[idx] = cc
	u.ArchOK[idx] = true
}

// CCForwardSnapshot is a deep copy of the UCRF forwarding vectors.
type CCForwardSnapshot struct {
	Values [UCRFSize]isa.CC
	Valid  [UCRFSize]bool
}

// SnapshotForward captures the current forwarding vectors.
func (u *UCRF) SnapshotForward() CCForwardSnapshot {
	return CCForwardSnapshot{Values: u.Forward, Valid: u.FwdOK}
}

// RestoreForward overwrites the forwarding vectors from a snapshot.
func (u *UCRF) RestoreForward(snap CCForwardSnapshot) {
	u.Forward = snap.Values
	u.FwdOK = snap.Valid
}
