// Package iqe defines the Instruction Queue Entry, the unit that flows
// through the reservation stations, functional units, and reorder
// buffer. The ROB owns IQE storage from dispatch onward; RS and FU
// code holds only a reference to the ROB-owned entry, never a copy of
// the value.
package iqe

import (
	"github.com/sarchlab/apexsim/bis"
	"github.com/sarchlab/apexsim/isa"
)

// NoPhys is the sentinel physical index for "this operand is unused".
const NoPhys = -1

// IQE is one in-flight instruction, renamed and ready for dispatch.
type IQE struct {
	Op     isa.Op
	PC     int32
	NextPC int32
	Imm    int32

	// Renamed operand/destination physical indices. NoPhys if unused.
	RdPhys  int
	Rs1Phys int
	Rs2Phys int
	Rs3Phys int
	CCPhys  int

	// OldRdPhys/OldCCPhys are the mappings this instruction displaced at
	// rename time; they are released to the free list only at commit,
	// and only if this instruction actually renamed that mapping.
	OldRdPhys int
	OldCCPhys int
	ArchRd    int // architectural register RdPhys backs, or isa.NoReg

	// Captured operand values, filled in at make-IQE time or by
	// forwarding capture/broadcast.
	Rs1Value, Rs2Value, Rs3Value int32
	Rs1Valid, Rs2Valid, Rs3Valid bool
	CCValue                      isa.CC
	CCValid                      bool

	// ResultBuffer holds the FU's computed result (ALU result, load
	// value, store effective address, branch target, ...).
	ResultBuffer int32
	// CCResult is the CC this instruction produces, if it writes CC.
	CCResult isa.CC

	Completed bool
	Timestamp uint64

	// FetchDidRAS records whether Fetch already performed the matching
	// return-address-stack push (JALP) or pop (RET) for this
	// instruction. If false, the resolving functional unit performs the
	// reconciling push/pop itself once a misprediction restores the RAS.
	FetchDidRAS bool

	Snapshot bis.Snapshot
}

// NeedsRs1/NeedsRs2/NeedsRs3/NeedsCC report whether issue must wait on
// that operand before handing this IQE to its functional unit.
func (q *IQE) NeedsRs1() bool { return isa.UsesRs1(q.Op) }
func (q *IQE) NeedsRs2() bool { return isa.UsesRs2(q.Op) }
func (q *IQE) NeedsRs3() bool { return isa.UsesRs3(q.Op) }
func (q *IQE) NeedsCC() bool  { return isa.ReadsCC(q.Op) }

// Ready reports whether every operand this instruction actually reads
// has a valid captured value — the issue-selection predicate a
// reservation station scans for each cycle.
func (q *IQE) Ready() bool {
	if q.NeedsRs1() && !q.Rs1Valid {
		return false
	}
	if q.NeedsRs2() && !q.Rs2Valid {
		return false
	}
	if q.NeedsRs3() && !q.Rs3Valid {
		return false
	}
	if q.NeedsCC() && !q.CCValid {
		return false
	}
	return true
}

// CaptureForward checks idx against each needed-but-not-yet-valid
// operand and, on a match, copies in value and marks it valid. The
// reservation station's per-cycle forwarding scan calls it for every
// valid forwarding slot.
func (q *IQE) CaptureForward(idx int, value int32) {
	if q.NeedsRs1() && !q.Rs1Valid && q.Rs1Phys == idx {
		q.Rs1Value, q.Rs1Valid = value, true
	}
	if q.NeedsRs2() && !q.Rs2Valid && q.Rs2Phys == idx {
		q.Rs2Value, q.Rs2Valid = value, true
	}
	if q.NeedsRs3() && !q.Rs3Valid && q.Rs3Phys == idx {
		q.Rs3Value, q.Rs3Valid = value, true
	}
}

// CaptureForwardCC mirrors CaptureForward for the CC file broadcast.
func (q *IQE) CaptureForwardCC(idx int, cc isa.CC) {
	if q.NeedsCC() && !q.CCValid && q.CCPhys == idx {
		q.CCValue, q.CCValid = cc, true
	}
}
