package pipeline

import (
	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/regfile"
)

// ArchRegisters returns the architectural value of R0..R31, read
// through the live rename mapping. Forwarded (uncommitted) values are
// never returned; for a register whose newest mapping belongs to an
// in-flight instruction, the result is that slot's architectural
// contents, which are not yet valid, not the register's last committed
// value.
func (c *CPU) ArchRegisters() [regfile.ArchRegCount]int32 {
	var out [regfile.ArchRegCount]int32
	for i := range out {
		v, _ := c.uprf.ReadArch(c.rt.Current(i))
		out[i] = v
	}
	return out
}

// CC returns the current architectural condition code.
func (c *CPU) CC() isa.CC {
	cc, _ := c.ucrf.ReadArch(c.rt.CurrentCC())
	return cc
}

// MemoryDump returns the first n words of data memory, for the Display
// command.
func (c *CPU) MemoryDump(n int) []int32 {
	return c.mem.Dump(n)
}

// LatchState describes one pipeline latch's contents, for Display.
type LatchState struct {
	Instruction isa.Instruction
	Valid       bool
}

// FetchLatch returns the instruction awaiting Decode1, if any.
func (c *CPU) FetchLatch() LatchState {
	return LatchState{Instruction: c.fetchLatch.inst, Valid: c.fetchLatch.valid}
}

// Decode1Latch returns the instruction awaiting Decode2/rename, if any.
func (c *CPU) Decode1Latch() LatchState {
	return LatchState{Instruction: c.decode1Latch.inst, Valid: c.decode1Latch.valid}
}

// PendingDispatch reports the PC of the renamed instruction awaiting
// room in the ROB/reservation station, if any.
func (c *CPU) PendingDispatch() (pc int32, valid bool) {
	if c.pendingDispatch == nil {
		return 0, false
	}
	return c.pendingDispatch.PC, true
}

// ROBLen, IRSLen, MRSLen, LSQLen report queue occupancy, for Display.
func (c *CPU) ROBLen() int { return c.robQ.Len() }
func (c *CPU) IRSLen() int { return c.irs.Len() }
func (c *CPU) MRSLen() int { return c.mrs.Len() }
func (c *CPU) LSQLen() int { return c.lsq.Len() }
