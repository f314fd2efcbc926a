package pipeline

import (
	"fmt"

	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/iqe"
	"github.com/sarchlab/apexsim/memory"
)

// commitStage examines the ROB head and, if it has completed, retires
// it in program order: performing the deferred memory access for
// loads/stores, writing its destination and/or CC back to the
// architectural files, releasing the mapping it displaced, and — for
// HALT — initiating a clean shutdown.
func (c *CPU) commitStage() {
	head, ok := c.robQ.Head()
	if !ok || !head.Completed {
		return
	}

	if head.Op == isa.OpHALT {
		c.squashAndRestore(head)
		c.pc = head.NextPC
		c.robQ.CommitHead()
		c.halted = true
		c.stats.Instructions++
		return
	}

	switch head.Op {
	case isa.OpSTORE:
		if err := c.commitStore(head, head.Rs2Value); err != nil {
			c.fail(err)
			return
		}
	case isa.OpSTR:
		if err := c.commitStore(head, head.Rs1Value); err != nil {
			c.fail(err)
			return
		}
	case isa.OpLOAD, isa.OpLDR:
		addr := int(head.ResultBuffer)
		if !memory.InRange(addr) {
			c.fail(fmt.Errorf("pipeline: load from out-of-range address %d at pc %d", addr, head.PC))
			return
		}
		head.ResultBuffer = c.mem.Read(addr)
	}

	if head.RdPhys != iqe.NoPhys {
		c.uprf.WriteForward(head.RdPhys, head.ResultBuffer)
		c.uprf.Commit(head.RdPhys, head.ResultBuffer)
		if head.OldRdPhys != iqe.NoPhys {
			if err := c.rt.ReleaseUPRF(head.OldRdPhys); err != nil {
				c.fail(err)
				return
			}
		}
	}

	if isa.WritesCC(head.Op) {
		c.ucrf.Commit(head.CCPhys, head.CCResult)
		if head.OldCCPhys != iqe.NoPhys {
			if err := c.rt.ReleaseUCRF(head.OldCCPhys); err != nil {
				c.fail(err)
				return
			}
		}
	}

	c.robQ.CommitHead()
	c.stats.Instructions++
}

func (c *CPU) commitStore(q *iqe.IQE, value int32) error {
	addr := int(q.ResultBuffer)
	if !memory.InRange(addr) {
		return fmt.Errorf("pipeline: store to out-of-range address %d at pc %d", addr, q.PC)
	}
	c.mem.Write(addr, value)
	return nil
}
