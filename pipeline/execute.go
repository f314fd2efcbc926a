package pipeline

import (
	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/iqe"
	"github.com/sarchlab/apexsim/predictor"
)

func branchTarget(pc, imm int32, taken bool) int32 {
	if taken {
		return pc + imm
	}
	return pc + isa.InstructionBytes
}

// execIntFU advances the integer functional unit's countdown and, on the
// cycle it completes, computes the instruction's result, resolves any
// control transfer, and performs writeback.
func (c *CPU) execIntFU() {
	q, done := c.intFU.Tick()
	if !done {
		return
	}
	c.runInt(q)
	q.Completed = true
	c.intFU.Clear()
}

func (c *CPU) runInt(q *iqe.IQE) {
	var result int32
	var cc isa.CC
	hasCC := false
	var target int32
	isCF := isa.IsControlFlow(q.Op)

	switch q.Op {
	case isa.OpADD:
		result = q.Rs1Value + q.Rs2Value
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpSUB:
		result = q.Rs1Value - q.Rs2Value
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpAND:
		result = q.Rs1Value & q.Rs2Value
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpOR:
		result = q.Rs1Value | q.Rs2Value
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpXOR:
		result = q.Rs1Value ^ q.Rs2Value
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpADDL:
		result = q.Rs1Value + q.Imm
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpSUBL:
		result = q.Rs1Value - q.Imm
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpMOVC:
		result = q.Imm
	case isa.OpCMP:
		result = q.Rs1Value - q.Rs2Value
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpCML:
		result = q.Rs1Value - q.Imm
		cc, hasCC = isa.CCFromResult(result), true
	case isa.OpBZ:
		target = branchTarget(q.PC, q.Imm, q.CCValue.Z)
	case isa.OpBNZ:
		target = branchTarget(q.PC, q.Imm, !q.CCValue.Z)
	case isa.OpBP:
		target = branchTarget(q.PC, q.Imm, q.CCValue.P)
	case isa.OpBN:
		target = branchTarget(q.PC, q.Imm, q.CCValue.N)
	case isa.OpBNP:
		target = branchTarget(q.PC, q.Imm, !q.CCValue.P)
	case isa.OpJUMP:
		target = q.Rs1Value + q.Imm
	case isa.OpJALP:
		target = q.PC + q.Imm
		result = q.PC + isa.InstructionBytes
	case isa.OpRET:
		target = q.Rs1Value
	case isa.OpHALT, isa.OpNOP:
		// no computation
	}

	q.ResultBuffer = result
	if hasCC {
		q.CCResult = cc
	}

	if isCF {
		c.resolveControlFlow(q, target)
	}

	if q.RdPhys != iqe.NoPhys && !isa.ReadsMemory(q.Op) {
		c.uprf.WriteForward(q.RdPhys, q.ResultBuffer)
	}
	if hasCC {
		c.ucrf.WriteForward(q.CCPhys, q.CCResult)
	}
}

// resolveControlFlow updates the predictor with the resolved target and,
// if it disagrees with the speculative NextPC Fetch recorded, squashes
// every younger in-flight instruction and redirects the PC. The
// predictor is refreshed and a misprediction is declared by the single
// uniform rule "resolved target != speculative next_pc", not only for
// taken-forward branches — this also covers the not-taken case and
// JALP/RET, where treating only the taken-forward-branch case
// specially would miss a flush.
func (c *CPU) resolveControlFlow(q *iqe.IQE, target int32) {
	if q.Op != isa.OpJUMP {
		var typ predictor.EntryType
		switch {
		case isa.IsBranch(q.Op):
			typ = predictor.TypeBranch
		case q.Op == isa.OpJALP:
			typ = predictor.TypeJALP
		case q.Op == isa.OpRET:
			typ = predictor.TypeRET
		}
		c.pred.Update(q.PC, target, typ)
	}

	if target == q.NextPC {
		return
	}

	c.misrecover(q, target)

	if !q.FetchDidRAS {
		switch q.Op {
		case isa.OpJALP:
			if err := c.ras.Push(q.PC + isa.InstructionBytes); err != nil {
				c.fail(err)
			}
		case isa.OpRET:
			if _, err := c.ras.Pop(); err != nil {
				c.fail(err)
			}
		}
	}
}

// execMulFU advances the multiply/divide functional unit and, on
// completion, computes the result and writes it forward immediately —
// unlike loads, MUL/DIV results are known the instant the FU finishes.
func (c *CPU) execMulFU() {
	q, done := c.mulFU.Tick()
	if !done {
		return
	}
	switch q.Op {
	case isa.OpMUL:
		q.ResultBuffer = q.Rs1Value * q.Rs2Value
	case isa.OpDIV:
		if q.Rs2Value == 0 {
			q.ResultBuffer = 0
		} else {
			q.ResultBuffer = q.Rs1Value / q.Rs2Value
		}
	}
	if q.RdPhys != iqe.NoPhys {
		c.uprf.WriteForward(q.RdPhys, q.ResultBuffer)
	}
	q.Completed = true
	c.mulFU.Clear()
}

// execMemFU advances the memory functional unit. It computes only the
// effective address; the actual memory access, and the
// load-destination forwarding that depends on it, happen at commit.
func (c *CPU) execMemFU() {
	q, done := c.memFU.Tick()
	if !done {
		return
	}
	switch q.Op {
	case isa.OpLOAD, isa.OpSTORE:
		q.ResultBuffer = q.Rs1Value + q.Imm
	case isa.OpLDR:
		q.ResultBuffer = q.Rs1Value + q.Rs2Value
	case isa.OpSTR:
		q.ResultBuffer = q.Rs2Value + q.Rs3Value
	}
	q.Completed = true
	c.memFU.Clear()
}
