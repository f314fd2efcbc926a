package pipeline

import (
	"github.com/sarchlab/apexsim/bis"
	"github.com/sarchlab/apexsim/fu"
	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/iqe"
	"github.com/sarchlab/apexsim/memory"
	"github.com/sarchlab/apexsim/predictor"
	"github.com/sarchlab/apexsim/regfile"
	"github.com/sarchlab/apexsim/rename"
	"github.com/sarchlab/apexsim/rob"
	"github.com/sarchlab/apexsim/rs"
)

// latch is a one-entry pipeline register between Fetch and Decode1, and
// between Decode1 and Decode2. Decode1 has no computational content
// of its own in this ISA — the decoded Instruction already carries
// everything Decode1 would extract — so it exists purely as an extra
// cycle of buffering ahead of rename.
type latch struct {
	inst        isa.Instruction
	valid       bool
	fetchDidRAS bool
}

// CPU is the APEX out-of-order pipeline: fetch through a two-deep
// front end, rename/dispatch into the ROB and one of three reservation
// stations, out-of-order issue to three functional units, and in-order
// commit.
type CPU struct {
	cfg Config

	mem  *memory.Memory
	uprf *regfile.UPRF
	ucrf *regfile.UCRF
	rt   *rename.Table
	pred *predictor.Predictor
	ras  *predictor.RAS

	irs  *rs.Station
	mrs  *rs.Station
	lsq  *rs.Station
	robQ *rob.ROB

	intFU *fu.Unit
	mulFU *fu.Unit
	memFU *fu.Unit

	program []isa.Instruction
	pc      int32
	cycle   uint64

	fetchLatch   latch
	decode1Latch latch

	pendingDispatch *iqe.IQE
	pendingClass    isa.Class

	halted   bool
	fatalErr error

	stats Stats
}

// NewCPU returns a CPU loaded with program, reset to the architectural
// initial state: R0..R31 and CC zeroed, PC at isa.CodeStart, every
// structure empty.
func NewCPU(program []isa.Instruction, opts ...Option) *CPU {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &CPU{
		cfg:     cfg,
		mem:     memory.New(),
		uprf:    regfile.NewUPRF(),
		ucrf:    regfile.NewUCRF(),
		rt:      rename.New(),
		pred:    predictor.New(cfg.PredictorCapacity),
		ras:     predictor.NewRAS(cfg.RASCapacity),
		irs:     rs.New("IRS", cfg.IRSCapacity),
		mrs:     rs.New("MRS", cfg.MRSCapacity),
		lsq:     rs.New("LSQ", cfg.LSQCapacity),
		robQ:    rob.New(cfg.ROBCapacity),
		intFU:   fu.New("IntFU", cfg.IntLatency),
		mulFU:   fu.New("MulFU", cfg.MulLatency),
		memFU:   fu.New("MemFU", cfg.MemLatency),
		program: program,
		pc:      isa.CodeStart,
	}
}

// Memory returns the data memory, for SetMem/ShowMem.
func (c *CPU) Memory() *memory.Memory { return c.mem }

// Halted reports whether the pipeline has committed a HALT.
func (c *CPU) Halted() bool { return c.halted }

// Err returns the fatal error that stopped the pipeline, if any (free-
// list exhaustion, RAS over/underflow, ROB/RS invariant violation,
// out-of-range memory access).
func (c *CPU) Err() error { return c.fatalErr }

// PC returns the current (speculative) program counter.
func (c *CPU) PC() int32 { return c.pc }

// Cycle returns the number of cycles executed so far.
func (c *CPU) Cycle() uint64 { return c.cycle }

// Stats returns a snapshot of the running statistics.
func (c *CPU) Stats() Stats { return c.stats }

func (c *CPU) fail(err error) {
	if c.fatalErr == nil {
		c.fatalErr = err
	}
}

func (c *CPU) stationFor(class isa.Class) *rs.Station {
	switch class {
	case isa.ClassInt:
		return c.irs
	case isa.ClassMul:
		return c.mrs
	default:
		return c.lsq
	}
}

// Tick advances the pipeline by exactly one cycle, running every stage
// in a fixed order: Decode2/rename (the only stage with renaming side
// effects), the three functional units, commit, and finally
// forwardPipeline, which performs dispatch, issue, and latch movement.
// It returns the fatal error, if Tick has produced one; once set,
// every subsequent Tick is a no-op that returns it again.
func (c *CPU) Tick() error {
	if c.halted || c.fatalErr != nil {
		return c.fatalErr
	}
	c.cycle++

	decode2Consumed := c.decode2Stage()
	if c.fatalErr != nil {
		return c.fatalErr
	}

	c.execIntFU()
	c.execMulFU()
	c.execMemFU()
	if c.fatalErr != nil {
		return c.fatalErr
	}

	c.commitStage()
	if c.fatalErr != nil {
		return c.fatalErr
	}

	if !c.halted {
		c.forwardPipeline(decode2Consumed)
	}

	c.stats.Cycles++
	return c.fatalErr
}

// Run ticks the pipeline up to n times, stopping early on HALT or a
// fatal error — the Simulate <N> REPL command.
func (c *CPU) Run(n int) error {
	for i := 0; i < n && !c.halted && c.fatalErr == nil; i++ {
		if err := c.Tick(); err != nil {
			return err
		}
	}
	return c.fatalErr
}

// decode2Stage renames decode1Latch's instruction and captures its BIS
// snapshot, provided both the ROB and its target reservation station
// have room. It is a no-op — and the stall propagates back
// through decode1Latch and fetchLatch via forwardPipeline — when there
// is nothing to decode, a rename is already staged awaiting dispatch,
// or the target queues are full. Returns whether it consumed
// decode1Latch this cycle.
func (c *CPU) decode2Stage() bool {
	if c.pendingDispatch != nil {
		return false
	}
	if !c.decode1Latch.valid {
		return false
	}

	inst := c.decode1Latch.inst
	class := isa.ClassOf(inst.Op)
	station := c.stationFor(class)
	if c.robQ.Full() || station.Full() {
		return false
	}

	q := &iqe.IQE{
		Op: inst.Op, PC: inst.PC, NextPC: inst.NextPC, Imm: inst.Imm,
		RdPhys: iqe.NoPhys, Rs1Phys: iqe.NoPhys, Rs2Phys: iqe.NoPhys, Rs3Phys: iqe.NoPhys,
		OldRdPhys: iqe.NoPhys, OldCCPhys: iqe.NoPhys, ArchRd: isa.NoReg,
		FetchDidRAS: c.decode1Latch.fetchDidRAS,
	}

	if isa.UsesRs1(inst.Op) && inst.Rs1 != isa.NoReg {
		q.Rs1Phys = c.rt.Current(inst.Rs1)
		if v, ok := c.uprf.ReadArch(q.Rs1Phys); ok {
			q.Rs1Value, q.Rs1Valid = v, true
		}
	}
	if isa.UsesRs2(inst.Op) && inst.Rs2 != isa.NoReg {
		q.Rs2Phys = c.rt.Current(inst.Rs2)
		if v, ok := c.uprf.ReadArch(q.Rs2Phys); ok {
			q.Rs2Value, q.Rs2Valid = v, true
		}
	}
	if isa.UsesRs3(inst.Op) && inst.Rs3 != isa.NoReg {
		q.Rs3Phys = c.rt.Current(inst.Rs3)
		if v, ok := c.uprf.ReadArch(q.Rs3Phys); ok {
			q.Rs3Value, q.Rs3Valid = v, true
		}
	}

	if isa.WritesCC(inst.Op) {
		newPhys, oldPhys, err := c.rt.RenameCC()
		if err != nil {
			c.fail(err)
			return false
		}
		c.ucrf.Invalidate(newPhys)
		q.CCPhys, q.OldCCPhys = newPhys, oldPhys
	} else {
		q.CCPhys = c.rt.CurrentCC()
		q.OldCCPhys = iqe.NoPhys
		if isa.ReadsCC(inst.Op) {
			if v, ok := c.ucrf.ReadArch(q.CCPhys); ok {
				q.CCValue, q.CCValid = v, true
			}
		}
	}

	if inst.Rd != isa.NoReg {
		newPhys, oldPhys, err := c.rt.RenameDest(inst.Rd)
		if err != nil {
			c.fail(err)
			return false
		}
		c.uprf.Invalidate(newPhys)
		q.RdPhys, q.OldRdPhys, q.ArchRd = newPhys, oldPhys, inst.Rd
	}

	q.Snapshot = bis.Capture(c.rt, c.pred, c.ras, c.uprf, c.ucrf)

	c.pendingDispatch = q
	c.pendingClass = class
	c.decode1Latch = latch{}
	return true
}

// fetchStage fetches the instruction at the current PC, predicts its
// successor, and advances PC to the prediction. It is only
// called when the fetch latch is about to be free; it returns an
// invalid latch once the program is exhausted.
func (c *CPU) fetchStage() latch {
	idx := int((c.pc - isa.CodeStart) / isa.InstructionBytes)
	if idx < 0 || idx >= len(c.program) {
		return latch{}
	}

	inst := c.program[idx]
	inst.PC = c.pc
	predictedPC := c.pc + isa.InstructionBytes
	fetchDidRAS := false

	switch {
	case isa.IsBranch(inst.Op):
		if inst.Imm < 0 {
			predictedPC = c.pc + inst.Imm
		} else if e, ok := c.pred.Lookup(c.pc); ok {
			predictedPC = e.Target
		}
	case inst.Op == isa.OpJALP:
		if e, ok := c.pred.Lookup(c.pc); ok {
			predictedPC = e.Target
			if err := c.ras.Push(c.pc + isa.InstructionBytes); err != nil {
				c.fail(err)
			} else {
				fetchDidRAS = true
			}
		}
	case inst.Op == isa.OpRET:
		if _, ok := c.pred.Lookup(c.pc); ok {
			if v, err := c.ras.Pop(); err == nil {
				predictedPC = v
				fetchDidRAS = true
			} else {
				c.fail(err)
			}
		}
	}

	inst.NextPC = predictedPC
	c.pc = predictedPC
	return latch{inst: inst, valid: true, fetchDidRAS: fetchDidRAS}
}

// forwardPipeline is the final step of a tick: it commits the pending
// dispatch into the ROB and its station, refreshes every station's
// forwarding-captured operands, issues one ready entry per functional
// unit, and finally moves the Fetch/Decode1 latches forward by one
// stage.
func (c *CPU) forwardPipeline(decode2Consumed bool) {
	if c.pendingDispatch != nil {
		q := c.pendingDispatch
		q.Timestamp = c.cycle
		if err := c.robQ.Dispatch(q); err != nil {
			c.fail(err)
			return
		}
		if err := c.stationFor(c.pendingClass).Add(q); err != nil {
			c.fail(err)
			return
		}
		c.pendingDispatch = nil
		c.stats.Dispatched++
	}

	c.rescanForwarding()

	c.tryIssue(c.irs, c.intFU)
	c.tryIssue(c.mrs, c.mulFU)
	c.tryIssue(c.lsq, c.memFU)

	decode1CanAccept := decode2Consumed || !c.decode1Latch.valid
	if decode1CanAccept {
		c.decode1Latch = c.fetchLatch
		c.fetchLatch = c.fetchStage()
	}
}

func (c *CPU) tryIssue(station *rs.Station, unit *fu.Unit) {
	if unit.Busy() {
		return
	}
	q, ok := station.IssueOldestReady()
	if !ok {
		return
	}
	if err := unit.Accept(q); err != nil {
		c.fail(err)
	}
}

// rescanForwarding applies every currently-valid forwarding slot to
// every station each cycle. It is the only path by which forwarded
// values reach station entries: the functional units write only the
// forwarding vectors, earlier in the same tick, so a waiting entry
// (including one dispatched this tick) captures a value the cycle it
// is produced.
func (c *CPU) rescanForwarding() {
	for idx := 0; idx < regfile.UPRFSize; idx++ {
		if v, ok := c.uprf.ReadForward(idx); ok {
			c.irs.ForwardScanUPRF(idx, v)
			c.mrs.ForwardScanUPRF(idx, v)
			c.lsq.ForwardScanUPRF(idx, v)
		}
	}
	for idx := 0; idx < regfile.UCRFSize; idx++ {
		if cc, ok := c.ucrf.ReadForward(idx); ok {
			c.irs.ForwardScanUCRF(idx, cc)
			c.mrs.ForwardScanUCRF(idx, cc)
			c.lsq.ForwardScanUCRF(idx, cc)
		}
	}
}
