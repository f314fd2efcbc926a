package pipeline

import "github.com/sarchlab/apexsim/iqe"

// squashAndRestore drops every in-flight instruction younger than
// offending from the front-end latches, the functional units, the
// reservation stations, and the ROB, then restores the rename table,
// predictor, RAS, and forwarding vectors to exactly the state
// offending's own BIS snapshot captured at its dispatch. The caller is
// responsible for setting the PC afterward.
func (c *CPU) squashAndRestore(offending *iqe.IQE) {
	c.fetchLatch = latch{}
	c.decode1Latch = latch{}
	c.pendingDispatch = nil

	c.intFU.DropIfYounger(offending.Timestamp)
	c.mulFU.DropIfYounger(offending.Timestamp)
	c.memFU.DropIfYounger(offending.Timestamp)

	c.irs.RemoveAfter(offending.Timestamp)
	c.mrs.RemoveAfter(offending.Timestamp)
	c.lsq.RemoveAfter(offending.Timestamp)
	c.robQ.RemoveAfter(offending.Timestamp)

	offending.Snapshot.Restore(c.rt, c.pred, c.ras, c.uprf, c.ucrf)
}

// misrecover performs a full misprediction recovery: squash, restore,
// and redirect the PC to the resolved target.
func (c *CPU) misrecover(offending *iqe.IQE, resolvedTarget int32) {
	c.squashAndRestore(offending)
	c.pc = resolvedTarget
	c.stats.Mispredicts++
}
