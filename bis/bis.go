// Package bis implements the branch-information snapshot: a
// per-instruction checkpoint of the rename table, the predictor table
// and return-address stack, and the forwarding UPRF/UCRF vectors,
// taken at dispatch and used to restore precise state on a
// misprediction or on a HALT commit.
package bis

import (
	"github.com/sarchlab/apexsim/predictor"
	"github.com/sarchlab/apexsim/regfile"
	"github.com/sarchlab/apexsim/rename"
)

// Snapshot is the full BIS checkpoint embedded in every IQE.
type Snapshot struct {
	Rename      rename.Snapshot
	Predictor   predictor.Snapshot
	RAS         predictor.RASSnapshot
	UPRFForward regfile.ForwardSnapshot
	UCRFForward regfile.CCForwardSnapshot
}

// Capture takes a complete checkpoint of the live pipeline state. This
// runs once per dispatched instruction; its
// O(rename_size + predictor_size + phys_reg_count) cost buys precise-
// state recovery without tracking per-instruction undo logs.
func Capture(rt *rename.Table, pred *predictor.Predictor, ras *predictor.RAS, uprf *regfile.UPRF, ucrf *regfile.UCRF) Snapshot {
	return Snapshot{
		Rename:      rt.Snapshot(),
		Predictor:   pred.Snapshot(),
		RAS:         ras.Snapshot(),
		UPRFForward: uprf.SnapshotForward(),
		UCRFForward: ucrf.SnapshotForward(),
	}
}

// Restore copies the snapshot back over the live rename table,
// predictor, return-address stack, and forwarding vectors. The caller
// is still responsible for setting the architectural PC and for
// dropping in-flight state younger than the recovering instruction.
func (s Snapshot) Restore(rt *rename.Table, pred *predictor.Predictor, ras *predictor.RAS, uprf *regfile.UPRF, ucrf *regfile.UCRF) {
	rt.Restore(s.Rename)
	pred.Restore(s.Predictor)
	ras.Restore(s.RAS)
	uprf.RestoreForward(s.UPRFForward)
	ucrf.RestoreForward(s.UCRFForward)
}
