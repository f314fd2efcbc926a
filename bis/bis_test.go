package bis_test

import (
	"github.com/google/go-cmp/cmp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/bis"
	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/predictor"
	"github.com/sarchlab/apexsim/regfile"
	"github.com/sarchlab/apexsim/rename"
)

var _ = Describe("Snapshot", func() {
	It("restores rename, predictor, RAS, and forwarding state together", func() {
		rt := rename.New()
		pred := predictor.New(4)
		ras := predictor.NewRAS(4)
		uprf := regfile.NewUPRF()
		ucrf := regfile.NewUCRF()

		before := bis.Capture(rt, pred, ras, uprf, ucrf)
		forwardBefore := uprf.SnapshotForward()

		_, _, err := rt.RenameDest(1)
		Expect(err).ToNot(HaveOccurred())
		pred.Update(4000, 4020, predictor.TypeBranch)
		Expect(ras.Push(4008)).To(Succeed())
		uprf.Invalidate(32)
		uprf.WriteForward(32, 77)
		ucrf.Invalidate(1)
		ucrf.WriteForward(1, isa.CC{Z: true})

		before.Restore(rt, pred, ras, uprf, ucrf)

		Expect(rt.Current(1)).To(Equal(1))
		_, ok := pred.Lookup(4000)
		Expect(ok).To(BeFalse())
		Expect(ras.Len()).To(Equal(0))
		_, fok := uprf.ReadForward(32)
		Expect(fok).To(BeFalse())

		// The forwarding vectors must be bit-for-bit identical to what
		// they were before any of the speculative writes happened.
		forwardAfter := uprf.SnapshotForward()
		Expect(cmp.Diff(forwardBefore, forwardAfter)).To(BeEmpty())
	})
})
