package iqe_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/iqe"
)

var _ = Describe("IQE readiness", func() {
	It("is not ready until all needed operands are valid", func() {
		q := &iqe.IQE{Op: isa.OpADD, Rs1Phys: 1, Rs2Phys: 2}
		Expect(q.Ready()).To(BeFalse())

		q.CaptureForward(1, 10)
		Expect(q.Ready()).To(BeFalse())

		q.CaptureForward(2, 20)
		Expect(q.Ready()).To(BeTrue())
	})

	It("is immediately ready for MOVC, which needs no operands", func() {
		q := &iqe.IQE{Op: isa.OpMOVC}
		Expect(q.Ready()).To(BeTrue())
	})

	It("needs only CC for a conditional branch", func() {
		q := &iqe.IQE{Op: isa.OpBZ, CCPhys: 4}
		Expect(q.Ready()).To(BeFalse())
		q.CaptureForwardCC(4, isa.CC{Z: true})
		Expect(q.Ready()).To(BeTrue())
		Expect(q.CCValue).To(Equal(isa.CC{Z: true}))
	})

	It("ignores a forwarded value for a physical index it doesn't need", func() {
		q := &iqe.IQE{Op: isa.OpMOVC}
		q.CaptureForward(3, 99)
		Expect(q.Rs1Valid).To(BeFalse())
	})

	It("does not overwrite an already-valid operand", func() {
		q := &iqe.IQE{Op: isa.OpADDL, Rs1Phys: 1, Rs1Value: 5, Rs1Valid: true}
		q.CaptureForward(1, 999)
		Expect(q.Rs1Value).To(Equal(int32(5)))
	})
})
