package rob_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/iqe"
	"github.com/sarchlab/apexsim/rob"
)

var _ = Describe("ROB", func() {
	It("rejects dispatch once full", func() {
		r := rob.New(1)
		Expect(r.Dispatch(&iqe.IQE{})).To(Succeed())
		Expect(r.Dispatch(&iqe.IQE{})).To(HaveOccurred())
	})

	It("keeps program order at the head", func() {
		r := rob.New(4)
		first := &iqe.IQE{Timestamp: 1}
		second := &iqe.IQE{Timestamp: 2}
		Expect(r.Dispatch(first)).To(Succeed())
		Expect(r.Dispatch(second)).To(Succeed())

		head, ok := r.Head()
		Expect(ok).To(BeTrue())
		Expect(head).To(BeIdenticalTo(first))

		r.CommitHead()
		head, ok = r.Head()
		Expect(ok).To(BeTrue())
		Expect(head).To(BeIdenticalTo(second))
	})

	It("removes every entry younger than a squash timestamp", func() {
		r := rob.New(4)
		keep := &iqe.IQE{Timestamp: 1}
		drop1 := &iqe.IQE{Timestamp: 2}
		drop2 := &iqe.IQE{Timestamp: 3}
		Expect(r.Dispatch(keep)).To(Succeed())
		Expect(r.Dispatch(drop1)).To(Succeed())
		Expect(r.Dispatch(drop2)).To(Succeed())

		r.RemoveAfter(1)
		Expect(r.Entries()).To(ConsistOf(keep))
	})
})
