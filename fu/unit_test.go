package fu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/fu"
	"github.com/sarchlab/apexsim/iqe"
)

var _ = Describe("Unit", func() {
	It("completes after exactly `latency` ticks", func() {
		u := fu.New("MulFU", 4)
		q := &iqe.IQE{Timestamp: 1}
		Expect(u.Accept(q)).To(Succeed())

		for i := 0; i < 3; i++ {
			_, done := u.Tick()
			Expect(done).To(BeFalse())
		}
		got, done := u.Tick()
		Expect(done).To(BeTrue())
		Expect(got).To(BeIdenticalTo(q))
	})

	It("rejects Accept while busy", func() {
		u := fu.New("IntFU", 1)
		Expect(u.Accept(&iqe.IQE{})).To(Succeed())
		Expect(u.Accept(&iqe.IQE{})).To(HaveOccurred())
	})

	It("frees up after Clear", func() {
		u := fu.New("IntFU", 1)
		q := &iqe.IQE{}
		Expect(u.Accept(q)).To(Succeed())
		u.Tick()
		u.Clear()
		Expect(u.Busy()).To(BeFalse())
	})

	It("drops an in-flight entry younger than a squash timestamp", func() {
		u := fu.New("MemFU", 3)
		q := &iqe.IQE{Timestamp: 5}
		Expect(u.Accept(q)).To(Succeed())
		dropped, ok := u.DropIfYounger(2)
		Expect(ok).To(BeTrue())
		Expect(dropped).To(BeIdenticalTo(q))
		Expect(u.Busy()).To(BeFalse())
	})

	It("keeps an in-flight entry at or below the squash timestamp", func() {
		u := fu.New("MemFU", 3)
		q := &iqe.IQE{Timestamp: 1}
		Expect(u.Accept(q)).To(Succeed())
		_, ok := u.DropIfYounger(2)
		Expect(ok).To(BeFalse())
		Expect(u.Busy()).To(BeTrue())
	})
})
