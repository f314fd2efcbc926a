package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/predictor"
)

var _ = Describe("Predictor table", func() {
	It("misses on an empty table", func() {
		p := predictor.New(4)
		_, ok := p.Lookup(4000)
		Expect(ok).To(BeFalse())
	})

	It("hits after an update", func() {
		p := predictor.New(4)
		p.Update(4000, 4020, predictor.TypeBranch)
		e, ok := p.Lookup(4000)
		Expect(ok).To(BeTrue())
		Expect(e.Target).To(Equal(int32(4020)))
	})

	It("overwrites the target for an existing PC in place", func() {
		p := predictor.New(4)
		p.Update(4000, 4020, predictor.TypeBranch)
		p.Update(4004, 4040, predictor.TypeBranch)
		p.Update(4000, 4100, predictor.TypeBranch)
		Expect(p.Len()).To(Equal(2))
		e, _ := p.Lookup(4000)
		Expect(e.Target).To(Equal(int32(4100)))
	})

	It("evicts the oldest entry (index 0) when full", func() {
		p := predictor.New(2)
		p.Update(1000, 1, predictor.TypeBranch)
		p.Update(2000, 2, predictor.TypeBranch)
		p.Update(3000, 3, predictor.TypeBranch)

		_, ok := p.Lookup(1000)
		Expect(ok).To(BeFalse())
		_, ok = p.Lookup(2000)
		Expect(ok).To(BeTrue())
		_, ok = p.Lookup(3000)
		Expect(ok).To(BeTrue())
	})

	It("restores a snapshot", func() {
		p := predictor.New(4)
		snap := p.Snapshot()
		p.Update(1000, 1, predictor.TypeBranch)
		p.Restore(snap)
		_, ok := p.Lookup(1000)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("RAS", func() {
	It("pops in LIFO order", func() {
		r := predictor.NewRAS(4)
		Expect(r.Push(4008)).To(Succeed())
		Expect(r.Push(4020)).To(Succeed())
		v, err := r.Pop()
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(int32(4020)))
	})

	It("fails fatally on underflow", func() {
		r := predictor.NewRAS(4)
		_, err := r.Pop()
		Expect(err).To(HaveOccurred())
	})

	It("fails fatally on overflow", func() {
		r := predictor.NewRAS(1)
		Expect(r.Push(1)).To(Succeed())
		Expect(r.Push(2)).To(HaveOccurred())
	})

	It("restores a snapshot", func() {
		r := predictor.NewRAS(4)
		_ = r.Push(100)
		snap := r.Snapshot()
		_ = r.Push(200)
		r.Restore(snap)
		Expect(r.Len()).To(Equal(1))
	})
})
