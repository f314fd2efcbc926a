package regfile_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/isa"
	"github.com/sarchlab/apexsim/regfile"
)

var _ = Describe("FreeList", func() {
	It("pops in FIFO order", func() {
		fl := regfile.NewFreeList(4, []int{32, 33, 34})
		a, err := fl.Pop()
		Expect(err).ToNot(HaveOccurred())
		Expect(a).To(Equal(32))
		b, _ := fl.Pop()
		Expect(b).To(Equal(33))
	})

	It("errors on underflow", func() {
		fl := regfile.NewFreeList(1, nil)
		_, err := fl.Pop()
		Expect(err).To(HaveOccurred())
	})

	It("errors on overflow", func() {
		fl := regfile.NewFreeList(1, []int{5})
		Expect(fl.Push(6)).To(HaveOccurred())
	})

	It("restores a snapshot", func() {
		fl := regfile.NewFreeList(4, []int{32, 33})
		snap := fl.Snapshot()
		_, _ = fl.Pop()
		_, _ = fl.Pop()
		Expect(fl.Empty()).To(BeTrue())
		fl.Restore(snap)
		Expect(fl.Len()).To(Equal(2))
		v, err := fl.Pop()
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(32))
	})
})

var _ = Describe("UPRF", func() {
	var u *regfile.UPRF

	BeforeEach(func() {
		u = regfile.NewUPRF()
	})

	It("starts with the first 32 slots valid and zeroed", func() {
		v, ok := u.ReadArch(0)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(0)))
		_, ok = u.ReadArch(59)
		Expect(ok).To(BeFalse())
	})

	It("separates forwarding from architectural visibility", func() {
		u.Invalidate(32)
		u.WriteForward(32, 42)
		fv, fok := u.ReadForward(32)
		Expect(fok).To(BeTrue())
		Expect(fv).To(Equal(int32(42)))

		_, aok := u.ReadArch(32)
		Expect(aok).To(BeFalse())

		u.Commit(32, 42)
		av, aok := u.ReadArch(32)
		Expect(aok).To(BeTrue())
		Expect(av).To(Equal(int32(42)))
	})

	It("restores a forwarding snapshot on misprediction recovery", func() {
		u.Invalidate(32)
		snap := u.SnapshotForward()
		u.WriteForward(32, 99)
		u.RestoreForward(snap)
		_, ok := u.ReadForward(32)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("UCRF", func() {
	It("starts with slot 0 valid", func() {
		u := regfile.NewUCRF()
		cc, ok := u.ReadArch(0)
		Expect(ok).To(BeTrue())
		Expect(cc).To(Equal(isa.CC{}))
	})

	It("commits a forwarded CC", func() {
		u := regfile.NewUCRF()
		u.Invalidate(1)
		u.WriteForward(1, isa.CC{Z: true})
		u.Commit(1, isa.CC{Z: true})
		cc, ok := u.ReadArch(1)
		Expect(ok).To(BeTrue())
		Expect(cc.Z).To(BeTrue())
	})
})
