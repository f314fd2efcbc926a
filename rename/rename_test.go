package rename_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/rename"
)

var _ = Describe("Table", func() {
	var t *rename.Table

	BeforeEach(func() {
		t = rename.New()
	})

	It("starts with Rn mapped to physical slot n", func() {
		Expect(t.Current(5)).To(Equal(5))
		Expect(t.CurrentCC()).To(Equal(0))
	})

	It("allocates a fresh physical slot on RenameDest and remembers the old one", func() {
		newPhys, oldPhys, err := t.RenameDest(3)
		Expect(err).ToNot(HaveOccurred())
		Expect(newPhys).To(Equal(32)) // first free slot
		Expect(oldPhys).To(Equal(3))
		Expect(t.Current(3)).To(Equal(32))
	})

	It("allocates sequential slots for repeated renames of the same register", func() {
		p1, _, _ := t.RenameDest(1)
		p2, old2, _ := t.RenameDest(1)
		Expect(p2).ToNot(Equal(p1))
		Expect(old2).To(Equal(p1))
	})

	It("errors once the UPRF free list is exhausted", func() {
		for i := 0; i < 28; i++ {
			_, _, err := t.RenameDest(0)
			Expect(err).ToNot(HaveOccurred())
		}
		_, _, err := t.RenameDest(0)
		Expect(err).To(HaveOccurred())
	})

	It("round-trips a snapshot/restore", func() {
		snap := t.Snapshot()
		_, _, _ = t.RenameDest(7)
		_, _, _ = t.RenameCC()
		Expect(t.Current(7)).ToNot(Equal(7))

		t.Restore(snap)
		Expect(t.Current(7)).To(Equal(7))
		Expect(t.CurrentCC()).To(Equal(0))
	})

	It("releases a displaced slot back to the free list", func() {
		_, oldPhys, _ := t.RenameDest(2)
		Expect(t.ReleaseUPRF(oldPhys)).To(Succeed())
	})
})
