package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/apexsim/memory"
)

var _ = Describe("Memory", func() {
	var m *memory.Memory

	BeforeEach(func() {
		m = memory.New()
	})

	It("starts zeroed", func() {
		Expect(m.Read(0)).To(Equal(int32(0)))
		Expect(m.Read(memory.Size - 1)).To(Equal(int32(0)))
	})

	It("round-trips a write", func() {
		m.Write(5, 100)
		Expect(m.Read(5)).To(Equal(int32(100)))
	})

	It("loads an image at offset 0", func() {
		Expect(m.LoadImage([]int32{1, 2, 3})).To(Succeed())
		Expect(m.Read(0)).To(Equal(int32(1)))
		Expect(m.Read(2)).To(Equal(int32(3)))
		Expect(m.Read(3)).To(Equal(int32(0)))
	})

	It("rejects an oversized image", func() {
		Expect(m.LoadImage(make([]int32, memory.Size+1))).To(HaveOccurred())
	})

	It("dumps the first n cells", func() {
		m.Write(0, 7)
		m.Write(1, 8)
		Expect(m.Dump(2)).To(Equal([]int32{7, 8}))
	})
})
