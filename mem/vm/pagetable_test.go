package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PageTable", func() {
	var table *PageTable

	BeforeEach(func() {
		table = NewPageTable(4)
	})

	It("should start unmapped", func() {
		Expect(table.Len()).To(Equal(uint64(4)))
		Expect(table.NumValid()).To(Equal(uint64(0)))

		for page := uint64(0); page < 4; page++ {
			_, found := table.Find(page)
			Expect(found).To(BeFalse())
		}
	})

	It("should insert and find", func() {
		table.Insert(2, 7)

		entry, found := table.Find(2)

		Expect(found).To(BeTrue())
		Expect(entry.Frame).To(Equal(uint64(7)))
		Expect(table.NumValid()).To(Equal(uint64(1)))
	})

	It("should not find pages beyond the table", func() {
		_, found := table.Find(4)
		Expect(found).To(BeFalse())
	})

	It("should remove", func() {
		table.Insert(1, 3)
		table.Remove(1)

		_, found := table.Find(1)
		Expect(found).To(BeFalse())
	})

	It("should reset", func() {
		table.Insert(0, 1)
		table.Insert(3, 1)

		table.Reset()

		Expect(table.Len()).To(Equal(uint64(4)))
		Expect(table.NumValid()).To(Equal(uint64(0)))
	})

	It("should return a copy of the entries", func() {
		table.Insert(0, 9)

		entries := table.Entries()
		entries[0].Frame = 1

		entry, _ := table.Find(0)
		Expect(entry.Frame).To(Equal(uint64(9)))
	})

	It("should panic when inserting beyond the table", func() {
		Expect(func() { table.Insert(4, 0) }).To(Panic())
	})

	It("should handle an empty table", func() {
		empty := NewPageTable(0)

		Expect(empty.Len()).To(Equal(uint64(0)))
		Expect(empty.Entries()).To(BeEmpty())

		_, found := empty.Find(0)
		Expect(found).To(BeFalse())
	})
})
