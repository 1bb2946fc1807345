package vm

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Builder", func() {
	var builder Builder

	BeforeEach(func() {
		builder = MakeBuilder().
			WithPageSize(1024).
			WithAddressSpace(16384).
			WithPhysicalMemory(32768)
	})

	It("should derive pages and frames", func() {
		m, err := builder.Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(m.NumPages()).To(Equal(uint64(16)))
		Expect(m.NumFrames()).To(Equal(uint64(32)))
		Expect(m.Config().AllocationPercent).To(Equal(100))
		Expect(m.PageTable()).To(HaveLen(16))
	})

	It("should reject a zero page size", func() {
		_, err := builder.WithPageSize(0).Build()

		Expect(err).To(MatchError(ErrInvalidConfig))
	})

	DescribeTable("allocation percent",
		func(percent int, valid bool) {
			_, err := builder.WithAllocationPercent(percent).Build()

			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(ErrInvalidConfig))
			}
		},
		Entry("below range", -1, false),
		Entry("zero", 0, true),
		Entry("full", 100, true),
		Entry("above range", 101, false),
	)

	DescribeTable("page table size limit",
		func(pageSize, addressSpace uint64, valid bool) {
			_, err := builder.
				WithPageSize(pageSize).
				WithAddressSpace(addressSpace).
				Build()

			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(ErrInvalidConfig))
			}
		},
		Entry("one page over", uint64(1), MaxNumPages+1, false),
		Entry("byte pages over the full range",
			uint64(1), uint64(math.MaxUint64), false),
		Entry("large pages over the full range",
			uint64(1)<<44, uint64(math.MaxUint64), true),
	)

	It("should accept a table at the size limit", func() {
		c := Config{
			PageSize:          1,
			AddressSpace:      MaxNumPages,
			PhysicalMemory:    1024,
			AllocationPercent: 100,
		}

		Expect(c.Validate()).To(Succeed())
	})

	It("should reject a zero entry size", func() {
		_, err := builder.WithEntrySize(0).Build()

		Expect(err).To(MatchError(ErrInvalidConfig))
	})

	It("should truncate a partial last page and frame", func() {
		m, err := builder.
			WithPageSize(1000).
			WithAddressSpace(16384).
			WithPhysicalMemory(2500).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(m.NumPages()).To(Equal(uint64(16)))
		Expect(m.NumFrames()).To(Equal(uint64(2)))
	})

	It("should accept a page larger than the address space", func() {
		m, err := builder.WithPageSize(65536).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(m.NumPages()).To(Equal(uint64(0)))
		Expect(m.NumFrames()).To(Equal(uint64(0)))
	})

	It("should replace the whole configuration", func() {
		seed := int64(3)
		m, err := builder.WithConfig(Config{
			PageSize:          8,
			AddressSpace:      32,
			PhysicalMemory:    1024,
			AllocationPercent: 50,
			Seed:              &seed,
		}).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(m.NumPages()).To(Equal(uint64(4)))
		Expect(m.NumFrames()).To(Equal(uint64(128)))
		Expect(*m.Config().Seed).To(Equal(int64(3)))
	})

	It("should not share hooks between derived builders", func() {
		base := builder.WithHook(NewTranslationLogger(nil))
		a := base.WithHook(NewTranslationLogger(nil))
		b := base.WithHook(NewTranslationLogger(nil))

		ma, _ := a.Build()
		mb, _ := b.Build()
		mbase, _ := base.Build()

		Expect(ma.NumHooks()).To(Equal(2))
		Expect(mb.NumHooks()).To(Equal(2))
		Expect(mbase.NumHooks()).To(Equal(1))
	})
})
