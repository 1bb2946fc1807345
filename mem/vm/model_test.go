package vm

import (
	"bytes"
	"log"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pagingsim/sim"
)

func countMapped(entries []PageTableEntry) int {
	n := 0
	for _, e := range entries {
		if e.Valid {
			n++
		}
	}

	return n
}

func mustBuild(b Builder) *Model {
	m, err := b.Build()
	Expect(err).NotTo(HaveOccurred())

	return m
}

var _ = Describe("Model", func() {
	var (
		mockCtrl *gomock.Controller
		builder  Builder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		builder = MakeBuilder().
			WithPageSize(1024).
			WithAddressSpace(16384).
			WithPhysicalMemory(32768)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	DescribeTable("page table length",
		func(pageSize, addressSpace uint64) {
			m := mustBuild(builder.
				WithPageSize(pageSize).
				WithAddressSpace(addressSpace))

			Expect(m.PageTable()).To(HaveLen(int(addressSpace / pageSize)))
			Expect(m.NumPages()).To(Equal(addressSpace / pageSize))
		},
		Entry("dividing", uint64(1024), uint64(16384)),
		Entry("not dividing", uint64(1000), uint64(16384)),
		Entry("single page", uint64(4096), uint64(4096)),
		Entry("no page", uint64(4096), uint64(100)),
	)

	DescribeTable("number of allocated pages",
		func(percent int, pages uint64, expected int) {
			m := mustBuild(builder.
				WithPageSize(8).
				WithAddressSpace(8 * pages).
				WithAllocationPercent(percent).
				WithSeed(7))

			m.AllocatePages()

			Expect(countMapped(m.PageTable())).To(Equal(expected))
			Expect(m.NumAllocatedPages()).To(Equal(uint64(expected)))
		},
		Entry("0% of 16", 0, uint64(16), 0),
		Entry("25% of 16", 25, uint64(16), 4),
		Entry("50% of 15", 50, uint64(15), 7),
		Entry("99% of 16", 99, uint64(16), 15),
		Entry("100% of 16", 100, uint64(16), 16),
		Entry("33% of 1000", 33, uint64(1000), 330),
		Entry("1% of 99", 1, uint64(99), 0),
	)

	It("should map frames within range", func() {
		m := mustBuild(builder.WithPhysicalMemory(4096).WithSeed(11))

		m.AllocatePages()

		for _, e := range m.PageTable() {
			Expect(e.Valid).To(BeTrue())
			Expect(e.Frame).To(BeNumerically("<", m.NumFrames()))
		}
	})

	It("should replace the table on every allocation", func() {
		m := mustBuild(builder.WithAllocationPercent(50))

		m.AllocatePages()
		m.AllocatePages()
		m.AllocatePages()

		Expect(m.NumAllocatedPages()).To(Equal(uint64(8)))
	})

	It("should leave every page unmapped at 0%", func() {
		m := mustBuild(builder.WithAllocationPercent(0))

		m.AllocatePages()

		Expect(m.PageTable()).To(HaveLen(16))
		Expect(countMapped(m.PageTable())).To(Equal(0))
		for vAddr := uint64(0); vAddr < 16384; vAddr += 511 {
			Expect(m.TranslateAddress(vAddr).IsPageFault()).To(BeTrue())
		}
	})

	It("should reproduce allocations with the same seed", func() {
		a := mustBuild(builder.WithSeed(1))
		b := mustBuild(builder.WithSeed(1))

		a.AllocatePages()
		b.AllocatePages()

		Expect(countMapped(a.PageTable())).To(Equal(16))
		Expect(a.PageTable()).To(Equal(b.PageTable()))

		a.AllocatePages()
		b.AllocatePages()

		Expect(a.PageTable()).To(Equal(b.PageTable()))
		Expect(a.SampleAddress()).To(Equal(b.SampleAddress()))
	})

	It("should keep seeded models independent when run concurrently", func() {
		reference := mustBuild(builder.WithSeed(5))
		reference.AllocatePages()

		var wg sync.WaitGroup
		tables := make([][]PageTableEntry, 8)
		for i := range tables {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				m, _ := builder.WithSeed(5).Build()
				m.AllocatePages()
				tables[i] = m.PageTable()
			}(i)
		}
		wg.Wait()

		for _, table := range tables {
			Expect(table).To(Equal(reference.PageTable()))
		}
	})

	It("should select pages and frames from the random source", func() {
		source := NewMockRandomSource(mockCtrl)
		gomock.InOrder(
			source.EXPECT().Uint64N(uint64(4)).Return(uint64(1)),
			source.EXPECT().Uint64N(uint64(128)).Return(uint64(5)),
		)

		m := mustBuild(MakeBuilder().
			WithPageSize(8).
			WithAddressSpace(32).
			WithPhysicalMemory(1024).
			WithAllocationPercent(25).
			WithRandomSource(source))

		m.AllocatePages()

		Expect(m.NumPages()).To(Equal(uint64(4)))
		Expect(m.NumFrames()).To(Equal(uint64(128)))

		t := m.TranslateAddress(10)
		pAddr, ok := t.PhysicalAddress()
		Expect(ok).To(BeTrue())
		Expect(pAddr).To(Equal(uint64(42)))
		Expect(t.Page).To(Equal(uint64(1)))
		Expect(t.Offset).To(Equal(uint64(2)))
		Expect(t.Frame).To(Equal(uint64(5)))
	})

	It("should preserve the offset within every mapped page", func() {
		m := mustBuild(MakeBuilder().
			WithPageSize(8).
			WithAddressSpace(64).
			WithPhysicalMemory(64).
			WithSeed(2))
		m.AllocatePages()

		for page, e := range m.PageTable() {
			for offset := uint64(0); offset < 8; offset++ {
				t := m.TranslateAddress(uint64(page)*8 + offset)

				pAddr, ok := t.PhysicalAddress()
				Expect(ok).To(BeTrue())
				Expect(pAddr).To(Equal(e.Frame*8 + offset))
				Expect(pAddr).To(BeNumerically("<", m.NumFrames()*8))
			}
		}
	})

	It("should not change the table when translating", func() {
		m := mustBuild(builder.WithAllocationPercent(50).WithSeed(4))
		m.AllocatePages()
		before := m.PageTable()

		first := m.TranslateAddress(3000)
		second := m.TranslateAddress(3000)

		Expect(second).To(Equal(first))
		Expect(m.PageTable()).To(Equal(before))
	})

	It("should fault on addresses beyond the address space", func() {
		m := mustBuild(builder.WithSeed(1))
		m.AllocatePages()

		t := m.TranslateAddress(16384)

		Expect(t.IsPageFault()).To(BeTrue())
		Expect(t.Reason).To(Equal(FaultPageOutOfRange))
		Expect(t.Page).To(Equal(uint64(16)))
	})

	It("should tell unmapped pages from out-of-range pages", func() {
		m := mustBuild(builder.WithAllocationPercent(0))
		m.AllocatePages()

		t := m.TranslateAddress(0)

		Expect(t.Reason).To(Equal(FaultUnmappedPage))
	})

	It("should handle a model without pages", func() {
		m := mustBuild(builder.WithPageSize(65536))

		Expect(m.AllocatePages).NotTo(Panic())
		Expect(m.PageTable()).To(BeEmpty())
		Expect(m.CalculatePageTableSize()).To(Equal(uint64(0)))
		Expect(m.TranslateAddress(0).IsPageFault()).To(BeTrue())
	})

	It("should handle a model without frames", func() {
		m := mustBuild(builder.WithPhysicalMemory(512))

		Expect(m.AllocatePages).NotTo(Panic())
		Expect(m.PageTable()).To(HaveLen(16))
		Expect(m.NumAllocatedPages()).To(Equal(uint64(0)))
		Expect(m.TranslateAddress(100).IsPageFault()).To(BeTrue())
	})

	It("should handle an empty address space", func() {
		m := mustBuild(builder.WithAddressSpace(0))

		m.AllocatePages()

		Expect(m.SampleAddress()).To(Equal(uint64(0)))
		Expect(m.TranslateAddress(0).IsPageFault()).To(BeTrue())
	})

	It("should sample addresses within the address space", func() {
		m := mustBuild(builder.WithSeed(9))

		for i := 0; i < 1000; i++ {
			Expect(m.SampleAddress()).To(BeNumerically("<", uint64(16384)))
		}
	})

	It("should calculate the page table size", func() {
		m := mustBuild(builder)
		Expect(m.CalculatePageTableSize()).To(Equal(uint64(64)))

		m = mustBuild(builder.WithEntrySize(8))
		Expect(m.CalculatePageTableSize()).To(Equal(uint64(128)))
	})

	It("should invoke hooks on allocation and translation", func() {
		var summaries []AllocationSummary
		var translations []Translation
		hook := sim.HookFunc(func(ctx sim.HookCtx) {
			switch ctx.Pos {
			case HookPosAfterAllocation:
				summaries = append(summaries, ctx.Item.(AllocationSummary))
			case HookPosAfterTranslation:
				translations = append(translations, ctx.Item.(Translation))
			}
		})

		m := mustBuild(builder.WithAllocationPercent(25).WithHook(hook))
		m.AllocatePages()
		m.TranslateAddress(1)
		m.TranslateAddress(99999)

		Expect(summaries).To(Equal([]AllocationSummary{{
			Requested: 4, Allocated: 4, NumPages: 16, NumFrames: 32,
		}}))
		Expect(translations).To(HaveLen(2))
		Expect(translations[1].Reason).To(Equal(FaultPageOutOfRange))
	})
})

var _ = Describe("TranslationLogger", func() {
	It("should log allocations and translations", func() {
		buf := new(bytes.Buffer)
		logger := log.New(buf, "", 0)

		m := mustBuild(MakeBuilder().
			WithPageSize(8).
			WithAddressSpace(32).
			WithPhysicalMemory(1024).
			WithAllocationPercent(0).
			WithHook(NewTranslationLogger(logger)))

		m.AllocatePages()
		m.TranslateAddress(10)

		Expect(buf.String()).To(Equal(
			"allocated 0 of 4 pages over 128 frames\n" +
				"0xa: page 1 fault (unmapped_page)\n"))
	})
})
