// Package vm models virtual-to-physical address translation with a
// single-level page table.
package vm

import (
	"github.com/sarchlab/pagingsim/sim"
)

// HookPosAfterAllocation is triggered after AllocatePages has rebuilt the page
// table. The hook item is an AllocationSummary.
var HookPosAfterAllocation = &sim.HookPos{Name: "AfterAllocation"}

// HookPosAfterTranslation is triggered after each TranslateAddress call. The
// hook item is the Translation.
var HookPosAfterTranslation = &sim.HookPos{Name: "AfterTranslation"}

// AllocationSummary describes the table produced by one AllocatePages call.
type AllocationSummary struct {
	Requested uint64
	Allocated uint64
	NumPages  uint64
	NumFrames uint64
}

// A Model owns a page table and the random generator used to fill it. A Model
// is not safe for concurrent use.
type Model struct {
	*sim.HookableBase

	config    Config
	numPages  uint64
	numFrames uint64
	entrySize uint64
	pageTable *PageTable
	rand      RandomSource
}

// Config returns the configuration the model was built with.
func (m *Model) Config() Config {
	return m.config
}

// PageSize returns the number of bytes in a page.
func (m *Model) PageSize() uint64 {
	return m.config.PageSize
}

// AddressSpace returns the size of the virtual address space in bytes.
func (m *Model) AddressSpace() uint64 {
	return m.config.AddressSpace
}

// NumPages returns the number of entries in the page table.
func (m *Model) NumPages() uint64 {
	return m.numPages
}

// NumFrames returns the number of physical frames.
func (m *Model) NumFrames() uint64 {
	return m.numFrames
}

// NumAllocatedPages returns the number of mapped pages.
func (m *Model) NumAllocatedPages() uint64 {
	return m.pageTable.NumValid()
}

// PageTable returns a copy of the page table entries.
func (m *Model) PageTable() []PageTableEntry {
	return m.pageTable.Entries()
}

// AllocatePages replaces the whole page table with a fresh random mapping.
// floor(AllocationPercent * NumPages / 100) distinct pages are chosen uniformly
// and each is mapped to a uniformly chosen frame. Several pages may share a
// frame. All other pages are left unmapped. With no frames, no page can be
// mapped and the table stays empty.
func (m *Model) AllocatePages() {
	m.pageTable.Reset()

	requested := m.numPagesToAllocate()

	if m.numFrames > 0 {
		for _, page := range m.samplePages(requested) {
			m.pageTable.Insert(page, m.rand.Uint64N(m.numFrames))
		}
	}

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosAfterAllocation,
		Item: AllocationSummary{
			Requested: requested,
			Allocated: m.pageTable.NumValid(),
			NumPages:  m.numPages,
			NumFrames: m.numFrames,
		},
	})
}

func (m *Model) numPagesToAllocate() uint64 {
	p := uint64(m.config.AllocationPercent)
	q, r := m.numPages/100, m.numPages%100

	return p*q + p*r/100
}

// samplePages draws k distinct page numbers with a partial Fisher-Yates
// shuffle.
func (m *Model) samplePages(k uint64) []uint64 {
	pages := make([]uint64, m.numPages)
	for i := range pages {
		pages[i] = uint64(i)
	}

	for i := uint64(0); i < k; i++ {
		j := i + m.rand.Uint64N(m.numPages-i)
		pages[i], pages[j] = pages[j], pages[i]
	}

	return pages[:k]
}

// TranslateAddress translates a virtual address. Addresses whose page is
// unmapped or beyond the page table translate to a page fault. The page table
// is never modified.
func (m *Model) TranslateAddress(vAddr uint64) Translation {
	t := m.translate(vAddr)

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosAfterTranslation,
		Item:   t,
	})

	return t
}

func (m *Model) translate(vAddr uint64) Translation {
	pageSize := m.config.PageSize
	page := vAddr / pageSize
	offset := vAddr % pageSize

	if page >= m.numPages {
		return pageFault(vAddr, page, offset, FaultPageOutOfRange)
	}

	entry, found := m.pageTable.Find(page)
	if !found {
		return pageFault(vAddr, page, offset, FaultUnmappedPage)
	}

	return mappedTranslation(vAddr, page, offset, entry.Frame, pageSize)
}

// CalculatePageTableSize returns the number of bytes the page table occupies.
func (m *Model) CalculatePageTableSize() uint64 {
	return m.numPages * m.entrySize
}

// SampleAddress draws a uniform virtual address in [0, AddressSpace) from the
// model's generator. It returns 0 if the address space is empty.
func (m *Model) SampleAddress() uint64 {
	if m.config.AddressSpace == 0 {
		return 0
	}

	return m.rand.Uint64N(m.config.AddressSpace)
}
