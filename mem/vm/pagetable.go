package vm

import "fmt"

// A PageTableEntry records the frame a virtual page is mapped to. Entries that
// are not Valid are unmapped and their Frame is meaningless.
type PageTableEntry struct {
	Frame uint64
	Valid bool
}

// A PageTable is a single-level table indexed by virtual page number. Its
// length is fixed when it is created.
type PageTable struct {
	entries []PageTableEntry
}

// NewPageTable creates a page table with numPages unmapped entries.
func NewPageTable(numPages uint64) *PageTable {
	return &PageTable{
		entries: make([]PageTableEntry, numPages),
	}
}

// Len returns the number of entries in the table.
func (t *PageTable) Len() uint64 {
	return uint64(len(t.entries))
}

// Find returns the entry of the given page. The bool return value indicates if
// the page is mapped. Pages beyond the end of the table are never mapped.
func (t *PageTable) Find(page uint64) (PageTableEntry, bool) {
	if page >= t.Len() {
		return PageTableEntry{}, false
	}

	entry := t.entries[page]

	return entry, entry.Valid
}

// Insert maps page to frame, replacing any previous mapping.
func (t *PageTable) Insert(page, frame uint64) {
	t.pageMustExist(page)

	t.entries[page] = PageTableEntry{Frame: frame, Valid: true}
}

// Remove unmaps page.
func (t *PageTable) Remove(page uint64) {
	t.pageMustExist(page)

	t.entries[page] = PageTableEntry{}
}

// Reset unmaps every page.
func (t *PageTable) Reset() {
	clear(t.entries)
}

// NumValid returns the number of mapped pages.
func (t *PageTable) NumValid() uint64 {
	n := uint64(0)
	for _, e := range t.entries {
		if e.Valid {
			n++
		}
	}

	return n
}

// Entries returns a copy of all entries, indexed by page number.
func (t *PageTable) Entries() []PageTableEntry {
	entries := make([]PageTableEntry, len(t.entries))
	copy(entries, t.entries)

	return entries
}

func (t *PageTable) pageMustExist(page uint64) {
	if page >= t.Len() {
		panic(fmt.Sprintf("page %d does not exist in a table of %d pages",
			page, t.Len()))
	}
}
