package vm

import "strconv"

// TranslationKind tells which outcome a Translation holds.
type TranslationKind int

// The outcomes of a translation.
const (
	TranslationMapped TranslationKind = iota + 1
	TranslationPageFault
)

func (k TranslationKind) String() string {
	switch k {
	case TranslationMapped:
		return "mapped"
	case TranslationPageFault:
		return "page_fault"
	default:
		return "unknown"
	}
}

// FaultReason tells why a translation faulted.
type FaultReason int

// The reasons of a page fault.
const (
	FaultNone FaultReason = iota
	FaultUnmappedPage
	FaultPageOutOfRange
)

func (r FaultReason) String() string {
	switch r {
	case FaultNone:
		return "none"
	case FaultUnmappedPage:
		return "unmapped_page"
	case FaultPageOutOfRange:
		return "page_out_of_range"
	default:
		return "unknown"
	}
}

// A Translation is the result of translating one virtual address. It is either
// mapped, with a physical address, or a page fault. Frame and PAddr are only
// meaningful when the translation is mapped.
type Translation struct {
	Kind   TranslationKind
	Reason FaultReason
	VAddr  uint64
	Page   uint64
	Offset uint64
	Frame  uint64
	PAddr  uint64
}

func mappedTranslation(vAddr, page, offset, frame, pageSize uint64) Translation {
	return Translation{
		Kind:   TranslationMapped,
		VAddr:  vAddr,
		Page:   page,
		Offset: offset,
		Frame:  frame,
		PAddr:  frame*pageSize + offset,
	}
}

func pageFault(vAddr, page, offset uint64, reason FaultReason) Translation {
	return Translation{
		Kind:   TranslationPageFault,
		Reason: reason,
		VAddr:  vAddr,
		Page:   page,
		Offset: offset,
	}
}

// IsPageFault returns true if the translation faulted.
func (t Translation) IsPageFault() bool {
	return t.Kind == TranslationPageFault
}

// PhysicalAddress returns the physical address and true if the translation
// is mapped, or 0 and false on a page fault.
func (t Translation) PhysicalAddress() (uint64, bool) {
	if t.Kind != TranslationMapped {
		return 0, false
	}

	return t.PAddr, true
}

// String renders the result the way the reports print it: the physical
// address in decimal, or "Page fault".
func (t Translation) String() string {
	if pAddr, ok := t.PhysicalAddress(); ok {
		return strconv.FormatUint(pAddr, 10)
	}

	return "Page fault"
}
