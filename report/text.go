package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/pagingsim/mem/vm"
)

// TextReporter prints results as plain lines.
type TextReporter struct {
	w     io.Writer
	count int
}

// NewTextReporter creates a TextReporter writing into w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}

	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Report prints one result. Named results are echoed with their
// configuration first.
func (r *TextReporter) Report(res Result) error {
	p := &printer{w: r.w}

	if r.count > 0 {
		p.printf("\n")
	}
	r.count++

	if res.Name != "" {
		r.printConfig(p, res)
	}

	p.printf("Starting Paging Simulation...\n")

	if res.PageTable != nil {
		p.printf("Page Table: %s\n", FormatPageTable(res.PageTable))
	}

	p.printf("Page Table Size: %d bytes\n", res.PageTableSize)
	p.printf("Allocated Pages: %d / %d\n", res.AllocatedPages, res.NumPages)

	p.printf("\nSimulating Address Translations:\n")
	for _, t := range res.Translations {
		p.printf("Virtual Address: %d, Result: %s\n", t.VAddr, t)
	}

	return p.err
}

func (r *TextReporter) printConfig(p *printer, res Result) {
	if res.Description != "" {
		p.printf("=== Task %s: %s ===\n", res.Name, res.Description)
	} else {
		p.printf("=== Task %s ===\n", res.Name)
	}

	c := res.Config
	p.printf("Page Size: %d bytes, Address Space: %d bytes, "+
		"Physical Memory: %d bytes, Allocation: %d%%",
		c.PageSize, c.AddressSpace, c.PhysicalMemory, c.AllocationPercent)

	if c.Seed != nil {
		p.printf(", Seed: %d", *c.Seed)
	}

	p.printf("\nPages: %d, Frames: %d\n", res.NumPages, res.NumFrames)
}

// FormatPageTable renders a page table as a list of frame numbers, with None
// for unmapped pages.
func FormatPageTable(entries []vm.PageTableEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		if e.Valid {
			parts[i] = strconv.FormatUint(e.Frame, 10)
		} else {
			parts[i] = "None"
		}
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
