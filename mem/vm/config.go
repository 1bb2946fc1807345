package vm

import (
	"errors"
	"fmt"
)

// DefaultEntrySize is the number of bytes one page table entry occupies.
const DefaultEntrySize uint64 = 4

// MaxNumPages is the largest page table a Model can hold. Larger address
// spaces need a larger page size.
const MaxNumPages uint64 = 1 << 26

// ErrInvalidConfig is returned when a Model cannot be built from the given
// configuration.
var ErrInvalidConfig = errors.New("invalid paging configuration")

// Config holds the parameters of a paging model. Sizes are in bytes.
//
// PageSize does not need to divide AddressSpace or PhysicalMemory. The number
// of pages and frames is computed with floor division, so a partial last page
// or frame is not addressable.
type Config struct {
	PageSize          uint64 `json:"page_size"`
	AddressSpace      uint64 `json:"address_space"`
	PhysicalMemory    uint64 `json:"physical_memory"`
	AllocationPercent int    `json:"allocation_percent"`
	Seed              *int64 `json:"seed,omitempty"`
}

// Validate returns an error wrapping ErrInvalidConfig if the configuration
// cannot be simulated.
func (c Config) Validate() error {
	if c.PageSize == 0 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidConfig)
	}

	if c.AllocationPercent < 0 || c.AllocationPercent > 100 {
		return fmt.Errorf("%w: allocation percent %d is outside [0, 100]",
			ErrInvalidConfig, c.AllocationPercent)
	}

	if c.NumPages() > MaxNumPages {
		return fmt.Errorf("%w: %d pages exceed the limit of %d",
			ErrInvalidConfig, c.NumPages(), MaxNumPages)
	}

	return nil
}

// NumPages returns the number of whole pages in the address space.
func (c Config) NumPages() uint64 {
	if c.PageSize == 0 {
		return 0
	}

	return c.AddressSpace / c.PageSize
}

// NumFrames returns the number of whole frames in physical memory.
func (c Config) NumFrames() uint64 {
	if c.PageSize == 0 {
		return 0
	}

	return c.PhysicalMemory / c.PageSize
}
