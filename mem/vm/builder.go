package vm

import (
	"fmt"

	"github.com/sarchlab/pagingsim/sim"
)

// A Builder can build paging models.
type Builder struct {
	config       Config
	entrySize    uint64
	randomSource RandomSource
	hooks        []sim.Hook
}

// MakeBuilder creates a new builder. By default all pages are allocated and
// page table entries take DefaultEntrySize bytes.
func MakeBuilder() Builder {
	return Builder{
		config: Config{
			AllocationPercent: 100,
		},
		entrySize: DefaultEntrySize,
	}
}

// WithConfig replaces all the size parameters, the allocation percent and the
// seed at once.
func (b Builder) WithConfig(c Config) Builder {
	b.config = c
	return b
}

// WithPageSize sets the number of bytes in a page and in a frame.
func (b Builder) WithPageSize(pageSize uint64) Builder {
	b.config.PageSize = pageSize
	return b
}

// WithAddressSpace sets the size of the virtual address space in bytes.
func (b Builder) WithAddressSpace(addressSpace uint64) Builder {
	b.config.AddressSpace = addressSpace
	return b
}

// WithPhysicalMemory sets the size of the physical memory in bytes.
func (b Builder) WithPhysicalMemory(physicalMemory uint64) Builder {
	b.config.PhysicalMemory = physicalMemory
	return b
}

// WithAllocationPercent sets the percentage of pages that AllocatePages maps.
func (b Builder) WithAllocationPercent(percent int) Builder {
	b.config.AllocationPercent = percent
	return b
}

// WithSeed makes the model's random choices reproducible.
func (b Builder) WithSeed(seed int64) Builder {
	b.config.Seed = &seed
	return b
}

// WithRandomSource sets the generator the model draws from. It takes
// precedence over the seed.
func (b Builder) WithRandomSource(source RandomSource) Builder {
	b.randomSource = source
	return b
}

// WithEntrySize sets the number of bytes a page table entry occupies.
func (b Builder) WithEntrySize(entrySize uint64) Builder {
	b.entrySize = entrySize
	return b
}

// WithHook registers a hook on the model as soon as it is built.
func (b Builder) WithHook(hook sim.Hook) Builder {
	hooks := make([]sim.Hook, len(b.hooks), len(b.hooks)+1)
	copy(hooks, b.hooks)
	b.hooks = append(hooks, hook)

	return b
}

// Build returns a newly created model with an all-unmapped page table.
func (b Builder) Build() (*Model, error) {
	err := b.config.Validate()
	if err != nil {
		return nil, err
	}

	if b.entrySize == 0 {
		return nil, fmt.Errorf("%w: entry size must be positive",
			ErrInvalidConfig)
	}

	m := &Model{
		HookableBase: sim.NewHookableBase(),
		config:       b.config,
		numPages:     b.config.NumPages(),
		numFrames:    b.config.NumFrames(),
		entrySize:    b.entrySize,
	}

	m.pageTable = NewPageTable(m.numPages)
	m.rand = b.createRandomSource()

	for _, h := range b.hooks {
		m.AcceptHook(h)
	}

	return m, nil
}

func (b Builder) createRandomSource() RandomSource {
	if b.randomSource != nil {
		return b.randomSource
	}

	if b.config.Seed != nil {
		return NewSeededRandomSource(*b.config.Seed)
	}

	return NewRandomSource()
}
