// Package trace records the activity of paging models into a database.
package trace

import (
	"github.com/sarchlab/pagingsim/datarecording"
	"github.com/sarchlab/pagingsim/mem/vm"
	"github.com/sarchlab/pagingsim/sim"
)

// Table names used by the DBTracer.
const (
	RunTable         = "runs"
	MappingTable     = "mappings"
	TranslationTable = "translations"
)

type runEntry struct {
	RunID             string
	Name              string
	PageSize          uint64
	AddressSpace      uint64
	PhysicalMemory    uint64
	AllocationPercent int
	NumPages          uint64
	NumFrames         uint64
	PageTableSize     uint64
}

type mappingEntry struct {
	RunID      string
	Allocation uint64
	Page       uint64
	Frame      uint64
}

type translationEntry struct {
	RunID  string
	Seq    uint64
	VAddr  uint64
	Page   uint64
	Offset uint64
	Result string
	Reason string
	Frame  uint64
	PAddr  uint64
}

// A DBTracer records runs of paging models into a DataRecorder.
type DBTracer struct {
	dataRecorder datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and the tables it writes to.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{dataRecorder: dataRecorder}

	t.dataRecorder.CreateTable(RunTable, runEntry{})
	t.dataRecorder.CreateTable(MappingTable, mappingEntry{})
	t.dataRecorder.CreateTable(TranslationTable, translationEntry{})

	return t
}

// TraceRun records the configuration of m under runID and hooks into m so
// that every later allocation and translation is recorded too.
func (t *DBTracer) TraceRun(runID, name string, m *vm.Model) {
	c := m.Config()

	t.dataRecorder.InsertData(RunTable, runEntry{
		RunID:             runID,
		Name:              name,
		PageSize:          c.PageSize,
		AddressSpace:      c.AddressSpace,
		PhysicalMemory:    c.PhysicalMemory,
		AllocationPercent: c.AllocationPercent,
		NumPages:          m.NumPages(),
		NumFrames:         m.NumFrames(),
		PageTableSize:     m.CalculatePageTableSize(),
	})

	m.AcceptHook(&runHook{tracer: t, runID: runID})
}

type runHook struct {
	tracer      *DBTracer
	runID       string
	allocations uint64
	seq         uint64
}

func (h *runHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case vm.HookPosAfterAllocation:
		m, ok := ctx.Domain.(*vm.Model)
		if !ok {
			return
		}

		h.recordMappings(m)
	case vm.HookPosAfterTranslation:
		t, ok := ctx.Item.(vm.Translation)
		if !ok {
			return
		}

		h.recordTranslation(t)
	}
}

func (h *runHook) recordMappings(m *vm.Model) {
	h.allocations++

	for page, e := range m.PageTable() {
		if !e.Valid {
			continue
		}

		h.tracer.dataRecorder.InsertData(MappingTable, mappingEntry{
			RunID:      h.runID,
			Allocation: h.allocations,
			Page:       uint64(page),
			Frame:      e.Frame,
		})
	}
}

func (h *runHook) recordTranslation(t vm.Translation) {
	h.seq++

	h.tracer.dataRecorder.InsertData(TranslationTable, translationEntry{
		RunID:  h.runID,
		Seq:    h.seq,
		VAddr:  t.VAddr,
		Page:   t.Page,
		Offset: t.Offset,
		Result: t.Kind.String(),
		Reason: t.Reason.String(),
		Frame:  t.Frame,
		PAddr:  t.PAddr,
	})
}
