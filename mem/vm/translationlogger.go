package vm

import (
	"log"

	"github.com/sarchlab/pagingsim/sim"
)

// TranslationLogger is a hook that writes allocations and translations into a
// logger.
type TranslationLogger struct {
	sim.LogHookBase
}

// NewTranslationLogger returns a TranslationLogger that writes into logger.
func NewTranslationLogger(logger *log.Logger) *TranslationLogger {
	h := new(TranslationLogger)
	h.Logger = logger

	return h
}

// Func writes the hook item into the logger.
func (h *TranslationLogger) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosAfterAllocation:
		s, ok := ctx.Item.(AllocationSummary)
		if !ok {
			return
		}

		h.Printf("allocated %d of %d pages over %d frames",
			s.Allocated, s.NumPages, s.NumFrames)
	case HookPosAfterTranslation:
		t, ok := ctx.Item.(Translation)
		if !ok {
			return
		}

		if t.IsPageFault() {
			h.Printf("0x%x: page %d fault (%s)", t.VAddr, t.Page, t.Reason)
			return
		}

		h.Printf("0x%x: page %d -> frame %d, 0x%x",
			t.VAddr, t.Page, t.Frame, t.PAddr)
	}
}
