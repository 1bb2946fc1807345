// Package simulation drives paging models: it allocates their pages,
// translates sampled addresses and collects what is to be reported.
package simulation

import (
	"github.com/sarchlab/pagingsim/mem/vm"
	"github.com/sarchlab/pagingsim/report"
)

// DefaultNumTranslations is the number of addresses a run translates.
const DefaultNumTranslations = 10

// Options control what a run does besides allocating.
type Options struct {
	// NumTranslations is the number of random addresses translated.
	NumTranslations int

	// Verbose runs keep a copy of the page table in the result.
	Verbose bool
}

// DefaultOptions returns the options of a plain run.
func DefaultOptions() Options {
	return Options{NumTranslations: DefaultNumTranslations}
}

// A Run identifies one simulation of one model.
type Run struct {
	ID          string
	Name        string
	Description string
	Model       *vm.Model
}

// Execute allocates the model's pages, then samples and translates
// opts.NumTranslations addresses, all from the model's own generator.
func (r Run) Execute(opts Options) report.Result {
	m := r.Model

	m.AllocatePages()

	res := report.Result{
		RunID:          r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Config:         m.Config(),
		NumPages:       m.NumPages(),
		NumFrames:      m.NumFrames(),
		PageTableSize:  m.CalculatePageTableSize(),
		AllocatedPages: m.NumAllocatedPages(),
		Translations:   make([]vm.Translation, 0, max(opts.NumTranslations, 0)),
	}

	if opts.Verbose {
		res.PageTable = m.PageTable()
	}

	for i := 0; i < opts.NumTranslations; i++ {
		res.Translations = append(res.Translations,
			m.TranslateAddress(m.SampleAddress()))
	}

	return res
}
