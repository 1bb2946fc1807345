// Package report turns the outcome of simulation runs into human-readable or
// JSON output.
package report

import (
	"io"

	"github.com/sarchlab/pagingsim/mem/vm"
)

// A Result is everything one simulation run reports.
type Result struct {
	RunID          string
	Name           string
	Description    string
	Config         vm.Config
	NumPages       uint64
	NumFrames      uint64
	PageTableSize  uint64
	AllocatedPages uint64

	// PageTable is only filled for verbose runs.
	PageTable    []vm.PageTableEntry
	Translations []vm.Translation
}

// A Reporter writes results somewhere.
type Reporter interface {
	Report(r Result) error
}

// New returns the reporter for the named format, "text" or "json".
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case "", "text":
		return NewTextReporter(w), nil
	case "json":
		return NewJSONReporter(w), nil
	default:
		return nil, &UnknownFormatError{Format: format}
	}
}

// UnknownFormatError is returned by New for unsupported formats.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return "unknown output format " + e.Format
}
