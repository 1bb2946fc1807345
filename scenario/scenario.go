// Package scenario holds the named parameter sets that a batch run goes
// through.
package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/pagingsim/mem/vm"
)

//go:embed scenarios.yaml
var builtinScenarios []byte

// ErrInvalidScenario is returned when a scenario list cannot be used.
var ErrInvalidScenario = errors.New("invalid scenario")

// A Scenario is a named paging configuration.
type Scenario struct {
	Name              string `yaml:"name" json:"name"`
	Description       string `yaml:"description,omitempty" json:"description,omitempty"`
	PageSize          uint64 `yaml:"page_size" json:"page_size"`
	AddressSpace      uint64 `yaml:"address_space" json:"address_space"`
	PhysicalMemory    uint64 `yaml:"physical_memory" json:"physical_memory"`
	AllocationPercent *int   `yaml:"allocation_percent,omitempty" json:"allocation_percent,omitempty"`
	Seed              *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Config converts the scenario into a model configuration. A missing
// allocation percent means 100.
func (s Scenario) Config() vm.Config {
	percent := 100
	if s.AllocationPercent != nil {
		percent = *s.AllocationPercent
	}

	return vm.Config{
		PageSize:          s.PageSize,
		AddressSpace:      s.AddressSpace,
		PhysicalMemory:    s.PhysicalMemory,
		AllocationPercent: percent,
		Seed:              s.Seed,
	}
}

// Builtin returns the scenarios shipped with the simulator.
func Builtin() []Scenario {
	scenarios, err := Load(bytes.NewReader(builtinScenarios))
	if err != nil {
		panic(err)
	}

	return scenarios
}

// LoadFile reads a YAML scenario list from a file.
func LoadFile(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scenarios, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return scenarios, nil
}

// Load decodes a YAML scenario list and validates it.
func Load(r io.Reader) ([]Scenario, error) {
	var scenarios []Scenario

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(&scenarios)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	err = validate(scenarios)
	if err != nil {
		return nil, err
	}

	return scenarios, nil
}

func validate(scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("%w: no scenario defined", ErrInvalidScenario)
	}

	names := make(map[string]bool, len(scenarios))
	for i, s := range scenarios {
		if s.Name == "" {
			return fmt.Errorf("%w: scenario %d has no name",
				ErrInvalidScenario, i)
		}

		if names[s.Name] {
			return fmt.Errorf("%w: duplicated name %q",
				ErrInvalidScenario, s.Name)
		}
		names[s.Name] = true

		err := s.Config().Validate()
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
		}
	}

	return nil
}
