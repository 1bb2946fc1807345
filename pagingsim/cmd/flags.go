package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pagingsim/scenario"
	"github.com/sarchlab/pagingsim/simulation"
)

// errMissingSizes is returned when a single run lacks one of its sizes.
var errMissingSizes = errors.New(
	"--page-size, --address-space and --physical-memory are required " +
		"unless --batch is given")

// errNegativeTranslations is returned when --translations is below zero.
var errNegativeTranslations = errors.New("--translations must not be negative")

// modelFlags are the flags that describe what to simulate. They are shared by
// the run and serve commands.
type modelFlags struct {
	pageSize       uint64
	addressSpace   uint64
	physicalMemory uint64
	allocate       int
	seed           int64
	batch          bool
	scenarioFile   string
	translations   int
	verbose        bool
}

func (f *modelFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.Uint64VarP(&f.pageSize, "page-size", "p", 0,
		"Size of a page in bytes")
	flags.Uint64VarP(&f.addressSpace, "address-space", "a", 0,
		"Address space size in bytes")
	flags.Uint64VarP(&f.physicalMemory, "physical-memory", "P", 0,
		"Physical memory size in bytes")
	flags.IntVarP(&f.allocate, "allocate", "u", 100,
		"Percentage of pages to allocate, from 0 to 100")
	flags.Int64VarP(&f.seed, "seed", "s", 0,
		"Random seed for deterministic behavior")
	flags.BoolVarP(&f.batch, "batch", "b", false,
		"Run the predefined scenarios instead of the size flags")
	flags.StringVar(&f.scenarioFile, "scenarios", "",
		"YAML file with the scenarios to run in batch mode")
	flags.IntVarP(&f.translations, "translations", "n",
		simulation.DefaultNumTranslations,
		"Number of random addresses to translate")
	flags.BoolVarP(&f.verbose, "verbose", "v", false,
		"Print the page table")
}

// seedPtr returns the seed if the user gave one.
func (f *modelFlags) seedPtr(cmd *cobra.Command) *int64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}

	seed := f.seed

	return &seed
}

// scenarios returns what to simulate: the batch scenarios, or a single
// unnamed scenario built from the size flags.
func (f *modelFlags) scenarios(cmd *cobra.Command) ([]scenario.Scenario, error) {
	if f.translations < 0 {
		return nil, errNegativeTranslations
	}

	if f.batch {
		if f.scenarioFile != "" {
			return scenario.LoadFile(f.scenarioFile)
		}

		return scenario.Builtin(), nil
	}

	for _, name := range []string{
		"page-size", "address-space", "physical-memory",
	} {
		if !cmd.Flags().Changed(name) {
			return nil, errMissingSizes
		}
	}

	allocate := f.allocate

	return []scenario.Scenario{{
		PageSize:          f.pageSize,
		AddressSpace:      f.addressSpace,
		PhysicalMemory:    f.physicalMemory,
		AllocationPercent: &allocate,
		Seed:              f.seedPtr(cmd),
	}}, nil
}

func (f *modelFlags) options() simulation.Options {
	return simulation.Options{
		NumTranslations: f.translations,
		Verbose:         f.verbose,
	}
}

// newBatch creates the batch that runs the selected scenarios. In batch mode,
// --seed is used by the scenarios that do not carry their own seed.
func (f *modelFlags) newBatch(cmd *cobra.Command) (*simulation.Batch, error) {
	scenarios, err := f.scenarios(cmd)
	if err != nil {
		return nil, err
	}

	b := simulation.NewBatch(scenarios).WithOptions(f.options())

	if seed := f.seedPtr(cmd); seed != nil {
		b.WithSeed(*seed)
	}

	return b, nil
}
