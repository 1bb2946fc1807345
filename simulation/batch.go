package simulation

import (
	"fmt"
	"sync"

	"github.com/sarchlab/pagingsim/mem/vm"
	"github.com/sarchlab/pagingsim/report"
	"github.com/sarchlab/pagingsim/scenario"
	"github.com/sarchlab/pagingsim/sim"
)

// A Batch runs a list of scenarios, each on its own model with its own
// generator.
type Batch struct {
	scenarios   []scenario.Scenario
	options     Options
	parallelism int
	idGenerator sim.IDGenerator
	seed        *int64
	builder     vm.Builder
	prepare     []func(run Run)
	onRunDone   []func(res report.Result)
}

// NewBatch creates a batch over scenarios that runs one scenario at a time.
func NewBatch(scenarios []scenario.Scenario) *Batch {
	return &Batch{
		scenarios:   scenarios,
		options:     DefaultOptions(),
		parallelism: 1,
		idGenerator: sim.GetIDGenerator(),
		builder:     vm.MakeBuilder(),
	}
}

// WithOptions sets the options every run uses.
func (b *Batch) WithOptions(opts Options) *Batch {
	b.options = opts
	return b
}

// WithParallelism sets how many scenarios may run at the same time.
func (b *Batch) WithParallelism(n int) *Batch {
	if n < 1 {
		n = 1
	}

	b.parallelism = n

	return b
}

// WithIDGenerator sets the generator that names runs.
func (b *Batch) WithIDGenerator(g sim.IDGenerator) *Batch {
	b.idGenerator = g
	return b
}

// WithSeed sets the seed used by scenarios that do not carry one.
func (b *Batch) WithSeed(seed int64) *Batch {
	b.seed = &seed
	return b
}

// WithBuilder sets the builder the models are built from. The scenario
// configuration replaces the builder's.
func (b *Batch) WithBuilder(builder vm.Builder) *Batch {
	b.builder = builder
	return b
}

// OnPrepare registers a function that is called with every run after its
// model is built and before it executes. It may be called from several
// goroutines at once.
func (b *Batch) OnPrepare(f func(run Run)) *Batch {
	b.prepare = append(b.prepare, f)
	return b
}

// OnRunDone registers a function that is called after every run. It may be
// called from several goroutines at once.
func (b *Batch) OnRunDone(f func(res report.Result)) *Batch {
	b.onRunDone = append(b.onRunDone, f)
	return b
}

// Build creates the runs of the batch without executing them.
func (b *Batch) Build() ([]Run, error) {
	runs := make([]Run, 0, len(b.scenarios))

	for _, s := range b.scenarios {
		c := s.Config()
		if c.Seed == nil {
			c.Seed = b.seed
		}

		m, err := b.builder.WithConfig(c).Build()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}

		runs = append(runs, Run{
			ID:          b.idGenerator.Generate(),
			Name:        s.Name,
			Description: s.Description,
			Model:       m,
		})
	}

	return runs, nil
}

// Run builds and executes all the runs. Results are returned in scenario
// order.
func (b *Batch) Run() ([]report.Result, error) {
	runs, err := b.Build()
	if err != nil {
		return nil, err
	}

	results := make([]report.Result, len(runs))
	sem := make(chan struct{}, b.parallelism)

	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = b.execute(run)
		}()
	}

	wg.Wait()

	return results, nil
}

func (b *Batch) execute(run Run) report.Result {
	for _, f := range b.prepare {
		f(run)
	}

	res := run.Execute(b.options)

	for _, f := range b.onRunDone {
		f(res)
	}

	return res
}
