package cmd

import (
	"log"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pagingsim/datarecording"
	"github.com/sarchlab/pagingsim/mem/trace"
	"github.com/sarchlab/pagingsim/mem/vm"
	"github.com/sarchlab/pagingsim/report"
	"github.com/sarchlab/pagingsim/sim"
	"github.com/sarchlab/pagingsim/simulation"
)

type runFlags struct {
	modelFlags

	output         string
	record         string
	parallel       bool
	logTranslation bool
}

func newRunCommand() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Allocate pages and translate random addresses.",
		Long: "`run -p PAGE_SIZE -a ADDRESS_SPACE -P PHYSICAL_MEMORY` " +
			"simulates one configuration. `run --batch` goes through the " +
			"predefined scenarios instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.run(cmd)
		},
	}

	f.register(cmd)

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "text",
		"Output format, text or json")
	flags.StringVar(&f.record, "record", "",
		"Record the runs into the SQLite database PATH.sqlite3")
	flags.BoolVar(&f.parallel, "parallel", false,
		"Run batch scenarios on all CPUs")
	flags.BoolVar(&f.logTranslation, "log", false,
		"Log allocations and translations to stderr")

	return cmd
}

func (f *runFlags) run(cmd *cobra.Command) error {
	reporter, err := report.New(f.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	batch, err := f.newBatch(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	if f.parallel {
		batch.WithParallelism(runtime.GOMAXPROCS(0))
	}

	if f.logTranslation {
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		batch.WithBuilder(
			vm.MakeBuilder().WithHook(vm.NewTranslationLogger(logger)))
	}

	if f.record != "" {
		recorder, err := datarecording.NewDataRecorder(f.record)
		if err != nil {
			return err
		}
		defer recorder.Close()

		tracer := trace.NewDBTracer(recorder)
		batch.
			WithIDGenerator(sim.NewParallelIDGenerator()).
			OnPrepare(func(run simulation.Run) {
				tracer.TraceRun(run.ID, run.Name, run.Model)
			})
	}

	results, err := batch.Run()
	if err != nil {
		return err
	}

	for _, res := range results {
		err := reporter.Report(res)
		if err != nil {
			return err
		}
	}

	return nil
}
