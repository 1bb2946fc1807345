package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/pagingsim/monitoring"
	"github.com/sarchlab/pagingsim/report"
	"github.com/sarchlab/pagingsim/simulation"
)

type serveFlags struct {
	modelFlags

	port        int
	openBrowser bool
}

func newServeCommand() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Simulate, then serve the models over HTTP until interrupted.",
		Long: "`serve` runs the same simulation as `run` and keeps the " +
			"models alive behind a monitoring server, where their page " +
			"tables can be read, addresses translated and pages reallocated.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			return f.serve(ctx, cmd)
		},
	}

	f.register(cmd)

	cmd.Flags().IntVar(&f.port, "port", 0,
		"Port of the monitoring server, random if not set")
	cmd.Flags().BoolVar(&f.openBrowser, "open-browser", false,
		"Open the model list in a web browser")

	return cmd
}

func (f *serveFlags) serve(ctx context.Context, cmd *cobra.Command) error {
	batch, err := f.newBatch(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	runs, err := batch.Build()
	if err != nil {
		return err
	}

	monitor := monitoring.NewMonitor()
	if f.port != 0 {
		monitor.WithPortNumber(f.port)
	}

	port, err := monitor.StartServer()
	if err != nil {
		return err
	}

	f.executeRuns(cmd, monitor, runs)

	url := fmt.Sprintf("http://localhost:%d/api/list_models", port)
	if f.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Cannot open %s: %v\n", url, err)
		}
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		5*time.Second)
	defer cancel()

	return monitor.Shutdown(shutdownCtx)
}

// executeRuns simulates every run while the server is already up, tracking
// the progress in a progress bar. A model is only registered once its run is
// over, so that requests never race with the run.
func (f *serveFlags) executeRuns(
	cmd *cobra.Command,
	monitor *monitoring.Monitor,
	runs []simulation.Run,
) {
	bar := monitor.CreateProgressBar("Simulation", uint64(len(runs)))
	defer monitor.CompleteProgressBar(bar)

	reporter := report.NewTextReporter(cmd.OutOrStdout())

	for _, run := range runs {
		bar.IncrementInProgress(1)

		res := run.Execute(f.options())

		err := reporter.Report(res)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Cannot report %s: %v\n",
				modelName(run), err)
		}

		monitor.RegisterModel(modelName(run), run.Model)
		bar.MoveInProgressToFinished(1)
	}
}

func modelName(run simulation.Run) string {
	if run.Name == "" {
		return "model"
	}

	return run.Name
}
