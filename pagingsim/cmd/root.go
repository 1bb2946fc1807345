// Package cmd provides the command-line interface of pagingsim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// NewRootCommand creates the pagingsim command with all its subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pagingsim",
		Short: "Simulate address translation with a single-level page table.",
		Long: `pagingsim builds a page table over a virtual address space, maps a ` +
			`random share of its pages to physical frames and translates ` +
			`random virtual addresses through it. Flags can also be set with ` +
			`PAGINGSIM_<FLAG> environment variables or a .env file.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnv(cmd)
		},
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newScenariosCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

// Execute runs the root command and exits. The exit status is 1 if the
// command fails. Exit handlers, such as the one flushing recorded data, run
// before the process ends.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
