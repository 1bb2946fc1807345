package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pagingsim/scenario"
)

func newScenariosCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenarios run in batch mode.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenarios := scenario.Builtin()
			if file != "" {
				var err error
				scenarios, err = scenario.LoadFile(file)
				if err != nil {
					return err
				}
			}

			return printScenarios(cmd, scenarios)
		},
	}

	cmd.Flags().StringVar(&file, "scenarios", "",
		"YAML file with the scenarios to list")

	return cmd
}

func printScenarios(cmd *cobra.Command, scenarios []scenario.Scenario) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tPAGE SIZE\tADDRESS SPACE\tPHYSICAL MEMORY\tALLOCATE\tSEED\tDESCRIPTION")

	for _, s := range scenarios {
		c := s.Config()

		seed := "-"
		if c.Seed != nil {
			seed = fmt.Sprint(*c.Seed)
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d%%\t%s\t%s\n",
			s.Name, c.PageSize, c.AddressSpace, c.PhysicalMemory,
			c.AllocationPercent, seed, s.Description)
	}

	return w.Flush()
}
