package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/stackcalc/internal/cli"
	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the available commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		calc, err := cli.NewCalculator(cfg, logger)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, d := range calc.Registry().Describe() {
			fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.Help)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}
