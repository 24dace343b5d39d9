package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stackcalc"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stackcalc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stackcalc version %s\n", strings.TrimSpace(stackcalc.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
