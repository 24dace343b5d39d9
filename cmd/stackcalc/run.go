package main

import (
	"github.com/aretw0/stackcalc/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the calculator on stdin",
	Long: `Reads one token per line from stdin and prints the stack after each line.
With --session the stack is saved after every line and restored on the next run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		opts := cli.RunOptions{
			Config: cfg,
			In:     cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
		}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		if p, _ := cmd.Flags().GetInt("precision"); p > 0 {
			opts.Config.Precision = p
		}

		return cli.RunSession(cmd.Context(), opts, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().StringP("session", "s", "", "Persist the stack under this session ID")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Int("precision", 0, "Significant digits when printing values")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
