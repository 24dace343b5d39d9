package main

import (
	"github.com/aretw0/stackcalc/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted sessions",
	Long:  `List, inspect and remove sessions in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(p *cli.Persistence, precision int) error {
			return cli.ListSessions(cmd.Context(), p.Store, cmd.OutOrStdout())
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Show the stored stack of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(p *cli.Persistence, precision int) error {
			return cli.InspectSession(cmd.Context(), p.Store, args[0], precision, cmd.OutOrStdout())
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(p *cli.Persistence, precision int) error {
			return cli.RemoveSessions(cmd.Context(), p.Store, args, cmd.OutOrStdout())
		})
	},
}

func withStore(cmd *cobra.Command, fn func(p *cli.Persistence, precision int) error) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	p, err := cli.OpenStore(cfg.Store)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(p, cfg.Precision)
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
}
