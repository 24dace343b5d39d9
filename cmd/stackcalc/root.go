package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stackcalc/internal/cli"
	"github.com/aretw0/stackcalc/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stackcalc",
	Short: "stackcalc is a stack-based RPN calculator",
	Long: `stackcalc evaluates Reverse Polish Notation one token per line.
Every operation can be undone and redone, and stored procedures
(proc:<file>) run a script as a single undoable step.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose logging")
}

// setup loads the configuration and creates the logger shared by all subcommands.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	debug, _ := cmd.Flags().GetBool("debug")

	logger, err := cli.CreateLogger(debug, cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}
