package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for newsfilter.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsfilter",
		Short: "Rate news articles by their share of charged words",
		Long: `newsfilter downloads news articles, extracts the article text and
reports the percentage of emotionally charged words in it.

Run "newsfilter serve" for the HTTP API or "newsfilter rate" to rate
articles from the command line. Settings come from flags, FILTER_*
environment variables, a .env file and a YAML config file, in that order
of precedence.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .newsfilter in current or home directory)")
	cmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file if it exists")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewRateCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
