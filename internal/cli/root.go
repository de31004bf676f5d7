// Package cli implements the titlecraft command line.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/FranksOps/titlecraft/internal/config"
	"github.com/FranksOps/titlecraft/internal/logging"
)

var (
	// loadConfig is swapped in tests.
	loadConfig = config.Load

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "titlecraft",
	Short: "SERP-driven page title analysis",
	Long: `titlecraft compares a page title against the live Google organic results for
a query and suggests improvements, either generated by Claude or derived from
heuristics over the competitor titles.

It runs as an MCP server (titlecraft serve) or as a one-shot CLI.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
