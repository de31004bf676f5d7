package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FranksOps/titlecraft/internal/mcpserver"
	"github.com/FranksOps/titlecraft/internal/metrics"
	"github.com/FranksOps/titlecraft/internal/pipeline"
	"github.com/FranksOps/titlecraft/internal/scraper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the analyze_title and
inspect_page tools.

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead.

Examples:
  # Stdio mode (for Claude Desktop)
  titlecraft serve

  # HTTP mode
  titlecraft serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "titlecraft": {
        "command": "/path/to/titlecraft",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsPort > 0 {
		ms := metrics.Start(cfg.MetricsPort, func(err error) {
			logger.Error().Err(err).Msg("metrics server")
		})
		logger.Info().Int("port", cfg.MetricsPort).Msg("metrics listening")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ms.Stop(shutdownCtx)
		}()
	}

	analyzer, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	if !analyzer.AIEnabled() {
		logger.Info().Msg("ANTHROPIC_API_KEY not set, suggestions will be heuristic only")
	}

	insp, err := scraper.NewInspectorFromConfig(cfg, cfg.DefaultDevice, logger)
	if err != nil {
		return err
	}
	defer insp.Close()

	server, err := mcpserver.NewServer(mcpserver.Ports{
		Analyzer:  analyzer,
		Inspector: insp,
	}, logger)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}
	return server.Run(ctx)
}
