package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FranksOps/titlecraft/internal/pipeline"
	"github.com/FranksOps/titlecraft/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a page title against the live SERP",
	Long: `Fetches the live Google organic results for --query, compares --title with the
competitor titles and prints a report.

Examples:
  titlecraft analyze --query "best running shoes" --title "Running Shoes | Our Store"
  titlecraft analyze -q "best running shoes" -t "Running Shoes" --domain our-store.com --format json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringP("query", "q", "", "search query to analyze")
	f.StringP("title", "t", "", "current title of your page")
	f.StringP("domain", "d", "", "your domain, excluded from competitors")
	f.Int("location", 0, "DataForSEO location code (default from DEFAULT_LOCATION_CODE)")
	f.String("language", "", "language code (default from DEFAULT_LANGUAGE_CODE)")
	f.String("device", "", "desktop or mobile (default from DEFAULT_DEVICE)")
	f.IntP("max-results", "n", pipeline.DefaultMaxResults, "competitors to list in detail (max 100)")
	f.StringP("format", "f", "markdown", "output format: markdown or json")
	_ = analyzeCmd.MarkFlagRequired("query")
	_ = analyzeCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(analyzeCmd)
}

func analyzeRequest(cmd *cobra.Command) pipeline.Request {
	f := cmd.Flags()
	req := pipeline.Request{}
	req.Query, _ = f.GetString("query")
	req.UserTitle, _ = f.GetString("title")
	req.UserDomain, _ = f.GetString("domain")
	req.LanguageCode, _ = f.GetString("language")
	req.Device, _ = f.GetString("device")
	if f.Changed("location") {
		v, _ := f.GetInt("location")
		req.LocationCode = &v
	}
	if f.Changed("max-results") {
		v, _ := f.GetInt("max-results")
		req.MaxResults = &v
	}
	return req
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "markdown" && format != "json" {
		return fmt.Errorf("unknown format %q: want markdown or json", format)
	}

	analyzer, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	rep, err := analyzer.Analyze(cmd.Context(), analyzeRequest(cmd))
	if err != nil {
		return errors.New(pipeline.FormatError(err))
	}

	if format == "json" {
		return report.WriteJSON(cmd.OutOrStdout(), rep)
	}
	return report.WriteMarkdown(cmd.OutOrStdout(), rep)
}
