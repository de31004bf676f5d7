package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FranksOps/titlecraft/internal/scraper"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect URL...",
	Short: "Show the live title and meta tags of pages",
	Long: `Fetches each URL and prints its title, meta description, canonical URL,
robots meta and H1 headings as JSON. Fetch failures are reported per page.`,
	Args: cobra.RangeArgs(1, scraper.MaxInspectURLs),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("device", "", "user agent family: desktop or mobile (default from DEFAULT_DEVICE)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	device, _ := cmd.Flags().GetString("device")
	if device == "" {
		device = cfg.DefaultDevice
	}

	insp, err := scraper.NewInspectorFromConfig(cfg, device, logger)
	if err != nil {
		return err
	}
	defer insp.Close()

	snaps := insp.InspectAll(cmd.Context(), args)
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshots: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
