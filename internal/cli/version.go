package cli

import (
	"github.com/spf13/cobra"

	"github.com/FranksOps/titlecraft/internal/mcpserver"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	// No configuration needed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("titlecraft version %s\n", mcpserver.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
