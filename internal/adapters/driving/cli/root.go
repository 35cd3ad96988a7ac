// Package cli provides the remsync command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/remsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose  bool
	flagCache    string
	flagCacheDir string
	flagListen   string
)

var rootCmd = &cobra.Command{
	Use:   "remsync",
	Short: "Keep local workspaces in sync with remote file stores",
	Long: `remsync watches one or more workspace roots and reacts to document
open and save events: files are uploaded on save or downloaded on open
according to the connection profiles declared in .remsync.toml.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagCache, "cache", "memory", "metadata cache backend (memory|sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "data directory for the sqlite cache")
	rootCmd.PersistentFlags().StringVar(&flagListen, "listen", "", "editor API listen address (empty disables)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
