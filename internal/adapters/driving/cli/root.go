// Package cli implements the cobra command surface of qontosync.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qontosync/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qontosync",
	Short: "Sync Qonto receipt attachments to a destination store",
	Long: `qontosync reconciles the receipt attachments of a Qonto bank account
against a destination store (local directory, Google Drive folder or S3
bucket), transferring only what changed since the previous run. Files are
renamed in place when only their labels moved, and skipped entirely when
nothing changed.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to the config file (default ~/.qontosync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
