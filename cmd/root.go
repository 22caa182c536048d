package cmd

import (
	"github.com/spf13/cobra"

	"ColdVault/internal/logging"
)

var logLevel string
var logFormat string

var rootCmd = &cobra.Command{
	Use:   "coldvault",
	Short: "Backup tool for S3 and Glacier with compression, encryption and rotation",
	Long:  "Coldvault packages directories and files into compressed, optionally age-encrypted archives, stores them in S3 or Glacier, and manages their lifecycle: listing, restore (including Glacier's job-based retrieval), deletion and grandfather-father-son rotation.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logLevel, logFormat)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console or json)")
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
