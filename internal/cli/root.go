package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "safeguard",
	Short: "Safety gate and data vault for user content",
	Long:  "Enforces boundary rules on user content — restricted topic filtering,\nviolation tracking, authorization grants — and stores user data obfuscated\naccording to per-user encryption preferences.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config YAML (default ~/.safeguard/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
