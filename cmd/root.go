package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "benv",
	Short: "Switch between named environment configurations",
	Long: `benv organizes shell environment setups into a tree of categories, each
holding named configurations with an activation payload. Activating a
configuration records the choice, and the shell hook replays recorded
selections whenever a new shell starts.`,
	SilenceUsage: true,
}

// Execute runs the root command and returns its error for exit-code
// mapping.
func Execute() error {
	return rootCmd.Execute()
}
