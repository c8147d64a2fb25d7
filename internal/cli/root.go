package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the amabot command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "amabot",
		Short: "Biographical ask-me-anything bot",
		Long:  "amabot answers questions about its owner from a curated set of biographical entries, using embedding similarity to pick the relevant ones",
	}

	rootCmd.AddCommand(AskCmd())
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(RefreshCmd())
	rootCmd.AddCommand(ImportCmd())
	rootCmd.AddCommand(ExportCmd())

	return rootCmd
}
