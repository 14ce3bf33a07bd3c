package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/catshuffle/version"
)

// NewVersionCmd creates and returns the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintVersion(cmd.OutOrStdout(), "catshuffle")
		},
	}
}
