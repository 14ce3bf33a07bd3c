package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/dendrascience/catshuffle/shuffle"
)

// NewCountCmd creates and returns the count subcommand for the catshuffle CLI.
// It shows, for each directory under a root, how many files still need to be
// flattened.
func NewCountCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count direct and nested files per category",
		Long: `Count the files in every directory directly under PATH.

For each directory the output lists the files sitting directly inside it, the
files nested in subdirectories at any depth and the number of subdirectories.
After a pass every category should show zero nested files and directories.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			return runCount(cmd, path)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")

	return cmd
}

func runCount(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	entries, err := os.ReadDir(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read directory", goerr.V("path", path))
	}

	var total shuffle.TreeCount
	topFiles := 0
	for _, e := range entries {
		if !e.IsDir() {
			topFiles++
			continue
		}
		c, err := shuffle.CountTree(filepath.Join(path, e.Name()))
		if err != nil {
			fmt.Fprintf(out, "%-12s error: %v\n", e.Name(), err)
			continue
		}
		state := "flat"
		if !c.Flat() {
			state = "nested"
		}
		fmt.Fprintf(out, "%-12s direct=%-6d nested=%-6d dirs=%-4d %s\n",
			shuffle.CategoryColor(e.Name()).Sprint(e.Name()), c.Direct, c.Nested, c.Dirs, state)
		total.Direct += c.Direct
		total.Nested += c.Nested
		total.Dirs += c.Dirs
	}

	fmt.Fprintf(out, "\nTop-level files: %d\n", topFiles)
	fmt.Fprintf(out, "Total files: %d (direct %d, nested %d)\n", total.Direct+total.Nested, total.Direct, total.Nested)
	return nil
}
