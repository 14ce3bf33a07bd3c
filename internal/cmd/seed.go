package cmd

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/dendrascience/catshuffle/shuffle"
)

type seedOptions struct {
	outputPath string
	fileCount  int
	categories []string
	maxDepth   int
	extras     bool
}

type seedStats struct {
	files       int
	dirs        map[string]int
	perCategory map[string]int
}

// NewSeedCmd creates and returns the seed subcommand for the catshuffle CLI.
// It generates nested category directories filled with small test files.
func NewSeedCmd() *cobra.Command {
	var (
		opts    seedOptions
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a nested category tree to try catshuffle on",
		Long: `Generate a directory tree of category folders with files nested at random
depths below them, ready for a run.

Files are named with eight random hex digits and a .csv or .txt extension and
contain a single UUID line. With --extras a directory outside the category
list and a top-level file are added; a run must leave both untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintf(out, "Generating %d test files in %s\n", opts.fileCount, opts.outputPath)
			}
			stats, err := seedTree(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %d files in %d directories\n", stats.files, len(stats.dirs))
			if verbose {
				for _, c := range opts.categories {
					fmt.Fprintf(out, "  %s: %d files\n", shuffle.CategoryColor(c).Sprint(c), stats.perCategory[c])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&opts.fileCount, "count", "c", 200, "Number of files to generate")
	cmd.Flags().StringSliceVar(&opts.categories, "categories", shuffle.DefaultCategories, "Category directories to create")
	cmd.Flags().IntVarP(&opts.maxDepth, "depth", "d", 3, "Maximum nesting depth below a category")
	cmd.Flags().BoolVar(&opts.extras, "extras", false, "Also create a non-category directory and a top-level file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func seedTree(opts seedOptions) (seedStats, error) {
	stats := seedStats{dirs: make(map[string]int), perCategory: make(map[string]int)}
	if len(opts.categories) == 0 {
		return stats, goerr.New("at least one category is required")
	}
	if err := os.MkdirAll(opts.outputPath, 0o755); err != nil {
		return stats, goerr.Wrap(err, "failed to create output directory", goerr.V("path", opts.outputPath))
	}

	// Generate pool of 50 UUIDs
	uuidPool := make([]string, 50)
	for i := range uuidPool {
		uuidPool[i] = uuid.New().String()
	}

	for stats.files < opts.fileCount {
		category := opts.categories[randInt(len(opts.categories))]
		dirPath := filepath.Join(opts.outputPath, category)
		for level := range randInt(opts.maxDepth + 1) {
			dirPath = filepath.Join(dirPath, fmt.Sprintf("sub-%d-%02d", level+1, randInt(4)))
		}
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return stats, goerr.Wrap(err, "failed to create directory", goerr.V("path", dirPath))
		}

		ext := ".csv"
		if randInt(2) == 1 {
			ext = ".txt"
		}
		filePath := filepath.Join(dirPath, fmt.Sprintf("%08x%s", randInt(0xFFFFFFFF), ext))

		// Skip if file already exists
		if _, err := os.Stat(filePath); err == nil {
			continue
		}
		content := uuidPool[randInt(len(uuidPool))] + "\n"
		if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
			return stats, goerr.Wrap(err, "failed to write file", goerr.V("path", filePath))
		}

		stats.dirs[dirPath]++
		stats.perCategory[category]++
		stats.files++
	}

	if opts.extras {
		misc := filepath.Join(opts.outputPath, "misc", "nested")
		if err := os.MkdirAll(misc, 0o755); err != nil {
			return stats, goerr.Wrap(err, "failed to create directory", goerr.V("path", misc))
		}
		if err := os.WriteFile(filepath.Join(misc, "keep.csv"), []byte(uuid.NewString()+"\n"), 0o644); err != nil {
			return stats, goerr.Wrap(err, "failed to write file")
		}
		if err := os.WriteFile(filepath.Join(opts.outputPath, "README.txt"), []byte("seeded by catshuffle\n"), 0o644); err != nil {
			return stats, goerr.Wrap(err, "failed to write file")
		}
	}
	return stats, nil
}

// randInt returns a uniform value in [0, n).
func randInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}
