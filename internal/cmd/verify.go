package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/dendrascience/catshuffle/internal/config"
	"github.com/dendrascience/catshuffle/shuffle"
)

// NewVerifyCmd creates and returns the verify subcommand for the catshuffle CLI.
// It checks a processed tree against the state a pass is expected to leave.
func NewVerifyCmd() *cobra.Command {
	var (
		reference string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "verify [PATH]",
		Short: "Check that processed directories are flat, sequential and inside the time window",
		Long: `Verify the output of a pass.

Every output directory (each category under the target in the categories
layout, the target itself in the flat layout) must contain no subdirectories
and files named with the gapless sequence 001..N. For epoch-forward timestamps
every modification time must fall inside [epoch, epoch+window]. For the
now-based modes pass --reference with the time the pass ran (RFC 3339).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appFrom(cmd).cfg
			if len(args) > 0 {
				paths := config.Paths{Root: args[0]}
				if cmd.Flags().Changed("target") {
					paths.Target = cfg.Target
				}
				cfg = cfg.WithPaths(paths)
			}
			return runVerify(cmd, cfg, reference, verbose)
		},
	}

	defaults := config.Default()
	cmd.Flags().StringP("root", "r", "", "Root directory that was processed")
	cmd.Flags().StringP("target", "t", "", "Target directory (defaults to the root)")
	cmd.Flags().String("layout", defaults.Layout, "Layout: categories or flat")
	cmd.Flags().StringSlice("categories", defaults.Categories, "Category directory names to check")
	cmd.Flags().String("ext-policy", defaults.Rename.Policy, "Extension policy: fixed or preserve")
	cmd.Flags().String("extension", defaults.Rename.Extension, "Extension used by the fixed policy")
	cmd.Flags().String("time-mode", defaults.Timestamp.Mode, "Timestamp mode: epoch-forward, now-backward or now-forward")
	cmd.Flags().Duration("window", defaults.Timestamp.Window, "Length of the timestamp window")
	cmd.Flags().Int64("epoch", defaults.Timestamp.EpochUnix, "Reference epoch (unix seconds) for epoch-forward")
	cmd.Flags().String("report", "", "Report file written by the run, ignored when checking")
	cmd.Flags().StringVar(&reference, "reference", "", "Time the pass ran, for now-based modes (RFC 3339)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func runVerify(cmd *cobra.Command, cfg config.Config, reference string, verbose bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	opts := shuffle.VerifyOptions{
		Policy:    cfg.ExtPolicyValue(),
		Extension: cfg.Rename.Extension,
	}
	if cfg.Report != "" {
		opts.Exclude = []string{shuffle.ReportFile(cfg.Report)}
	}
	stamper := shuffle.Stamper{
		Mode:   cfg.TimeModeValue(),
		Epoch:  cfg.Epoch(),
		Window: cfg.Timestamp.Window,
	}
	switch {
	case reference != "":
		ref, err := time.Parse(time.RFC3339, reference)
		if err != nil {
			return goerr.Wrap(err, "invalid reference time", goerr.V("reference", reference))
		}
		stamper.Clock = shuffle.FixedClock{T: ref}
		opts.Lo, opts.Hi = stamper.Bounds()
	case stamper.Mode == shuffle.EpochForward:
		opts.Lo, opts.Hi = stamper.Bounds()
	default:
		fmt.Fprintln(out, "No --reference given, skipping timestamp checks")
	}

	var dirs []string
	if cfg.LayoutValue() == shuffle.LayoutFlat {
		dirs = []string{cfg.Target}
	} else {
		for _, c := range cfg.Categories {
			dir := filepath.Join(cfg.Target, c)
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if verbose {
					fmt.Fprintf(out, "Category %s not present, skipping\n", c)
				}
				continue
			}
			dirs = append(dirs, dir)
		}
	}

	var totalProblems int
	for _, dir := range dirs {
		if verbose {
			fmt.Fprintf(out, "Verifying directory: %s\n", dir)
		}
		problems := shuffle.Verify(dir, opts)
		if len(problems) > 0 {
			fmt.Fprintf(out, "Directory %s has %d problems:\n", dir, len(problems))
			for _, p := range problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			totalProblems += len(problems)
		} else if verbose {
			fmt.Fprintf(out, "Directory %s is valid\n", dir)
		}
	}

	fmt.Fprintf(out, "\nVerification complete:\n")
	fmt.Fprintf(out, "  Directories checked: %d\n", len(dirs))
	fmt.Fprintf(out, "  Total problems: %d\n", totalProblems)

	if totalProblems > 0 {
		return goerr.New("verification failed", goerr.V("problems", totalProblems))
	}
	return nil
}
