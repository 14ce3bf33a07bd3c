package cmd

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dendrascience/catshuffle/internal/config"
	"github.com/dendrascience/catshuffle/shuffle"
)

// shuffleClock drives timestamps and the sleep between passes.
var shuffleClock shuffle.Clock = shuffle.SystemClock{}

// NewRunCmd creates and returns the run subcommand for the catshuffle CLI.
// It runs passes without prompting, configured by flags and the config file.
func NewRunCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Flatten, rename and re-timestamp category directories",
		Long: `Run one or more passes over a root directory.

In the categories layout every allow-listed directory directly under the root
is flattened, its files are renamed to a shuffled zero-padded sequence and
their modification times are randomized. Other directories are left alone.
In the flat layout the whole root is flattened into the target directory.

With --forever the pass repeats every --interval until interrupted. With
--repeat N exactly N passes run. The sleep starts after a pass finishes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return runInteractive(cmd)
			}
			a := appFrom(cmd)
			return execute(cmd.Context(), a.cfg, a.log, cmd.OutOrStdout(), shuffleClock)
		},
	}

	defaults := config.Default()
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for paths and mode interactively")
	cmd.Flags().StringP("root", "r", "", "Main directory to process (required unless set in config)")
	cmd.Flags().StringP("target", "t", "", "Target directory (defaults to the root)")
	cmd.Flags().String("layout", defaults.Layout, "Layout: categories or flat")
	cmd.Flags().StringSlice("categories", defaults.Categories, "Category directory names to process")
	cmd.Flags().String("ext-policy", defaults.Rename.Policy, "Extension policy: fixed or preserve")
	cmd.Flags().String("extension", defaults.Rename.Extension, "Extension used by the fixed policy")
	cmd.Flags().String("time-mode", defaults.Timestamp.Mode, "Timestamp mode: epoch-forward, now-backward or now-forward")
	cmd.Flags().Duration("window", defaults.Timestamp.Window, "Length of the timestamp window")
	cmd.Flags().Int64("epoch", defaults.Timestamp.EpochUnix, "Reference epoch (unix seconds) for epoch-forward")
	cmd.Flags().Duration("interval", defaults.Schedule.Interval, "Pause between passes")
	cmd.Flags().Int("repeat", defaults.Schedule.Repeat, "Number of passes to run")
	cmd.Flags().Bool("forever", false, "Repeat passes until interrupted")
	cmd.Flags().Uint64("seed", 0, "Seed for the shuffle and timestamps (0 picks one)")
	cmd.Flags().String("report", "", "Write the JSON report of each pass to this path")
	cmd.Flags().BoolP("quiet", "q", false, "Only print headers and summaries, not per-file details")

	return cmd
}

// execute validates cfg, wires the pass and runs the schedule. Cancellation
// of ctx, normally by SIGINT or SIGTERM, ends the schedule without error.
func execute(ctx context.Context, cfg config.Config, log zerolog.Logger, out io.Writer, clock shuffle.Clock) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	rng := shuffle.NewRand(cfg.Seed)
	narrator := shuffle.NewNarrator(out, !cfg.Quiet)
	processor := &shuffle.Processor{
		Root:       cfg.Root,
		Target:     cfg.Target,
		Layout:     cfg.LayoutValue(),
		Categories: cfg.Categories,
		ReportPath: cfg.Report,
		Walker: shuffle.Walker{
			Log:      log,
			Narrator: narrator,
		},
		Renamer: shuffle.Renamer{
			Rand:      rng,
			Policy:    cfg.ExtPolicyValue(),
			Extension: cfg.Rename.Extension,
			Log:       log,
			Narrator:  narrator,
		},
		Stamper: shuffle.Stamper{
			Rand:     rng,
			Clock:    clock,
			Mode:     cfg.TimeModeValue(),
			Epoch:    cfg.Epoch(),
			Window:   cfg.Timestamp.Window,
			Log:      log,
			Narrator: narrator,
		},
		Clock:    clock,
		Narrator: narrator,
		Log:      log,
	}
	scheduler := shuffle.Scheduler{
		Interval: cfg.Schedule.Interval,
		Repeat:   cfg.Schedule.Repeat,
		Forever:  cfg.Schedule.Forever,
		Clock:    clock,
		Log:      log,
	}

	log.Debug().
		Str("root", cfg.Root).
		Str("target", cfg.Target).
		Str("layout", cfg.Layout).
		Strs("categories", cfg.Categories).
		Dur("interval", cfg.Schedule.Interval).
		Bool("forever", cfg.Schedule.Forever).
		Msg("starting schedule")

	started := clock.Now()
	passes, err := scheduler.Run(ctx, func(ctx context.Context) error {
		_, err := processor.Pass(ctx)
		return err
	})
	log.Info().Int("passes", passes).Dur("elapsed", clock.Now().Sub(started).Round(time.Millisecond)).Msg("schedule finished")

	if errors.Is(err, context.Canceled) {
		narrator.Printf("\nStopped after %d passes\n", passes)
		return nil
	}
	if err == nil {
		narrator.Printf("All automated tasks completed.\n")
	}
	return err
}
