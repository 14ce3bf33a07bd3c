package cmd

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dendrascience/catshuffle/internal/config"
	"github.com/dendrascience/catshuffle/version"
)

type appKey struct{}

// app is the per-invocation state resolved by the root command.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	closer io.Closer
}

func appFrom(cmd *cobra.Command) *app {
	if ctx := cmd.Context(); ctx != nil {
		if a, ok := ctx.Value(appKey{}).(*app); ok {
			return a
		}
	}
	return &app{cfg: config.Default(), log: zerolog.Nop()}
}

// NewRootCmd creates and returns the root cobra command for the catshuffle CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "catshuffle",
		Short: "catshuffle - flatten category folders, shuffle file names and randomize timestamps",
		Long: `catshuffle flattens every file nested under a category directory into the
category directory itself, renames the files to a shuffled zero-padded sequence
(001, 002, ...) and overwrites their modification times with random instants
inside a fixed window. Passes can run once or repeat on an interval.

Without a subcommand catshuffle asks for the paths and the operation mode
interactively. Use subcommands to perform different operations:
  - run: run passes non-interactively from flags and the config file
  - seed: generate a nested category tree to try the tool on
  - count: show how nested each category is
  - verify: check that a tree is flat, sequential and inside the window`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, closer, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logger.WithContext(ctx)
			cmd.SetContext(context.WithValue(ctx, appKey{}, &app{cfg: cfg, log: logger, closer: closer}))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Diagnostic log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write diagnostics to this rotated log file")

	groupShuffle := "shuffle"
	groupUtilities := "utilities"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupShuffle,
		Title: "Shuffle Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	runCmd := NewRunCmd()
	seedCmd := NewSeedCmd()
	countCmd := NewCountCmd()
	verifyCmd := NewVerifyCmd()
	versionCmd := NewVersionCmd()

	runCmd.GroupID = groupShuffle
	seedCmd.GroupID = groupUtilities
	countCmd.GroupID = groupUtilities
	verifyCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)

	closeLogAfter(rootCmd)
	for _, c := range rootCmd.Commands() {
		closeLogAfter(c)
	}

	return rootCmd
}

// closeLogAfter closes the log file once cmd has run. Post-run hooks are
// skipped when a command fails, so the close is deferred around the run
// function itself.
func closeLogAfter(cmd *cobra.Command) {
	closeLog := func(cmd *cobra.Command) {
		if a := appFrom(cmd); a.closer != nil {
			a.closer.Close()
		}
	}
	switch {
	case cmd.RunE != nil:
		runE := cmd.RunE
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			defer closeLog(cmd)
			return runE(cmd, args)
		}
	case cmd.Run != nil:
		run := cmd.Run
		cmd.Run = func(cmd *cobra.Command, args []string) {
			defer closeLog(cmd)
			run(cmd, args)
		}
	}
}
