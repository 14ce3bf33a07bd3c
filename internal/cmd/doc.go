// Package cmd provides the command-line interface implementation for catshuffle.
//
// It uses the Cobra library for command structure and Fang for styling. The
// package is organized into the following commands:
//   - root: with no subcommand, runs the interactive path and mode menus
//   - run: non-interactive pass driven by flags and the config file
//   - seed: generates a nested category tree for trying the tool out
//   - count: reports how nested each category currently is
//   - verify: checks the state a pass is expected to leave behind
//   - version: prints build metadata
//
// Each command is implemented in its own file with a constructor returning
// a *cobra.Command. Configuration is resolved once per invocation by the
// root command and handed to subcommands through the command context.
package cmd
