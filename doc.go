// Package main provides the catshuffle command-line interface.
//
// catshuffle flattens files nested under category directories into the
// category directory itself, renames them to a shuffled zero-padded sequence
// and randomizes their modification times inside a fixed window, once or on
// a repeating interval.
//
// The main binary supports multiple subcommands:
//   - (none): interactive path and mode menus
//   - run: non-interactive passes from flags and the config file
//   - seed: generate a nested category tree
//   - count: count direct and nested files per category
//   - verify: check the post-run state of a tree
//   - version: print build metadata
package main
