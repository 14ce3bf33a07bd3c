// Package shuffle flattens category directories, relabels their files and
// randomizes modification times.
//
// A pass over a root directory runs three stages for every category
// directory it processes:
//
// Flattening:
//   - Walker.Collect gathers every regular file and directory below a source
//   - Walker.Relocate moves the collected files into the destination directory
//   - Walker.Prune removes the drained directories, deepest first
//
// Renaming:
//   - Renamer shuffles the direct file children of a directory and renames
//     them to a zero-padded sequence (001, 002, ...)
//   - Files are staged in a hidden directory so existing sequence names never
//     collide mid-pass
//
// Timestamps:
//   - Stamper sets each file's modification time to a uniform random instant
//     inside a window anchored at a fixed epoch or at the current time
//
// Scheduler repeats a pass once, a fixed number of times, or until its
// context is cancelled, sleeping for a fixed interval between passes.
//
// Randomness and time are injected through the Rand and Clock interfaces so
// that tests can seed the shuffle and fake the sleep. All filesystem work is
// sequential; running two processes against the same root is unsupported.
package shuffle
