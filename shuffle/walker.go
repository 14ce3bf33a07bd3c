package shuffle

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

type (
	// FileEntry is a regular file found by Collect.
	FileEntry struct {
		Path string
		Size int64
		Mode fs.FileMode
	}

	// Plan is the outcome of the collect phase. Dirs is in post-order, so
	// every directory appears before its parent.
	Plan struct {
		Source  string
		Dest    string
		Files   []FileEntry
		Dirs    []string
		Skipped []error
	}

	// FlattenResult reports what Flatten changed on disk.
	FlattenResult struct {
		Moved   []string
		Removed int
	}
)

// Walker moves every file nested under a source directory up into a
// destination directory and removes the drained directories. Nothing is
// mutated until the whole tree has been collected.
// Files listed in Exclude are never collected and the directories holding
// them are kept.
type Walker struct {
	Exclude  []string
	Log      zerolog.Logger
	Narrator *Narrator
}

// Flatten runs Collect, Relocate and Prune. Only a failure to collect the
// source itself stops it early; per-file and per-directory failures are
// joined into the returned error after all work is done.
func (w Walker) Flatten(src, dst string) (FlattenResult, error) {
	var res FlattenResult
	w.Narrator.Printf("Processing subdirectories...\n")
	plan, err := w.Collect(src, dst)
	if err != nil {
		return res, err
	}
	moved, moveErr := w.Relocate(plan)
	res.Moved = moved
	removed, pruneErr := w.Prune(plan)
	res.Removed = removed
	return res, errors.Join(errors.Join(plan.Skipped...), moveErr, pruneErr)
}

// Collect walks src depth-first and records every regular file and every
// directory below it. Files sitting directly in src are only collected when
// dst is a different directory. dst is never descended into when it lives
// inside src, and its ancestors are not scheduled for removal.
func (w Walker) Collect(src, dst string) (Plan, error) {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)
	plan := Plan{Source: src, Dest: dst}

	info, err := os.Stat(src)
	if err != nil {
		return plan, goerr.Wrap(err, "failed to stat source directory", goerr.V("path", src))
	}
	if !info.IsDir() {
		return plan, goerr.Wrap(ErrExpectedDirectory, "source is not a directory", goerr.V("path", src))
	}
	includeTop := !samePath(src, dst)

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == src {
				return err
			}
			plan.Skipped = append(plan.Skipped, goerr.Wrap(err, "failed to read directory", goerr.V("path", path)))
			w.Log.Warn().Err(err).Str("path", path).Msg("skipping unreadable subtree")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == src {
			return nil
		}

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			w.Log.Info().Err(ErrUnexpectedSymlink).Str("path", path).Msg("skipping symlink")
		case d.IsDir():
			if samePath(path, dst) {
				return filepath.SkipDir
			}
			if !isWithin(dst, path) && !w.holdsExcluded(path) {
				plan.Dirs = append(plan.Dirs, path)
			}
		case d.Type().IsRegular():
			if !includeTop && filepath.Dir(path) == src {
				return nil
			}
			if excluded(path, w.Exclude) {
				w.Log.Debug().Str("path", path).Msg("skipping excluded file")
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				plan.Skipped = append(plan.Skipped, goerr.Wrap(err, "failed to stat file", goerr.V("path", path)))
				return nil
			}
			plan.Files = append(plan.Files, FileEntry{Path: path, Size: fi.Size(), Mode: fi.Mode()})
		default:
			w.Log.Debug().Str("path", path).Str("mode", d.Type().String()).Msg("skipping irregular file")
		}
		return nil
	})
	if err != nil {
		return plan, goerr.Wrap(err, "failed to walk source directory", goerr.V("path", src))
	}

	slices.Reverse(plan.Dirs)
	return plan, nil
}

// Relocate moves every collected file to plan.Dest under its base name. A
// file already present at the destination is overwritten.
func (w Walker) Relocate(plan Plan) ([]string, error) {
	if len(plan.Files) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(plan.Dest, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create destination directory", goerr.V("path", plan.Dest))
	}

	var (
		moved []string
		errs  []error
	)
	for _, f := range plan.Files {
		target := filepath.Join(plan.Dest, filepath.Base(f.Path))
		w.Narrator.Details(f.Path, "Before Move")

		if _, err := os.Lstat(target); err == nil {
			w.Log.Warn().Str("from", f.Path).Str("to", target).Msg("destination exists, overwriting")
		}
		if err := os.Rename(f.Path, target); err != nil {
			w.Log.Error().Err(err).Str("from", f.Path).Str("to", target).Msg("failed to move file")
			errs = append(errs, goerr.Wrap(err, "failed to move file", goerr.V("from", f.Path), goerr.V("to", target)))
			continue
		}

		w.Narrator.Details(target, "After Move")
		moved = append(moved, target)
	}
	return moved, errors.Join(errs...)
}

// Prune removes the collected directories deepest first. A directory that
// is not empty, for instance because one of its files failed to move, is
// left in place and reported.
func (w Walker) Prune(plan Plan) (int, error) {
	var (
		removed int
		errs    []error
	)
	for _, dir := range plan.Dirs {
		if err := os.Remove(dir); err != nil {
			w.Log.Warn().Err(err).Str("path", dir).Msg("failed to remove directory")
			errs = append(errs, goerr.Wrap(err, "failed to remove directory", goerr.V("path", dir)))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// absPath resolves p against the working directory, falling back to the
// cleaned path when that fails.
func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func samePath(a, b string) bool {
	return absPath(a) == absPath(b)
}

func excluded(path string, list []string) bool {
	for _, p := range list {
		if p != "" && samePath(path, p) {
			return true
		}
	}
	return false
}

func (w Walker) holdsExcluded(dir string) bool {
	for _, p := range w.Exclude {
		if p != "" && isWithin(p, dir) {
			return true
		}
	}
	return false
}

// isWithin reports whether path is strictly inside dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(absPath(dir), absPath(path))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
