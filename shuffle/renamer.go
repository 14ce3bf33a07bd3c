package shuffle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// ExtPolicy decides the extension of a renamed file.
type ExtPolicy string

const (
	// ExtFixed discards the original extension and uses Renamer.Extension.
	ExtFixed ExtPolicy = "fixed"
	// ExtPreserve keeps the original extension.
	ExtPreserve ExtPolicy = "preserve"

	// DefaultExtension is the fixed extension applied when none is configured.
	DefaultExtension = ".csv"

	// MinSequenceWidth is the minimum number of digits in a sequence name.
	MinSequenceWidth = 3

	stagingPrefix = ".catshuffle-"
)

// ParseExtPolicy validates a policy name.
func ParseExtPolicy(s string) (ExtPolicy, error) {
	switch p := ExtPolicy(strings.ToLower(s)); p {
	case ExtFixed, ExtPreserve:
		return p, nil
	}
	return "", goerr.Wrap(ErrUnknownExtPolicy, "invalid extension policy", goerr.V("policy", s))
}

// Renamer relabels the files of a single directory with a shuffled,
// zero-padded sequence. Files listed in Exclude keep their names.
type Renamer struct {
	Exclude   []string
	Rand      Rand
	Policy    ExtPolicy
	Extension string
	Log       zerolog.Logger
	Narrator  *Narrator
}

// SequenceWidth returns the digit count used for n files.
func SequenceWidth(n int) int {
	return max(MinSequenceWidth, len(strconv.Itoa(n)))
}

// SequenceName returns the new base name of the file at original when it is
// assigned sequence number seq.
func (r Renamer) SequenceName(seq, width int, original string) string {
	return fmt.Sprintf("%0*d", width, seq) + r.extension(original)
}

func (r Renamer) extension(original string) string {
	if r.Policy == ExtPreserve {
		return filepath.Ext(original)
	}
	ext := r.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Rename shuffles the direct regular-file children of dir and renames them to
// 001, 002, ... in permutation order. Files are first moved into a staging
// directory under their new names and then moved back, so a file that
// already carries a sequence name is never overwritten by another.
//
// A failure on one file does not stop the others. Failures are joined into
// the returned error; the returned paths are the files that ended up with a
// sequence name. A file that could not be moved back stays in the staging
// directory, which the next flatten drains.
func (r Renamer) Rename(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read directory", goerr.V("path", dir))
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.Type().IsRegular() && !excluded(path, r.Exclude) {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil, nil
	}

	r.Rand.Shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})

	staging := filepath.Join(dir, stagingPrefix+uuid.NewString())
	if err := os.Mkdir(staging, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create staging directory", goerr.V("path", staging))
	}

	var (
		errs   []error
		staged []string
		width  = SequenceWidth(len(files))
	)
	for i, path := range files {
		name := r.SequenceName(i+1, width, path)
		r.Narrator.Details(path, "Before Rename")
		if err := os.Rename(path, filepath.Join(staging, name)); err != nil {
			r.Log.Error().Err(err).Str("path", path).Str("name", name).Msg("failed to rename file")
			errs = append(errs, goerr.Wrap(err, "failed to rename file", goerr.V("path", path), goerr.V("name", name)))
			continue
		}
		staged = append(staged, name)
	}

	var renamed []string
	for _, name := range staged {
		from := filepath.Join(staging, name)
		to := filepath.Join(dir, name)
		// a file that failed to stage may still hold this name
		if _, err := os.Lstat(to); err == nil {
			errs = append(errs, goerr.New("sequence name already taken", goerr.V("path", to), goerr.V("staged", from)))
			continue
		}
		if err := os.Rename(from, to); err != nil {
			r.Log.Error().Err(err).Str("from", from).Str("to", to).Msg("failed to move staged file back")
			errs = append(errs, goerr.Wrap(err, "failed to move staged file back", goerr.V("from", from), goerr.V("to", to)))
			continue
		}
		r.Narrator.Details(to, "After Rename")
		renamed = append(renamed, to)
	}

	if err := os.Remove(staging); err != nil {
		r.Log.Warn().Err(err).Str("path", staging).Msg("failed to remove staging directory")
		errs = append(errs, goerr.Wrap(err, "failed to remove staging directory", goerr.V("path", staging)))
	}
	return renamed, errors.Join(errs...)
}
