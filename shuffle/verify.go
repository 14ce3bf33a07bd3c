package shuffle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// VerifyOptions configures Verify. A zero Lo and Hi skips the timestamp check.
// Files listed in Exclude are ignored.
type VerifyOptions struct {
	Exclude   []string
	Policy    ExtPolicy
	Extension string
	Lo, Hi    time.Time
}

// Verify checks that dir is in the state a pass leaves behind: no
// subdirectories, file names forming the gapless sequence 1..N with the
// expected width and extension, and modification times inside [Lo, Hi].
// It returns one message per problem found.
func Verify(dir string, opts VerifyOptions) []string {
	var problems []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{fmt.Sprintf("Failed to read directory: %v", err)}
	}

	r := Renamer{Policy: opts.Policy, Extension: opts.Extension}
	var files []os.DirEntry
	for _, e := range entries {
		switch {
		case e.IsDir():
			problems = append(problems, fmt.Sprintf("Nested directory remains: %s", e.Name()))
		case e.Type().IsRegular() && !excluded(filepath.Join(dir, e.Name()), opts.Exclude):
			files = append(files, e)
		}
	}

	width := SequenceWidth(len(files))
	seen := make(map[int]bool, len(files))
	for _, f := range files {
		name := f.Name()
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		if opts.Policy != ExtPreserve && ext != r.extension(name) {
			problems = append(problems, fmt.Sprintf("Unexpected extension: %s", name))
		}
		seq, err := strconv.Atoi(stem)
		if err != nil || len(stem) != width || seq < 1 || seq > len(files) {
			problems = append(problems, fmt.Sprintf("Not a sequence name: %s", name))
			continue
		}
		if seen[seq] {
			problems = append(problems, fmt.Sprintf("Duplicate sequence number: %s", name))
		}
		seen[seq] = true

		if opts.Lo.IsZero() && opts.Hi.IsZero() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			problems = append(problems, fmt.Sprintf("Failed to stat %s: %v", name, err))
			continue
		}
		if mt := info.ModTime(); mt.Before(opts.Lo) || mt.After(opts.Hi) {
			problems = append(problems, fmt.Sprintf("Timestamp of %s outside window: %s", name, mt.Format(time.RFC3339)))
		}
	}

	for i := 1; i <= len(files); i++ {
		if !seen[i] {
			problems = append(problems, fmt.Sprintf("Missing sequence number: %0*d", width, i))
		}
	}
	return problems
}
