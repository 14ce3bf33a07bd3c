package shuffle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dendrascience/catshuffle/version"
	"github.com/google/uuid"
)

// Report is the record of a single pass. It lives only as long as the pass
// unless it is saved; saving overwrites the previous record.
type Report struct {
	RunID       string    `json:"run_id"`
	Version     string    `json:"version"`
	Root        string    `json:"root"`
	Target      string    `json:"target"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Categories  []string  `json:"categories"`
	Moved       int       `json:"moved"`
	Renamed     int       `json:"renamed"`
	Stamped     int       `json:"stamped"`
	RemovedDirs int       `json:"removed_dirs"`
	Failures    []string  `json:"failures,omitempty"`

	errs []error
}

func newReport(root, target string, started time.Time) Report {
	return Report{
		RunID:     uuid.NewString(),
		Version:   version.GetVersion(),
		Root:      root,
		Target:    target,
		StartedAt: started,
	}
}

// addErr records err, splitting joined errors into one failure each.
func (r *Report) addErr(err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			r.addErr(e)
		}
		return
	}
	r.errs = append(r.errs, err)
	r.Failures = append(r.Failures, err.Error())
}

// Err returns nil for a clean pass, otherwise an error wrapping
// ErrPassFailures and every recorded failure.
func (r Report) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w (%d): %w", ErrPassFailures, len(r.errs), errors.Join(r.errs...))
}

// Duration is the wall time of the pass.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders the report for the console.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s summary:\n", r.RunID)
	fmt.Fprintf(&b, "  Categories: %s\n", strings.Join(r.Categories, ", "))
	fmt.Fprintf(&b, "  Files moved: %d\n", r.Moved)
	fmt.Fprintf(&b, "  Files renamed: %d\n", r.Renamed)
	fmt.Fprintf(&b, "  Timestamps changed: %d\n", r.Stamped)
	fmt.Fprintf(&b, "  Directories removed: %d\n", r.RemovedDirs)
	fmt.Fprintf(&b, "  Failures: %d\n", len(r.Failures))
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "    - %s\n", f)
	}
	return b.String()
}

// Save writes the report as JSON to ReportFile(path).
func (r Report) Save(path string) error {
	return WriteJSONFile(ReportFile(path), r)
}

// ReportFile resolves a report path: an existing directory gets report.json
// appended.
func ReportFile(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, "report.json")
	}
	return path
}

// WriteJSONFile writes any value as JSON to the specified file path.
// It creates the file and encodes the value using the standard JSON encoder.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
