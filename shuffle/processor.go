package shuffle

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// Layout selects which part of the root is flattened.
type Layout string

const (
	// LayoutCategories flattens each allow-listed directory of the root on
	// its own and leaves everything else untouched.
	LayoutCategories Layout = "categories"
	// LayoutFlat flattens the whole root into the target directory.
	LayoutFlat Layout = "flat"
)

// DefaultCategories is the allow-list used when none is configured.
var DefaultCategories = []string{"takeoff", "land", "right", "left", "forward", "backward"}

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(s)); l {
	case LayoutCategories, LayoutFlat:
		return l, nil
	}
	return "", goerr.Wrap(ErrUnknownLayout, "invalid layout", goerr.V("layout", s))
}

// Processor runs one pass: flatten, rename, then stamp, for each unit of
// work. In the categories layout a unit is one category directory and its
// output is target/<category>, which is the category directory itself when
// target and root are the same.
type Processor struct {
	Root       string
	Target     string
	Layout     Layout
	Categories []string
	ReportPath string

	Walker   Walker
	Renamer  Renamer
	Stamper  Stamper
	Clock    Clock
	Narrator *Narrator
	Log      zerolog.Logger
}

// Pass processes the root once. Only an unusable root or target is fatal;
// every other failure is recorded in the report and the pass continues. The
// report's Err is returned when there were failures.
func (p *Processor) Pass(ctx context.Context) (Report, error) {
	target := p.Target
	if target == "" {
		target = p.Root
	}
	rep := newReport(p.Root, target, p.now())
	log := p.Log.With().Str("run_id", rep.RunID).Logger()

	p.Narrator.Printf("\nNew run starting\n")
	p.Narrator.Printf("Processing directory: %q\n", p.Root)

	if err := os.MkdirAll(target, 0o755); err != nil {
		return rep, goerr.Wrap(err, "failed to create target directory", goerr.V("path", target))
	}

	switch p.Layout {
	case LayoutFlat:
		rep.Categories = append(rep.Categories, filepath.Base(target))
		p.unit(&rep, p.Root, target)
	default:
		if err := p.categories(ctx, &rep, target, log); err != nil {
			return rep, err
		}
	}

	rep.FinishedAt = p.now()
	p.Narrator.Printf("Completed run\n")
	p.Narrator.Printf("%s", rep.Summary())
	log.Info().
		Int("moved", rep.Moved).
		Int("renamed", rep.Renamed).
		Int("failures", len(rep.Failures)).
		Dur("duration", rep.Duration()).
		Msg("pass finished")

	if p.ReportPath != "" {
		if err := rep.Save(p.ReportPath); err != nil {
			log.Warn().Err(err).Str("path", p.ReportPath).Msg("failed to write report")
		}
	}
	return rep, rep.Err()
}

func (p *Processor) categories(ctx context.Context, rep *Report, target string, log zerolog.Logger) error {
	p.Narrator.Printf("Processing directories...\n")
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return goerr.Wrap(err, "failed to read root directory", goerr.V("path", p.Root))
	}
	allowed := p.Categories
	if len(allowed) == 0 {
		allowed = DefaultCategories
	}

	for _, e := range entries {
		path := filepath.Join(p.Root, e.Name())
		if !e.IsDir() {
			p.Narrator.Printf("File: %q\n", path)
			continue
		}
		if !slices.Contains(allowed, e.Name()) {
			log.Debug().Str("path", path).Msg("skipping directory outside the category list")
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		p.Narrator.Category(e.Name())
		rep.Categories = append(rep.Categories, e.Name())
		dst := path
		if !samePath(p.Root, target) {
			dst = filepath.Join(target, e.Name())
		}
		p.unit(rep, path, dst)
	}
	return nil
}

// unit flattens src into dst, renames dst's files and stamps each of them.
// Relocation always completes before renaming starts.
func (p *Processor) unit(rep *Report, src, dst string) {
	walker, renamer := p.Walker, p.Renamer
	if p.ReportPath != "" {
		// the previous report is not data
		report := ReportFile(p.ReportPath)
		walker.Exclude = append(slices.Clip(walker.Exclude), report)
		renamer.Exclude = append(slices.Clip(renamer.Exclude), report)
	}

	res, err := walker.Flatten(src, dst)
	rep.Moved += len(res.Moved)
	rep.RemovedDirs += res.Removed
	rep.addErr(err)

	if _, err := os.Stat(dst); os.IsNotExist(err) {
		return
	}
	renamed, err := renamer.Rename(dst)
	rep.Renamed += len(renamed)
	rep.addErr(err)

	for _, path := range renamed {
		if _, err := p.Stamper.Stamp(path); err != nil {
			rep.addErr(err)
			continue
		}
		rep.Stamped++
	}
}

func (p *Processor) now() time.Time {
	if p.Clock == nil {
		return SystemClock{}.Now()
	}
	return p.Clock.Now()
}
