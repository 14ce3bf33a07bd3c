package shuffle

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/taigrr/colorhash"
)

var categoryPalette = []color.Attribute{
	color.FgRed,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgCyan,
}

// Narrator writes the human-readable run record: a before and after view of
// every file a pass touches. A nil *Narrator discards everything.
type Narrator struct {
	out     io.Writer
	verbose bool
	label   *color.Color
}

// NewNarrator writes to out. When verbose is false per-file details are
// suppressed and only headers and summaries are written.
func NewNarrator(out io.Writer, verbose bool) *Narrator {
	return &Narrator{
		out:     out,
		verbose: verbose,
		label:   color.New(color.Bold),
	}
}

// Printf writes a plain narration line.
func (n *Narrator) Printf(format string, args ...any) {
	if n == nil {
		return
	}
	fmt.Fprintf(n.out, format, args...)
}

// Category announces the category being processed. Each name keeps the same
// color across runs.
func (n *Narrator) Category(name string) {
	if n == nil {
		return
	}
	fmt.Fprintf(n.out, "\nProcessing category: %s\n", CategoryColor(name).Sprint(name))
}

// Details prints the created and modified times of path under label. Stat
// failures are narrated instead of returned.
func (n *Narrator) Details(path, label string) {
	if n == nil || !n.verbose {
		return
	}
	d, err := ReadDetails(path)
	if err != nil {
		fmt.Fprintf(n.out, "Error displaying file details: %v\n", err)
		return
	}
	fmt.Fprintf(n.out, "[%s] File: %q\n    Created: %s\n    Modified: %s\n",
		n.label.Sprint(label), d.Path, d.CreatedString(), d.ModifiedString())
}

// CategoryColor maps a category name to a stable terminal color.
func CategoryColor(name string) *color.Color {
	h := colorhash.HashString(name)
	if h < 0 {
		h = -h
	}
	return color.New(categoryPalette[h%len(categoryPalette)], color.Bold)
}
