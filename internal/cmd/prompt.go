package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/dendrascience/catshuffle/internal/config"
	"github.com/dendrascience/catshuffle/version"
)

var errInvalidChoice = errors.New("invalid menu choice")

// selection is what the interactive menus resolve to.
type selection struct {
	Paths    config.Paths
	Interval time.Duration
	Forever  bool
}

var operationModes = []struct {
	label    string
	interval time.Duration
	forever  bool
}{
	{label: "Manual shuffle", interval: time.Second},
	{label: "Run every 30 seconds", interval: 30 * time.Second, forever: true},
	{label: "Run once a week", interval: 7 * 24 * time.Hour, forever: true},
}

func runInteractive(cmd *cobra.Command) error {
	a := appFrom(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "catshuffle %s\n", version.GetFullVersion())
	sel, err := promptSelection(cmd.InOrStdin(), out, a.cfg.Presets)
	if err != nil {
		fmt.Fprintf(out, "Not a correct input: %v\n", err)
		return err
	}

	cfg := a.cfg.WithPaths(sel.Paths)
	cfg.Schedule.Interval = sel.Interval
	cfg.Schedule.Forever = sel.Forever
	cfg.Schedule.Repeat = 1
	return execute(cmd.Context(), cfg, a.log, out, shuffleClock)
}

// promptSelection asks for the path configuration and the operation mode.
// Any input outside the offered choices is an error and nothing is run.
func promptSelection(in io.Reader, out io.Writer, presets config.PresetsConfig) (selection, error) {
	var sel selection
	r := bufio.NewReader(in)

	fmt.Fprintln(out, "Select path configuration:")
	fmt.Fprintf(out, "1. Use default paths (%s)\n", presets.A.Root)
	fmt.Fprintf(out, "2. Use alternate paths (%s)\n", presets.B.Root)
	fmt.Fprintln(out, "3. Enter custom paths")

	choice, err := readChoice(r, 3)
	if err != nil {
		return sel, err
	}
	switch choice {
	case 1:
		sel.Paths = presets.A
	case 2:
		sel.Paths = presets.B
	case 3:
		fmt.Fprintln(out, "Enter main directory path:")
		root, err := readLine(r)
		if err != nil {
			return sel, err
		}
		if root == "" {
			return sel, goerr.New("main directory must not be empty")
		}
		fmt.Fprintln(out, "Enter target directory path (or press enter to use same as main):")
		target, err := readLine(r)
		if err != nil {
			return sel, err
		}
		sel.Paths = config.Paths{Root: root, Target: target}
	}
	if sel.Paths.Target == "" {
		sel.Paths.Target = sel.Paths.Root
	}

	fmt.Fprintln(out, "\nSelected paths:")
	fmt.Fprintf(out, "Main directory: %q\n", sel.Paths.Root)
	fmt.Fprintf(out, "Target directory: %q\n", sel.Paths.Target)

	fmt.Fprintln(out, "\nSelect operation mode:")
	for i, m := range operationModes {
		fmt.Fprintf(out, "%d. %s\n", i+1, m.label)
	}
	choice, err = readChoice(r, len(operationModes))
	if err != nil {
		return sel, err
	}
	mode := operationModes[choice-1]
	sel.Interval = mode.interval
	sel.Forever = mode.forever
	return sel, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", goerr.Wrap(err, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

func readChoice(r *bufio.Reader, n int) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		return 0, goerr.Wrap(errInvalidChoice, "input is not a number", goerr.V("input", line))
	}
	if v < 1 || v > n {
		return 0, goerr.Wrap(errInvalidChoice, "choice out of range", goerr.V("input", line), goerr.V("max", n))
	}
	return v, nil
}
