// Package warning collects and prints diagnostics raised while building
// card sheets. Warnings never abort a build; they are counted and either
// printed immediately (errors, or anything when verbose) or summarized.
package warning

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Context names the place a diagnostic originates from: typically a
// datasource filename, optionally narrowed down to a row and card.
type Context struct {
	Source    string
	RowIndex  int // 1-based CSV row; 0 when not applicable
	CardIndex int // 1-based generated card index; 0 when not applicable
	CardCopy  int // copy index for multi-count cards; 0 when not applicable
}

func (c Context) String() string {
	if c.Source == "" {
		return ""
	}
	parts := []string{c.Source}
	if c.RowIndex > 0 {
		parts = append(parts, fmt.Sprintf("row %d", c.RowIndex))
	}
	if c.CardIndex > 0 {
		if c.CardCopy > 1 {
			parts = append(parts, fmt.Sprintf("card %d copy %d", c.CardIndex, c.CardCopy))
		} else {
			parts = append(parts, fmt.Sprintf("card %d", c.CardIndex))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Display accumulates warnings and errors for one build run.
type Display struct {
	Verbose bool

	mu       sync.Mutex
	out      *os.File
	warnings int
	errors   int
	colored  bool
}

// NewDisplay returns a Display writing to stderr, with color enabled when
// stderr is an interactive terminal.
func NewDisplay(verbose bool) *Display {
	return &Display{
		Verbose: verbose,
		out:     os.Stderr,
		colored: isatty.IsTerminal(os.Stderr.Fd()),
	}
}

const (
	colorWarn  = "\033[33m"
	colorError = "\033[31m"
	colorReset = "\033[0m"
)

// Warnf records a warning. It is only printed when verbose output is on.
func (d *Display) Warnf(ctx Context, format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings++
	if !d.Verbose {
		return
	}
	d.printf(colorWarn, "warning", ctx, format, args...)
}

// Errorf records an error. Errors are always printed, but do not stop the build.
func (d *Display) Errorf(ctx Context, format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors++
	d.printf(colorError, "error", ctx, format, args...)
}

func (d *Display) printf(color, level string, ctx Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	prefix := level
	if c := ctx.String(); c != "" {
		prefix = level + " " + c
	}
	if d.colored {
		fmt.Fprintf(d.out, "%s%s:%s %s\n", color, prefix, colorReset, msg)
	} else {
		fmt.Fprintf(d.out, "%s: %s\n", prefix, msg)
	}
}

// Warnings returns the number of warnings recorded so far.
func (d *Display) Warnings() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.warnings
}

// Errors returns the number of errors recorded so far.
func (d *Display) Errors() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errors
}

// Summary describes the recorded counts, e.g. " (2 errors, 5 warnings)".
// Returns the empty string when nothing was recorded.
func (d *Display) Summary() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.errors == 0 && d.warnings == 0 {
		return ""
	}
	hint := ""
	if !d.Verbose && d.warnings > 0 {
		hint = "; use --verbose to see warnings"
	}
	return fmt.Sprintf(" (%d errors, %d warnings%s)", d.errors, d.warnings, hint)
}
