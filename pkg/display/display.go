// Package display prints plain progress lines and a spinner for runs where
// the live progress view is off.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Kind selects the prefix and color of a line
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarn
	KindFail
	KindHeader
)

var prefixes = map[Kind]string{
	KindInfo:    "•",
	KindSuccess: "✓",
	KindWarn:    "⚠",
	KindFail:    "✗",
	KindHeader:  "==>",
}

var styles = map[Kind]*pterm.Style{
	KindInfo:    pterm.NewStyle(pterm.FgCyan),
	KindSuccess: pterm.NewStyle(pterm.FgGreen),
	KindWarn:    pterm.NewStyle(pterm.FgYellow),
	KindFail:    pterm.NewStyle(pterm.FgRed, pterm.Bold),
	KindHeader:  pterm.NewStyle(pterm.FgBlue, pterm.Bold),
}

// Options configures a Display
type Options struct {
	// Color forces styling on or off. Nil detects it from the output.
	Color *bool

	// Quiet is consulted before every write; output is dropped while it
	// returns true, e.g. while the live view owns the terminal.
	Quiet func() bool
}

// Display writes user-facing lines
type Display struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	tty   bool
	quiet func() bool
}

// New creates a Display writing to out, os.Stdout when nil
func New(out io.Writer, opts Options) *Display {
	if out == nil {
		out = os.Stdout
	}
	d := &Display{out: out, quiet: opts.Quiet, tty: isTerminal(out)}
	if opts.Color != nil {
		d.color = *opts.Color
	} else {
		d.color = ColorEnabled(out)
	}
	return d
}

// ColorEnabled reports whether out is a color-capable terminal honoring NO_COLOR
func ColorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isTerminal(out) {
		return false
	}
	return termenv.NewOutput(out).Profile != termenv.Ascii
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (d *Display) silenced() bool {
	return d.quiet != nil && d.quiet()
}

// Format renders a line without writing it
func (d *Display) Format(kind Kind, msg string) string {
	line := fmt.Sprintf("%s %s", prefixes[kind], msg)
	if kind == KindHeader {
		line = "\n" + line
	}
	if !d.color {
		return line
	}
	return styles[kind].Sprint(line)
}

// Print writes one line of the given kind
func (d *Display) Print(kind Kind, msg string) {
	if d == nil || d.silenced() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, d.Format(kind, msg))
}

func (d *Display) Header(msg string)  { d.Print(KindHeader, msg) }
func (d *Display) Info(msg string)    { d.Print(KindInfo, msg) }
func (d *Display) Success(msg string) { d.Print(KindSuccess, msg) }
func (d *Display) Warn(msg string)    { d.Print(KindWarn, msg) }
func (d *Display) Fail(msg string)    { d.Print(KindFail, msg) }

// Infof formats and prints an info line
func (d *Display) Infof(format string, args ...interface{}) {
	d.Info(fmt.Sprintf(format, args...))
}
