package tui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Environment switches for the live view
const (
	EnvToggle = "BOOTSTRAP_TUI"
	EnvCI     = "CI"
)

// Enabled reports whether the live view should draw to out. The toggle comes
// from config; BOOTSTRAP_TUI=false and CI=true turn it off regardless, and a
// non-terminal out never gets it.
func Enabled(out io.Writer, toggle bool) bool {
	if !toggle {
		return false
	}
	if os.Getenv(EnvToggle) == "false" || os.Getenv(EnvCI) == "true" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
