package components

import (
	"strings"

	"github.com/arthur-debert/bootstrap/pkg/tui/theme"
)

// Footer renders the boxed help line. An empty logPath drops the log hint.
func Footer(logPath string, width int) string {
	var parts []string
	if logPath != "" {
		parts = append(parts, "Log: "+logPath)
	}
	parts = append(parts, "Press Ctrl+C to cancel")

	content := strings.Join(parts, "  "+theme.Muted.Render(theme.Separator)+"  ")
	return box(theme.Muted.Render(content), width)
}

// Frame joins rendered components with a blank line between each
func Frame(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// LineCount is the number of terminal lines a frame occupies
func LineCount(frame string) int {
	if frame == "" {
		return 0
	}
	return strings.Count(frame, "\n") + 1
}
