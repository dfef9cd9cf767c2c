// Package components renders the pieces of a progress frame.
//
// Every function here is a pure function of a tasks.Snapshot and a width:
// nothing is cached between frames and nothing touches shared state, so the
// render goroutine can call them without holding the tree lock.
package components

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/arthur-debert/bootstrap/pkg/tui/theme"
	"github.com/charmbracelet/x/ansi"
)

// HeaderBarWidth is the number of cells in the header progress bar
const HeaderBarWidth = 20

// boxChrome is the horizontal space taken by the border and padding of theme.Box
const boxChrome = 4

// Header renders the boxed title, progress bar and counters
func Header(snap tasks.Snapshot, width int) string {
	tracker := tasks.NewTracker(snap)
	inner := innerWidth(width)

	pct := tracker.PercentComplete()
	right := fmt.Sprintf("%d%% %s", pct, ProgressBar(pct, HeaderBarWidth))
	left := theme.Title.Render(snap.Title())
	line1 := left + strings.Repeat(" ", max(inner-ansi.StringWidth(left)-ansi.StringWidth(right), 1)) + right

	sep := "  " + theme.Muted.Render(theme.Separator) + "  "
	parts := []string{
		fmt.Sprintf("%s  %s", theme.IconTime, tasks.FormatDuration(tracker.Elapsed())),
		fmt.Sprintf("%d/%d complete", tracker.CompletedTasks(), tracker.TotalTasks()),
		fmt.Sprintf("%d remaining", tracker.RemainingTasks()),
		"ETA " + tasks.FormatEstimatedRemaining(tracker.EstimatedRemaining()),
	}
	if snap.ErrorCount > 0 {
		parts = append(parts, theme.Error.Render(fmt.Sprintf("%s %d failed", theme.IconWarning, snap.ErrorCount)))
	}
	line2 := ansi.Truncate(strings.Join(parts, sep), inner, "…")

	return box(line1+"\n"+line2, width)
}

// ProgressBar renders a colored bar of width cells
func ProgressBar(percent, width int) string {
	return theme.Primary.Render(theme.ProgressBar(percent, width))
}

func innerWidth(width int) int {
	return max(width-boxChrome, 1)
}

func box(content string, width int) string {
	// lipgloss widths exclude the border
	return theme.Box.Width(max(width-2, 1)).Render(content)
}
