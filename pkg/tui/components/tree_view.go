package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/arthur-debert/bootstrap/pkg/tui/theme"
	"github.com/charmbracelet/x/ansi"
)

// statusColumnMargin keeps section status glyphs this far from the right edge
const statusColumnMargin = 5

// TreeView renders the top-level sections, capped at maxLines lines.
//
// A running section lists its children; a finished section collapses to a
// one-line summary so history does not grow the frame. Sections beyond the
// cap are not shown.
func TreeView(snap tasks.Snapshot, maxLines, width int) string {
	sections := snap.Sections()
	if len(sections) == 0 {
		return theme.Muted.Render("   Initializing...")
	}

	var lines []string
	for _, section := range sections {
		lines = append(lines, sectionLine(section, width))

		switch {
		case section.State == tasks.StateRunning:
			if section.IsLeaf() {
				lines = append(lines, theme.Muted.Render("   "+theme.TreeBranch+" Starting..."))
			}
			for _, child := range section.Children {
				lines = append(lines, taskLine(child, 1, width))
				for _, sub := range child.Children {
					lines = append(lines, subtaskLine(sub, width))
				}
			}
		case section.State.IsTerminal():
			if total := len(section.Children); total > 0 {
				summary := fmt.Sprintf("%s %d/%d items completed", theme.TreeBranch, section.CountChildren(tasks.StateDone), total)
				lines = append(lines, "   "+theme.Muted.Render(summary))
			}
		}

		if len(lines) >= maxLines {
			break
		}
	}

	lines = append(lines, "")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

func sectionLine(section tasks.TaskView, width int) string {
	line := fmt.Sprintf(" %s %s", theme.SectionPrefix(), section.Name)
	status := theme.StatusIndicator(section.State)

	column := max(width-statusColumnMargin, 1)
	line = ansi.Truncate(line, column-1, "…")
	padding := max(column-ansi.StringWidth(line), 1)
	return line + strings.Repeat(" ", padding) + status
}

func taskLine(task tasks.TaskView, indent, width int) string {
	line := strings.Repeat("   ", indent) + " " + theme.FormatTask(task.Name, task.State, true)

	switch {
	case task.State == tasks.StateError && task.ErrorMessage != "":
		line += theme.Error.Render(fmt.Sprintf(" (%s)", task.ErrorMessage))
	case task.State == tasks.StateRunning && task.Message != "":
		line += theme.Muted.Render(" · " + task.Message)
	case task.State == tasks.StateDone:
		if d := taskDuration(task); d != "" {
			line += " " + theme.Accent.Render(d)
		}
	}

	return ansi.Truncate(line, width, "…")
}

// subtaskLine renders a nested step, such as a hook, under its task
func subtaskLine(task tasks.TaskView, width int) string {
	line := fmt.Sprintf("%s %s %s", strings.Repeat("   ", 2), theme.SubsectionPrefix(), theme.FormatTask(task.Name, task.State, false))
	if task.State == tasks.StateError && task.ErrorMessage != "" {
		line += theme.Error.Render(fmt.Sprintf(" (%s)", task.ErrorMessage))
	}
	return ansi.Truncate(line, width, "…")
}

// taskDuration is the whole-second run time of a finished task, "" under a second
func taskDuration(task tasks.TaskView) string {
	if task.StartedAt.IsZero() || task.CompletedAt.IsZero() {
		return ""
	}
	return theme.FormatDuration(task.CompletedAt.Sub(task.StartedAt).Truncate(time.Second))
}
