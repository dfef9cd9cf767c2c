// Package theme maps task states to glyphs and colors.
//
// Everything here is a static lookup; nothing is mutated after init.
package theme

import (
	"strings"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	PrimaryColor = lipgloss.AdaptiveColor{
		Light: "#007ACC", // Blue
		Dark:  "#3D9EFF",
	}

	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745", // Green
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545", // Red
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#FFC107", // Amber
		Dark:  "#FFD54F",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D", // Medium gray
		Dark:  "#ADB5BD",
	}

	AccentColor = lipgloss.AdaptiveColor{
		Light: "#8B5CF6", // Purple
		Dark:  "#A78BFA",
	}

	BorderColor = lipgloss.AdaptiveColor{
		Light: "#DEE2E6",
		Dark:  "#3B3C4F",
	}
)

// Styles
var (
	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Success = lipgloss.NewStyle().Foreground(SuccessColor)
	Error   = lipgloss.NewStyle().Foreground(ErrorColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
	Accent  = lipgloss.NewStyle().Foreground(AccentColor)
	Title   = lipgloss.NewStyle().Bold(true)

	// Box frames the header and footer
	Box = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)
)

// Icons
const (
	IconPending       = "○"
	IconRunning       = "◐"
	IconSuccess       = "✓"
	IconError         = "✗"
	IconSkipped       = "⊘"
	IconWarning       = "⚠"
	IconSection       = "▸"
	IconSubsection    = "•"
	IconTime          = "⏱"
	IconProgressFull  = "●"
	IconProgressEmpty = "○"
	TreeBranch        = "└─"
	Separator         = "│"
)

var stateIcons = map[tasks.State]string{
	tasks.StatePending: IconPending,
	tasks.StateRunning: IconRunning,
	tasks.StateDone:    IconSuccess,
	tasks.StateError:   IconError,
	tasks.StateSkipped: IconSkipped,
}

var stateStyles = map[tasks.State]lipgloss.Style{
	tasks.StatePending: Muted,
	tasks.StateRunning: Primary,
	tasks.StateDone:    Success,
	tasks.StateError:   Error,
	tasks.StateSkipped: Warning,
}

// Icon returns the glyph for a state
func Icon(state tasks.State) string {
	if icon, ok := stateIcons[state]; ok {
		return icon
	}
	return IconPending
}

// StyleFor returns the color style for a state
func StyleFor(state tasks.State) lipgloss.Style {
	if style, ok := stateStyles[state]; ok {
		return style
	}
	return Muted
}

// StatusIndicator is the colored glyph for a state
func StatusIndicator(state tasks.State) string {
	return StyleFor(state).Render(Icon(state))
}

// FormatTask renders "<icon> <name>" in the state's color
func FormatTask(name string, state tasks.State, withIcon bool) string {
	text := name
	if withIcon {
		text = Icon(state) + " " + name
	}
	return StyleFor(state).Render(text)
}

// ProgressBar renders width cells of filled and empty dots
func ProgressBar(percent, width int) string {
	bar := tasks.SplitBar(percent, width)
	return strings.Repeat(IconProgressFull, bar.Filled) + strings.Repeat(IconProgressEmpty, bar.Empty)
}

// FormatDuration is like tasks.FormatDuration but renders zero as ""
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return tasks.FormatDuration(d)
}

// SectionPrefix is the colored section marker
func SectionPrefix() string { return Primary.Render(IconSection) }

// SubsectionPrefix is the muted bullet
func SubsectionPrefix() string { return Muted.Render(IconSubsection) }
