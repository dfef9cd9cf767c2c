package theme_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/arthur-debert/bootstrap/pkg/tui/theme"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		state tasks.State
		want  string
	}{
		{tasks.StatePending, theme.IconPending},
		{tasks.StateRunning, theme.IconRunning},
		{tasks.StateDone, theme.IconSuccess},
		{tasks.StateError, theme.IconError},
		{tasks.StateSkipped, theme.IconSkipped},
		{tasks.State(99), theme.IconPending},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, theme.Icon(tt.state))
			assert.Equal(t, tt.want, ansi.Strip(theme.StatusIndicator(tt.state)))
		})
	}
}

func TestFormatTask(t *testing.T) {
	assert.Equal(t, "✓ git", ansi.Strip(theme.FormatTask("git", tasks.StateDone, true)))
	assert.Equal(t, "git", ansi.Strip(theme.FormatTask("git", tasks.StateDone, false)))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "●●○○", theme.ProgressBar(50, 4))
	assert.Equal(t, "○○○○", theme.ProgressBar(0, 4))
	assert.Equal(t, "●●●●", theme.ProgressBar(100, 4))
	assert.Equal(t, "", theme.ProgressBar(100, 0))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "", theme.FormatDuration(0))
	assert.Equal(t, "5s", theme.FormatDuration(5*time.Second))
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, theme.IconSection, ansi.Strip(theme.SectionPrefix()))
	assert.Equal(t, theme.IconSubsection, ansi.Strip(theme.SubsectionPrefix()))
}
