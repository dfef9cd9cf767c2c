package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/bootstrap/pkg/cobrax/topics"
	"github.com/arthur-debert/bootstrap/pkg/tasks"
)

// summaryWidth matches the progress view's maximum width
const summaryWidth = 80

// summaryMarkdown tabulates every section of the final snapshot
func summaryMarkdown(snap tasks.Snapshot) string {
	var b strings.Builder
	b.WriteString("## Summary\n\n")

	if sections := snap.Sections(); len(sections) > 0 {
		b.WriteString("| Section | Status | Done | Failed | Skipped |\n")
		b.WriteString("|---|---|---:|---:|---:|\n")
		for _, s := range sections {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d |\n",
				strings.ReplaceAll(s.Name, "|", `\|`),
				s.State,
				s.CountChildren(tasks.StateDone),
				s.CountChildren(tasks.StateError),
				s.CountChildren(tasks.StateSkipped),
			)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**%d succeeded, %d failed, %d skipped** in %s\n",
		snap.SuccessCount, snap.ErrorCount, snap.SkipCount,
		tasks.FormatDuration(snap.Elapsed()))
	return b.String()
}

func renderSummary(w io.Writer, snap tasks.Snapshot) {
	fmt.Fprint(w, topics.NewGlamourRenderer(summaryWidth).Render(summaryMarkdown(snap), ".md"))
}
