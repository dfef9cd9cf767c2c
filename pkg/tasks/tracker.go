package tasks

import (
	"math"
	"time"
)

// Tracker derives rate and ETA metrics from a snapshot
type Tracker struct {
	snap Snapshot
}

// NewTracker wraps a snapshot
func NewTracker(snap Snapshot) Tracker {
	return Tracker{snap: snap}
}

func (t Tracker) TotalTasks() int      { return t.snap.TotalTasks() }
func (t Tracker) CompletedTasks() int  { return t.snap.CompletedTasks() }
func (t Tracker) RemainingTasks() int  { return t.TotalTasks() - t.CompletedTasks() }
func (t Tracker) PercentComplete() int { return t.snap.PercentComplete() }
func (t Tracker) Elapsed() time.Duration {
	return t.snap.Elapsed()
}

// EstimatedRemaining extrapolates the average time per completed task.
// It is nil until at least one task completed.
func (t Tracker) EstimatedRemaining() *time.Duration {
	completed := t.CompletedTasks()
	if completed == 0 {
		return nil
	}
	perTask := t.Elapsed() / time.Duration(completed)
	eta := perTask * time.Duration(t.RemainingTasks())
	return &eta
}

// TasksPerSecond is the completion rate so far
func (t Tracker) TasksPerSecond() float64 {
	secs := t.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(t.CompletedTasks()) / secs
}

// BarData is the split of a progress bar into filled and empty cells
type BarData struct {
	Filled  int
	Empty   int
	Percent int
}

// ProgressBarData splits width cells according to the percent complete
func (t Tracker) ProgressBarData(width int) BarData {
	return SplitBar(t.PercentComplete(), width)
}

// SplitBar splits width cells for percent
func SplitBar(percent, width int) BarData {
	if width < 0 {
		width = 0
	}
	filled := int(math.Round(float64(width) * float64(percent) / 100))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return BarData{Filled: filled, Empty: width - filled, Percent: percent}
}
