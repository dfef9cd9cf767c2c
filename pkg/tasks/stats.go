package tasks

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// Stats holds process-wide outcome counters. Counters only ever grow.
type Stats struct {
	startTime time.Time
	success   atomic.Int64
	errors    atomic.Int64
	skips     atomic.Int64
}

// NewStats starts the elapsed-time clock now
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

func (s *Stats) StartTime() time.Time { return s.startTime }

func (s *Stats) IncSuccess() { s.success.Add(1) }
func (s *Stats) IncError()   { s.errors.Add(1) }
func (s *Stats) IncSkip()    { s.skips.Add(1) }

func (s *Stats) SuccessCount() int { return int(s.success.Load()) }
func (s *Stats) ErrorCount() int   { return int(s.errors.Load()) }
func (s *Stats) SkipCount() int    { return int(s.skips.Load()) }

// TotalCompleted sums all outcomes
func (s *Stats) TotalCompleted() int {
	return s.SuccessCount() + s.ErrorCount() + s.SkipCount()
}

// Elapsed is recomputed on every call
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// FormatElapsed renders Elapsed with FormatDuration
func (s *Stats) FormatElapsed() string {
	return FormatDuration(s.Elapsed())
}

// FormatEstimatedRemaining renders an ETA, "calculating..." while unknown
func FormatEstimatedRemaining(d *time.Duration) string {
	if d == nil {
		return "calculating..."
	}
	return FormatDuration(*d)
}

// FormatDuration renders 42s, 3m 5s or 1h 2m. Zero renders as 0s.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	if seconds <= 0 {
		return "0s"
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", int(math.Round(seconds)))
	case seconds < 3600:
		minutes := int(seconds / 60)
		secs := int(math.Round(math.Mod(seconds, 60)))
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		hours := int(seconds / 3600)
		minutes := int(math.Mod(seconds, 3600) / 60)
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}
