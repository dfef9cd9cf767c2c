package tasks

import "time"

// TaskView is an immutable copy of a Task taken under the tree lock
type TaskView struct {
	ID           string
	Name         string
	State        State
	ErrorMessage string
	Message      string
	StartedAt    time.Time
	CompletedAt  time.Time
	Children     []TaskView

	Leaves          int
	CompletedLeaves int
}

// IsLeaf reports whether the view has no children
func (v TaskView) IsLeaf() bool { return len(v.Children) == 0 }

// CountChildren counts direct children in the given state
func (v TaskView) CountChildren(state State) int {
	n := 0
	for _, c := range v.Children {
		if c.State == state {
			n++
		}
	}
	return n
}

// Snapshot is everything needed to draw one frame
type Snapshot struct {
	Root      TaskView
	StartTime time.Time
	TakenAt   time.Time

	SuccessCount int
	ErrorCount   int
	SkipCount    int
}

// Title is the root name
func (s Snapshot) Title() string { return s.Root.Name }

// Sections are the root's direct children
func (s Snapshot) Sections() []TaskView { return s.Root.Children }

func (s Snapshot) TotalTasks() int     { return s.Root.Leaves }
func (s Snapshot) CompletedTasks() int { return s.Root.CompletedLeaves }

// PercentComplete mirrors Tree.PercentComplete on the copy
func (s Snapshot) PercentComplete() int {
	return percent(s.Root.CompletedLeaves, s.Root.Leaves)
}

// Elapsed is measured from the stats start to the capture time
func (s Snapshot) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return s.TakenAt.Sub(s.StartTime)
}

func capture(root *Task, stats *Stats) Snapshot {
	snap := Snapshot{
		Root:    view(root),
		TakenAt: time.Now(),
	}
	if stats != nil {
		snap.StartTime = stats.StartTime()
		snap.SuccessCount = stats.SuccessCount()
		snap.ErrorCount = stats.ErrorCount()
		snap.SkipCount = stats.SkipCount()
	}
	return snap
}

func view(t *Task) TaskView {
	v := TaskView{
		ID:           t.ID,
		Name:         t.Name,
		State:        t.State,
		ErrorMessage: t.ErrorMessage,
		Message:      t.Metadata.Message,
		StartedAt:    t.StartedAt,
		CompletedAt:  t.CompletedAt,
	}
	if t.IsLeaf() {
		v.Leaves = 1
		if t.IsComplete() {
			v.CompletedLeaves = 1
		}
		return v
	}
	v.Children = make([]TaskView, len(t.children))
	for i, c := range t.children {
		cv := view(c)
		v.Children[i] = cv
		v.Leaves += cv.Leaves
		v.CompletedLeaves += cv.CompletedLeaves
	}
	return v
}
