// Package tasks holds the progress data model: a tree of tasks whose leaves
// are the unit of progress, process-wide counters, and read-only snapshots
// of both for rendering.
package tasks

import (
	"math"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/google/uuid"
)

// State is the lifecycle state of a Task
type State int

const (
	StatePending State = iota
	StateRunning
	StateDone
	StateError
	StateSkipped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is allowed
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateError || s == StateSkipped
}

// Metadata carries transient display data that is not part of the lifecycle
type Metadata struct {
	// Message is the live status line of a running task
	Message string
}

// Task is a node in the progress tree. A task with children is a section.
//
// Task is not safe for concurrent use on its own; Tree serializes access.
type Task struct {
	ID           string
	Name         string
	State        State
	StartedAt    time.Time
	CompletedAt  time.Time
	ErrorMessage string
	Metadata     Metadata

	parent   *Task
	children []*Task
}

// NewTask creates a pending task and links it under parent when given
func NewTask(name string, parent *Task) *Task {
	t := &Task{
		ID:    uuid.NewString(),
		Name:  name,
		State: StatePending,
	}
	if parent != nil {
		parent.addChild(t)
	}
	return t
}

func (t *Task) addChild(child *Task) {
	child.parent = t
	t.children = append(t.children, child)
}

// Parent returns the owning task, nil for the root
func (t *Task) Parent() *Task { return t.parent }

// Children returns the children in insertion order
func (t *Task) Children() []*Task { return t.children }

func (t *Task) transitionError(op string) error {
	return errors.Newf(errors.ErrInvalidTransition, "cannot %s task %q in state %s", op, t.Name, t.State).
		WithDetail("task", t.ID).
		WithDetail("state", t.State.String())
}

// Start moves a pending task to running
func (t *Task) Start() error {
	if t.State != StatePending {
		return t.transitionError("start")
	}
	t.State = StateRunning
	t.StartedAt = time.Now()
	return nil
}

// Complete moves a running task to done or error. The message is kept only on failure.
func (t *Task) Complete(success bool, message string) error {
	if t.State != StateRunning {
		return t.transitionError("complete")
	}
	t.CompletedAt = time.Now()
	if success {
		t.State = StateDone
		return nil
	}
	t.State = StateError
	t.ErrorMessage = message
	return nil
}

// Skip moves a pending or running task to skipped
func (t *Task) Skip() error {
	if t.State != StatePending && t.State != StateRunning {
		return t.transitionError("skip")
	}
	t.State = StateSkipped
	t.CompletedAt = time.Now()
	return nil
}

// IsComplete reports whether the task reached a terminal state
func (t *Task) IsComplete() bool { return t.State.IsTerminal() }

// IsLeaf reports whether the task has no children
func (t *Task) IsLeaf() bool { return len(t.children) == 0 }

// IsSection reports whether the task groups children
func (t *Task) IsSection() bool { return !t.IsLeaf() }

// Duration is the time spent running so far, zero if never started
func (t *Task) Duration() time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	if t.CompletedAt.IsZero() {
		return time.Since(t.StartedAt)
	}
	return t.CompletedAt.Sub(t.StartedAt)
}

// Depth is the distance from the root
func (t *Task) Depth() int {
	depth := 0
	for p := t.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// TotalLeaves counts the leaves below this task, itself when it is a leaf
func (t *Task) TotalLeaves() int {
	if t.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range t.children {
		total += c.TotalLeaves()
	}
	return total
}

// CompletedLeaves counts leaves in a terminal state
func (t *Task) CompletedLeaves() int {
	if t.IsLeaf() {
		if t.IsComplete() {
			return 1
		}
		return 0
	}
	done := 0
	for _, c := range t.children {
		done += c.CompletedLeaves()
	}
	return done
}

// ProgressPercent is 100 when complete, 0 when pending, 50 for a running
// leaf, and derived from leaves for a running section.
func (t *Task) ProgressPercent() int {
	switch {
	case t.IsComplete():
		return 100
	case t.State == StatePending:
		return 0
	case t.IsLeaf():
		return 50
	}
	return percent(t.CompletedLeaves(), t.TotalLeaves())
}

// Walk visits every descendant depth-first in insertion order
func (t *Task) Walk(fn func(*Task)) {
	for _, c := range t.children {
		fn(c)
		c.Walk(fn)
	}
}

// Find returns the first task with id in a depth-first search, or nil
func (t *Task) Find(id string) *Task {
	if t.ID == id {
		return t
	}
	for _, c := range t.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
