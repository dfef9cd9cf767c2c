package tasks

import "sync"

// DefaultRootName is the title of the root task
const DefaultRootName = "Bootstrap Installation"

// Tree owns the root task and serializes every structural read and write
// behind a single mutex, so a reader never observes a half-linked node.
type Tree struct {
	mu   sync.Mutex
	root *Task
}

// NewTree creates a tree whose root is already running
func NewTree(rootName string) *Tree {
	if rootName == "" {
		rootName = DefaultRootName
	}
	root := NewTask(rootName, nil)
	_ = root.Start()
	return &Tree{root: root}
}

// Root returns the root task. Callers must not mutate it outside Update.
func (t *Tree) Root() *Task { return t.root }

// Txn exposes tree operations while the tree lock is held
type Txn struct {
	tree *Tree
}

// Update runs fn with the tree lock held for its whole duration
func (t *Tree) Update(fn func(Txn)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(Txn{tree: t})
}

// Root returns the root task
func (x Txn) Root() *Task { return x.tree.root }

// AddSection links a new section under parent, or under the root when parent is nil
func (x Txn) AddSection(name string, parent *Task) *Task {
	if parent == nil {
		parent = x.tree.root
	}
	return NewTask(name, parent)
}

// AddTask links a new task under parent, or under the root when parent is nil
func (x Txn) AddTask(name string, parent *Task) *Task {
	if parent == nil {
		parent = x.tree.root
	}
	return NewTask(name, parent)
}

// FindChild returns the first pending child of parent named name
func (x Txn) FindChild(parent *Task, name string) *Task {
	if parent == nil {
		parent = x.tree.root
	}
	for _, c := range parent.children {
		if c.Name == name && c.State == StatePending {
			return c
		}
	}
	return nil
}

// Find returns the task with id, or nil
func (x Txn) Find(id string) *Task { return x.tree.root.Find(id) }

// AddSection creates a section under parent (root when nil)
func (t *Tree) AddSection(name string, parent *Task) *Task {
	var s *Task
	t.Update(func(x Txn) { s = x.AddSection(name, parent) })
	return s
}

// AddTask creates a task under parent (root when nil)
func (t *Tree) AddTask(name string, parent *Task) *Task {
	var task *Task
	t.Update(func(x Txn) { task = x.AddTask(name, parent) })
	return task
}

// FindTask looks a task up by id
func (t *Tree) FindTask(id string) *Task {
	var task *Task
	t.Update(func(x Txn) { task = x.Find(id) })
	return task
}

// UpdateTask applies fn to the task with id under the lock.
// It reports whether the task exists.
func (t *Tree) UpdateTask(id string, fn func(*Task)) bool {
	found := false
	t.Update(func(x Txn) {
		if task := x.Find(id); task != nil {
			fn(task)
			found = true
		}
	})
	return found
}

// TotalTasks counts all leaves
func (t *Tree) TotalTasks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root.TotalLeaves()
}

// CompletedTasks counts leaves in a terminal state
func (t *Tree) CompletedTasks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root.CompletedLeaves()
}

// PercentComplete is completed/total rounded to the nearest integer, 0 for an empty total
func (t *Tree) PercentComplete() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return percent(t.root.CompletedLeaves(), t.root.TotalLeaves())
}

// Sections returns the root's direct children in insertion order
func (t *Tree) Sections() []*Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Task, len(t.root.children))
	copy(out, t.root.children)
	return out
}

// Snapshot copies the tree, and stats when given, under the lock
func (t *Tree) Snapshot(stats *Stats) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return capture(t.root, stats)
}
