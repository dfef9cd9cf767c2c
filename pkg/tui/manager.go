// Package tui drives the live progress view: a Manager owns the task tree
// and a render goroutine that redraws a throttled frame while collaborators
// push progress events from the main goroutine.
package tui

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/rs/zerolog"
)

// DefaultJoinTimeout bounds how long Stop waits for the render goroutine
const DefaultJoinTimeout = 2 * time.Second

// InterruptExitCode is the exit status after a user interrupt
const InterruptExitCode = 130

// InterruptNotice is printed once when the user interrupts the run
const InterruptNotice = "Installation interrupted by user"

// Options configures a Manager
type Options struct {
	Title         string
	Renderer      RendererOptions
	JoinTimeout   time.Duration
	HandleSignals bool
}

// active holds the one Manager allowed to run at a time
var active atomic.Pointer[Manager]

// Active returns the running Manager, or nil
func Active() *Manager {
	return active.Load()
}

// Manager is the facade collaborators report progress through.
//
// currentSection and currentTask are guarded by the tree lock: every
// mutating method holds it for its whole duration, and the render goroutine
// holds it only while copying a snapshot.
type Manager struct {
	tree     *tasks.Tree
	stats    *tasks.Stats
	renderer *Renderer
	logger   zerolog.Logger

	interval      time.Duration
	joinTimeout   time.Duration
	handleSignals bool

	currentSection *tasks.Task
	currentTask    *tasks.Task

	running     atomic.Bool
	started     bool
	stopCh      chan struct{}
	loopDone    chan struct{}
	stopOnce    sync.Once
	sigCh       chan os.Signal
	interrupted atomic.Bool
	interruptCh chan struct{}
	interrupt   sync.Once
}

// New creates a Manager with a fresh tree and stats
func New(opts Options) *Manager {
	m := &Manager{
		tree:          tasks.NewTree(opts.Title),
		stats:         tasks.NewStats(),
		logger:        logging.GetLogger("tui"),
		interval:      opts.Renderer.Interval,
		joinTimeout:   opts.JoinTimeout,
		handleSignals: opts.HandleSignals,
		interruptCh:   make(chan struct{}),
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if m.joinTimeout <= 0 {
		m.joinTimeout = DefaultJoinTimeout
	}
	m.renderer = NewRenderer(m.Snapshot, opts.Renderer)
	return m
}

// Create returns a Manager when the live view is enabled for out, nil otherwise.
// It fails while another Manager is active.
func Create(out io.Writer, toggle bool, opts Options) (*Manager, error) {
	if !Enabled(out, toggle) {
		return nil, nil
	}
	if Active() != nil {
		return nil, errors.New(errors.ErrAlreadyActive, "a progress manager is already running")
	}
	opts.Renderer.Output = out
	return New(opts), nil
}

// Launch creates a Manager, lays out the skeleton and starts rendering.
// It returns nil, nil when the live view is disabled.
func Launch(out io.Writer, toggle bool, opts Options, skeleton BuildOptions) (*Manager, error) {
	m, err := Create(out, toggle, opts)
	if err != nil || m == nil {
		return nil, err
	}
	BuildSkeleton(m.tree, skeleton)
	if err := m.Start(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) Tree() *tasks.Tree   { return m.tree }
func (m *Manager) Stats() *tasks.Stats { return m.stats }
func (m *Manager) Renderer() *Renderer { return m.renderer }

// IsRunning reports whether the render goroutine is live
func (m *Manager) IsRunning() bool {
	return m != nil && m.running.Load()
}

// InterruptRequested reports whether an interrupt signal arrived
func (m *Manager) InterruptRequested() bool {
	return m != nil && m.interrupted.Load()
}

// Snapshot copies the tree and stats under the tree lock
func (m *Manager) Snapshot() tasks.Snapshot {
	return m.tree.Snapshot(m.stats)
}

// Interrupted is closed once an interrupt signal arrives. A nil Manager
// returns a channel that never closes.
func (m *Manager) Interrupted() <-chan struct{} {
	if m == nil {
		return nil
	}
	return m.interruptCh
}

// Start launches the render goroutine and, when configured, the signal handlers
func (m *Manager) Start() error {
	if m == nil {
		return nil
	}
	if !active.CompareAndSwap(nil, m) {
		return errors.New(errors.ErrAlreadyActive, "a progress manager is already running")
	}

	m.tree.Update(func(x tasks.Txn) {
		if root := x.Root(); root.State == tasks.StatePending {
			_ = root.Start()
		}
	})

	m.started = true
	m.stopCh = make(chan struct{})
	m.loopDone = make(chan struct{})
	m.running.Store(true)
	go m.renderLoop()

	if m.handleSignals {
		m.installSignalHandlers()
	}
	m.logger.Debug().Dur("interval", m.interval).Msg("Progress view started")
	return nil
}

// Stop ends the render goroutine, waiting at most the join timeout, then
// draws the final frame. It is idempotent and never takes the tree lock
// while waiting.
func (m *Manager) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() {
		defer active.CompareAndSwap(m, nil)
		if !m.started {
			return
		}

		m.running.Store(false)
		m.stopSignalHandlers()
		close(m.stopCh)

		select {
		case <-m.loopDone:
		case <-time.After(m.joinTimeout):
			m.logger.Warn().Dur("timeout", m.joinTimeout).Msg("Render loop did not stop in time")
		}

		drawn, err := m.renderer.Finish()
		if err != nil {
			m.logger.Error().Err(err).Msg("Final render failed")
		}
		if !drawn {
			m.logger.Warn().Msg("Renderer busy, skipped final frame")
		}
	})
}

func (m *Manager) renderLoop() {
	defer close(m.loopDone)

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-timer.C:
		}
		m.renderOnce()
		timer.Reset(m.interval)
	}
}

// renderOnce never lets a render failure escape the loop
func (m *Manager) renderOnce() {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("Render panic")
		}
	}()
	if _, err := m.renderer.Render(); err != nil {
		m.logger.Error().Err(err).Msg("Render error")
	}
}

func (m *Manager) requestInterrupt() {
	m.interrupted.Store(true)
	m.interrupt.Do(func() { close(m.interruptCh) })
}

// StartSection opens a top-level section, closing an unfinished previous
// one as successful. A pending section of the same name is reused.
func (m *Manager) StartSection(name string) {
	if m == nil {
		return
	}
	m.tree.Update(func(x tasks.Txn) {
		if prev := m.currentSection; prev != nil && !prev.IsComplete() {
			m.logger.Debug().Str("section", prev.Name).Msg("Auto-completing open section")
			closeTask(prev, true)
		}

		section := x.FindChild(nil, name)
		if section == nil {
			section = x.AddSection(name, nil)
		}
		_ = section.Start()
		m.currentSection = section
	})
}

// CompleteSection closes the current section. It reports whether one was open.
func (m *Manager) CompleteSection(success bool) bool {
	if m == nil {
		return false
	}
	closed := false
	m.tree.Update(func(tasks.Txn) {
		if s := m.currentSection; s != nil {
			if !s.IsComplete() {
				closeTask(s, success)
			}
			m.currentSection = nil
			closed = true
		}
	})
	return closed
}

// StartTask starts a task under the current section, or the root
func (m *Manager) StartTask(name string) string {
	return m.StartTaskIn(name, "")
}

// StartTaskIn starts a task under the task with parentID. An empty or
// unknown parentID falls back to the current section, then the root.
// A pending child of the same name is reused. It returns the task id.
func (m *Manager) StartTaskIn(name, parentID string) string {
	if m == nil {
		return ""
	}
	var id string
	m.tree.Update(func(x tasks.Txn) {
		parent := m.currentSection
		if parentID != "" {
			if p := x.Find(parentID); p != nil {
				parent = p
			}
		}
		if parent == nil {
			parent = x.Root()
		}

		task := x.FindChild(parent, name)
		if task == nil {
			task = x.AddTask(name, parent)
		}
		_ = task.Start()
		m.currentTask = task
		id = task.ID
	})
	return id
}

// UpdateTask sets the live status line of the current task
func (m *Manager) UpdateTask(message string) {
	if m == nil {
		return
	}
	m.tree.Update(func(tasks.Txn) {
		if m.currentTask != nil {
			m.currentTask.Metadata.Message = message
		}
	})
}

// CompleteTask finishes the current task and counts the outcome.
// Without a current task it does nothing and returns false.
func (m *Manager) CompleteTask(success bool, message string) bool {
	if m == nil {
		return false
	}
	completed := false
	m.tree.Update(func(tasks.Txn) {
		task := m.currentTask
		if task == nil {
			return
		}
		m.currentTask = nil
		if err := task.Complete(success, message); err != nil {
			m.logger.Debug().Err(err).Msg("Ignoring completion")
			return
		}
		if success {
			m.stats.IncSuccess()
		} else {
			m.stats.IncError()
		}
		completed = true
	})
	return completed
}

// SkipTask marks the current task skipped and counts it
func (m *Manager) SkipTask() bool {
	if m == nil {
		return false
	}
	skipped := false
	m.tree.Update(func(tasks.Txn) {
		task := m.currentTask
		if task == nil {
			return
		}
		m.currentTask = nil
		if err := task.Skip(); err != nil {
			m.logger.Debug().Err(err).Msg("Ignoring skip")
			return
		}
		m.stats.IncSkip()
		skipped = true
	})
	return skipped
}

// Error fails the current task with message
func (m *Manager) Error(message string) {
	m.CompleteTask(false, message)
}

// closeTask drives a task to done or error from pending or running
func closeTask(t *tasks.Task, success bool) {
	if t.State == tasks.StatePending {
		_ = t.Start()
	}
	_ = t.Complete(success, "")
}
