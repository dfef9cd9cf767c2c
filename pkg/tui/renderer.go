package tui

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/arthur-debert/bootstrap/pkg/tui/components"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Layout defaults
const (
	DefaultInterval      = 500 * time.Millisecond
	DefaultMaxWidth      = 80
	DefaultCompactHeight = 24

	fallbackWidth  = 80
	fallbackHeight = 24
)

// SizeFunc reports the terminal width and height
type SizeFunc func() (width, height int, err error)

// RendererOptions configures a Renderer. Zero values pick the defaults.
type RendererOptions struct {
	Output        io.Writer
	Interval      time.Duration
	MaxWidth      int
	CompactHeight int
	LogPath       string
	Size          SizeFunc
	Now           func() time.Time
}

// Renderer draws throttled frames in place, erasing the previous frame by
// moving the cursor up over it.
type Renderer struct {
	mu sync.Mutex

	out           io.Writer
	source        func() tasks.Snapshot
	interval      time.Duration
	maxWidth      int
	compactHeight int
	logPath       string
	size          SizeFunc
	now           func() time.Time

	width      int
	height     int
	lastRender time.Time
	lastLines  int
	started    bool
}

// NewRenderer creates a renderer reading frames from source
func NewRenderer(source func() tasks.Snapshot, opts RendererOptions) *Renderer {
	r := &Renderer{
		out:           opts.Output,
		source:        source,
		interval:      opts.Interval,
		maxWidth:      opts.MaxWidth,
		compactHeight: opts.CompactHeight,
		logPath:       opts.LogPath,
		size:          opts.Size,
		now:           opts.Now,
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.interval <= 0 {
		r.interval = DefaultInterval
	}
	if r.maxWidth <= 0 {
		r.maxWidth = DefaultMaxWidth
	}
	if r.compactHeight <= 0 {
		r.compactHeight = DefaultCompactHeight
	}
	if r.size == nil {
		r.size = terminalSize(r.out)
	}
	if r.now == nil {
		r.now = time.Now
	}
	r.RefreshTerminalSize()
	return r
}

func terminalSize(w io.Writer) SizeFunc {
	return func() (int, int, error) {
		f, ok := w.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return fallbackWidth, fallbackHeight, nil
		}
		return term.GetSize(int(f.Fd()))
	}
}

// RefreshTerminalSize re-reads the terminal geometry. Safe to call from the
// signal goroutine: it only takes the renderer's own lock.
func (r *Renderer) RefreshTerminalSize() {
	w, h, err := r.size()
	if err != nil || w <= 0 || h <= 0 {
		w, h = fallbackWidth, fallbackHeight
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = min(w, r.maxWidth)
	r.height = h
}

// TerminalSize returns the capped width and the height
func (r *Renderer) TerminalSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// CompactMode reports whether the terminal is too short for the footer
func (r *Renderer) CompactMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compactLocked()
}

func (r *Renderer) compactLocked() bool {
	return r.height < r.compactHeight
}

// MaxTreeLines is the tree view budget for the current height
func (r *Renderer) MaxTreeLines() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxTreeLinesLocked()
}

func (r *Renderer) maxTreeLinesLocked() int {
	if r.compactLocked() {
		return max(r.height-8, 5)
	}
	return max(r.height-10, 15)
}

// Render draws a frame unless the previous one is younger than the interval.
// It reports whether anything was written.
func (r *Renderer) Render() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.lastRender.IsZero() && now.Sub(r.lastRender) < r.interval {
		return false, nil
	}
	r.lastRender = now
	return true, r.drawLocked()
}

// ForceRender draws a frame regardless of the throttle
func (r *Renderer) ForceRender() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRender = r.now()
	return r.drawLocked()
}

// RenderFinal leaves trailing spacing below the last frame
func (r *Renderer) RenderFinal() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write("\n")
}

// Finish draws one last frame and the trailing spacing. It gives up and
// returns false when a render is still in progress, so a wedged render
// goroutine cannot block shutdown.
func (r *Renderer) Finish() (bool, error) {
	if !r.mu.TryLock() {
		return false, nil
	}
	defer r.mu.Unlock()

	r.lastRender = r.now()
	if err := r.drawLocked(); err != nil {
		return true, err
	}
	return true, r.write("\n")
}

// BuildFrame composes header, tree and, outside compact mode, the footer
func (r *Renderer) BuildFrame(snap tasks.Snapshot) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buildFrameLocked(snap)
}

func (r *Renderer) buildFrameLocked(snap tasks.Snapshot) string {
	parts := []string{
		components.Header(snap, r.width),
		components.TreeView(snap, r.maxTreeLinesLocked(), r.width),
	}
	if !r.compactLocked() {
		parts = append(parts, components.Footer(r.logPath, r.width))
	}
	return components.Frame(parts...)
}

// drawLocked takes the snapshot (tree lock held only inside source), then
// does the terminal I/O with just the renderer lock.
func (r *Renderer) drawLocked() error {
	frame := r.buildFrameLocked(r.source())

	var b strings.Builder
	if !r.started {
		b.WriteString("\n")
		r.started = true
	} else if r.lastLines > 0 {
		b.WriteString("\r")
		b.WriteString(ansi.CursorUp(r.lastLines))
		b.WriteString(ansi.EraseScreenBelow)
	}
	b.WriteString(frame)
	b.WriteString("\n")

	if err := r.write(b.String()); err != nil {
		return err
	}
	r.lastLines = components.LineCount(frame)
	return nil
}

type flusher interface {
	Flush() error
}

func (r *Renderer) write(s string) error {
	if _, err := io.WriteString(r.out, s); err != nil {
		return errors.Wrap(err, errors.ErrRender, "failed to write frame")
	}
	if f, ok := r.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, errors.ErrRender, "failed to flush frame")
		}
	}
	return nil
}
