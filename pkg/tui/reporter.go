package tui

// Reporter is the progress surface collaborators push events into.
//
// *Manager implements it, and a nil *Manager is a valid Reporter whose
// methods do nothing, so callers never branch on whether the live view is on.
type Reporter interface {
	StartSection(name string)
	CompleteSection(success bool) bool
	StartTask(name string) string
	UpdateTask(message string)
	CompleteTask(success bool, message string) bool
	SkipTask() bool
	Error(message string)
}

var _ Reporter = (*Manager)(nil)
