package display

import (
	"github.com/pterm/pterm"
)

// Spinner shows what a long phase is doing. On a non-terminal output, or
// while the display is silenced, it does nothing.
type Spinner struct {
	printer *pterm.SpinnerPrinter
}

// Update replaces the spinner text
func (s *Spinner) Update(text string) {
	if s == nil || s.printer == nil {
		return
	}
	s.printer.UpdateText(text)
}

// Spin runs fn with a spinner labelled text, then reports the outcome as a
// success or failure line.
func (d *Display) Spin(text string, done string, fn func(*Spinner) error) error {
	s := d.startSpinner(text)
	err := fn(s)
	s.stop()

	if err != nil {
		d.Fail(err.Error())
		return err
	}
	if done != "" {
		d.Success(done)
	}
	return nil
}

func (d *Display) startSpinner(text string) *Spinner {
	if d == nil || !d.tty || d.silenced() {
		return &Spinner{}
	}
	printer, err := pterm.DefaultSpinner.
		WithWriter(d.out).
		WithRemoveWhenDone(true).
		Start(text)
	if err != nil {
		return &Spinner{}
	}
	return &Spinner{printer: printer}
}

func (s *Spinner) stop() {
	if s.printer != nil {
		_ = s.printer.Stop()
	}
}
