package cli

import (
	"github.com/arthur-debert/bootstrap/pkg/errors"
	"github.com/arthur-debert/bootstrap/pkg/tui"
)

// Options are the phase selections from the command line
type Options struct {
	All     bool
	Link    bool
	Unlink  bool
	Cask    bool
	Formula bool
	Mas     bool
	DryRun  bool
}

// Validate rejects contradictory or empty selections. --all wins over
// everything else.
func (o Options) Validate() error {
	if o.All {
		return nil
	}
	switch {
	case o.Link && o.Unlink:
		return errors.New(errors.ErrInvalidInput, MsgErrLinkUnlink)
	case o.Cask && o.Unlink:
		return errors.New(errors.ErrInvalidInput, MsgErrCaskUnlink)
	case o.Formula && o.Unlink:
		return errors.New(errors.ErrInvalidInput, MsgErrFormulaUnlink)
	}
	if !o.Link && !o.Unlink && !o.Cask && !o.Formula && !o.Mas {
		return errors.New(errors.ErrInvalidInput, MsgErrNoOption)
	}
	return nil
}

// Prerequisites reports whether any install phase needs the prerequisites
func (o Options) Prerequisites() bool {
	return o.All || o.Formula || o.Cask || o.Mas
}

func (o Options) Formulae() bool { return o.All || o.Formula }
func (o Options) Casks() bool    { return o.All || o.Cask }
func (o Options) MasApps() bool  { return o.All || o.Mas }
func (o Options) Linking() bool  { return o.All || o.Link }

// Unlinking only happens when asked for explicitly
func (o Options) Unlinking() bool { return o.Unlink }

// Skeleton maps the selection onto the sections laid out before work starts
func (o Options) Skeleton() tui.BuildOptions {
	return tui.BuildOptions{
		All:     o.All,
		Link:    o.Link,
		Formula: o.Formula,
		Cask:    o.Cask,
		Mas:     o.Mas,
	}
}
