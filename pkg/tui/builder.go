package tui

import "github.com/arthur-debert/bootstrap/pkg/tasks"

// Section names shared by the skeleton and the collaborators that report
// into it, so StartSection picks up the pending skeleton node.
const (
	SectionPrerequisites = "Prerequisites"
	SectionFormulae      = "Install Homebrew Formulas"
	SectionCasks         = "Install Homebrew Casks"
	SectionMasApps       = "Install Mac App Store Apps"
	SectionLink          = "Link Configuration Files"
	SectionUnlink        = "Unlink Configuration Files"
)

// Prerequisite step names, in run order
const (
	StepSudo        = "Ensure sudo access"
	StepCargo       = "Install cargo toolchain"
	StepHomebrew    = "Install homebrew"
	StepStow        = "Install GNU stow"
	StepEnvFile     = "Setup environment file"
	StepPriorityRun = "Run priority hooks"
)

// PrerequisiteSteps lists the prerequisite tasks laid out up front
var PrerequisiteSteps = []string{StepSudo, StepCargo, StepHomebrew, StepStow, StepEnvFile, StepPriorityRun}

// BuildOptions selects which phases the skeleton shows
type BuildOptions struct {
	All     bool
	Link    bool
	Formula bool
	Cask    bool
	Mas     bool
}

// BuildSkeleton lays out the pending sections for the selected phases so the
// tree shows the whole run before any work starts. Item tasks inside the
// install and link sections are added as they run.
func BuildSkeleton(tree *tasks.Tree, opts BuildOptions) {
	tree.Update(func(x tasks.Txn) {
		if opts.All || opts.Link {
			section := x.AddSection(SectionPrerequisites, nil)
			for _, step := range PrerequisiteSteps {
				x.AddTask(step, section)
			}
		}
		if opts.All || opts.Formula {
			x.AddSection(SectionFormulae, nil)
		}
		if opts.All || opts.Cask {
			x.AddSection(SectionCasks, nil)
		}
		if opts.All || opts.Mas {
			x.AddSection(SectionMasApps, nil)
		}
		if opts.All || opts.Link {
			x.AddSection(SectionLink, nil)
		}
	})
}
