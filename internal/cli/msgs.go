package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Provision a macOS machine from a dotfiles repository"
	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"
	MsgConfigShort  = "Print the effective configuration"

	// Status messages
	MsgTitle          = "macOS Bootstrap"
	MsgAllDone        = "All tasks completed successfully!"
	MsgDryRunNotice   = "DRY RUN MODE - No changes will be made"
	MsgLogFileFormat  = "Log file: %s\n"

	// Version output
	MsgVersionFormat = "bootstrap version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrLinkUnlink    = "Cannot specify --link and --unlink together."
	MsgErrCaskUnlink    = "Cannot specify --cask and --unlink together."
	MsgErrFormulaUnlink = "Cannot specify --formula and --unlink together."
	MsgErrNoOption      = "Please specify at least one option."
	MsgErrHome          = "failed to locate home directory: %w"

	// Flag descriptions
	MsgFlagAll     = "Run all tasks"
	MsgFlagLink    = "Run stow for linking"
	MsgFlagUnlink  = "Run stow for unlinking"
	MsgFlagCask    = "Run cask installer"
	MsgFlagFormula = "Run formula installer"
	MsgFlagMas     = "Install Mac App Store Apps"
	MsgFlagDryRun  = "Run in dry-run mode"
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Read configuration from this file instead of the XDG location"
	MsgFlagNoTUI   = "Disable the live progress view"
	MsgFlagFormat  = "Output format (toml or yaml)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)
)
