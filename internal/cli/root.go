// Package cli wires the bootstrap command line: flag parsing, configuration
// loading, the live progress view and the install phases.
package cli

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/bootstrap/internal/version"
	"github.com/arthur-debert/bootstrap/pkg/cobrax/topics"
	"github.com/arthur-debert/bootstrap/pkg/config"
	"github.com/arthur-debert/bootstrap/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// globalFlags are shared by every command
type globalFlags struct {
	verbosity  int
	configFile string
	noTUI      bool
	dryRun     bool
}

// overrides turns flags into config keys; unset flags leave the lower layers
// alone
func (g *globalFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	o := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		o["dry_run"] = g.dryRun
	}
	if flags.Changed("no-tui") && g.noTUI {
		o["tui.enabled"] = false
	}
	if flags.Changed("verbose") {
		o["log.verbosity"] = g.verbosity
	}
	return o
}

func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		File:      g.configFile,
		Overrides: g.overrides(cmd),
	})
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		flags globalFlags
		opts  Options
	)

	rootCmd := &cobra.Command{
		Use:     "bootstrap",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Console logging until the run decides whether the live view owns
			// the terminal
			logging.SetupLogger(logging.Options{Verbosity: flags.verbosity, Console: true})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = flags.dryRun
			if err := opts.Validate(); err != nil {
				_ = cmd.Usage()
				return err
			}
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			return newRun(cmd, cfg, opts).execute(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&flags.configFile, "config", "", MsgFlagConfig)
	pf.BoolVar(&flags.noTUI, "no-tui", false, MsgFlagNoTUI)
	pf.BoolVarP(&flags.dryRun, "dry-run", "d", false, MsgFlagDryRun)

	f := rootCmd.Flags()
	f.BoolVarP(&opts.All, "all", "a", false, MsgFlagAll)
	f.BoolVarP(&opts.Link, "link", "l", false, MsgFlagLink)
	f.BoolVarP(&opts.Unlink, "unlink", "u", false, MsgFlagUnlink)
	f.BoolVarP(&opts.Cask, "cask", "c", false, MsgFlagCask)
	f.BoolVarP(&opts.Formula, "formula", "f", false, MsgFlagFormula)
	f.BoolVarP(&opts.Mas, "mos", "m", false, MsgFlagMas)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(&flags))

	if sub, err := fs.Sub(topicFiles, "topics"); err == nil {
		if m, err := topics.Load(sub, topics.Options{Renderer: topics.NewGlamourRenderer(80)}); err == nil {
			m.Install(rootCmd)
		}
	}

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Dump(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", config.FormatTOML, MsgFlagFormat)
	return cmd
}
