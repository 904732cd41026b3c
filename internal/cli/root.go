package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vk/grifork/internal/app"
	"github.com/vk/grifork/internal/dsl"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel  string
	logFormat string
	noColor   bool

	// interpOpts are passed to every App; tests use them to stub commands.
	interpOpts []dsl.Option
}

// NewRootCommand creates the grifork command tree. Command output goes to
// outW and logs to errW.
func NewRootCommand(outW, errW io.Writer, opts ...dsl.Option) *cobra.Command {
	o := &rootOptions{interpOpts: opts}

	cmd := &cobra.Command{
		Use:   "grifork",
		Short: "Resolve and inspect grifork deployment scripts",
		Long: `grifork interprets Griforkfiles: declarative scripts describing how many
parallel branches to run, which hosts take part and the lifecycle hooks
(prepare, local, remote, finish) of a distributed run.

The same script resolves differently on the master and on a remote worker;
use --on-remote to see the worker's view.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// The root only prints help. Unknown subcommands land here as
		// arguments and are rejected by NoArgs.
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "Logging level: debug, info, warn or error.")
	cmd.PersistentFlags().StringVar(&o.logFormat, "log-format", defaultLogFormat(), "Log output format: text or json.")
	cmd.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "Disable coloured output.")

	cmd.AddCommand(newShowCommand(o))
	cmd.AddCommand(newValidateCommand(o))
	cmd.AddCommand(newHookCommand(o))

	return cmd
}

// newApp builds the App for one command invocation.
func (o *rootOptions) newApp(cmd *cobra.Command, onRemote bool) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		LogFormat: o.logFormat,
		LogLevel:  o.logLevel,
		OnRemote:  onRemote,
	})
	if err != nil {
		return nil, usageError(err.Error())
	}
	return app.NewApp(cmd.ErrOrStderr(), cfg, o.interpOpts...), nil
}

// defaultLogFormat picks human-readable logs on a terminal.
func defaultLogFormat() string {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return "text"
	}
	return "json"
}
