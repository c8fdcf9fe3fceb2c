package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/keyprobe/pkg/errors"
	"github.com/agentstation/keyprobe/pkg/logging"
)

// ErrUsage is returned when the credential argument is missing. The usage
// line has already been printed when it is returned.
var ErrUsage = errors.New("usage")

// UsageLine is printed to standard output when no credential is given.
const UsageLine = "Usage: keyprobe YOUR_ANTHROPIC_API_KEY"

// Execute runs the keyprobe CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "keyprobe <api_key>",
		Short:   "Check which Anthropic models an API key can use",
		Version: a.version,
		Long: `keyprobe sends one minimal message request per model in its catalog
and reports which models accept the given API key.

A rejected key (HTTP 401) stops the run after the first request. Every other
failure marks only that model as unavailable.

A key that matches a subcommand name (such as "version") must follow "--":
  keyprobe -- version`,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: a.setupCommand,
		RunE:              a.runProbe,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.SetOut(a.stdout)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.keyprobe.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=error)")
	flags.Bool("no-color", a.config.NoColor, "disable colored log output")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.Flags().String("format", a.config.Format, "output format: text, json, yaml, table")
	rootCmd.Flags().Duration("timeout", a.config.Timeout, "timeout for each probe request")
	rootCmd.Flags().String("base-url", a.config.BaseURL, "Anthropic API base URL")

	rootCmd.SetVersionTemplate("keyprobe {{.Version}}\n")

	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// file when --config is given, applies explicit flags on top and rebuilds
// the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfig(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.ApplyFlags(cmd.Flags())
	if err := a.config.Validate(); err != nil {
		return err
	}

	if !a.customLogger {
		logger := NewLogger(a.config)
		a.logger = &logger
		logging.SetDefault(logger)
	}

	return nil
}

// ExitOnError prints an error and exits with status 1. A usage error has
// already been reported, so it exits without printing again.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, ErrUsage) {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = fmt.Fprintln(os.Stderr, "Error: "+err.Error())
	}
	os.Exit(1)
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
