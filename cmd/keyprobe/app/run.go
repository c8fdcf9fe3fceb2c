package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/keyprobe/internal/anthropic"
	"github.com/agentstation/keyprobe/internal/probe"
	"github.com/agentstation/keyprobe/internal/render"
	"github.com/agentstation/keyprobe/internal/transport"
	"github.com/agentstation/keyprobe/pkg/errors"
	"github.com/agentstation/keyprobe/pkg/logging"
)

// runProbe validates the credential in args[0] against every catalog model.
func (a *App) runProbe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		fmt.Fprintln(out, UsageLine)
		return ErrUsage
	}
	if len(args) > 1 {
		a.logger.Warn().Int("extra", len(args)-1).Msg("Ignoring arguments after the API key")
	}

	format, err := render.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), a.logger)
	ctx = logging.WithOperation(ctx, "probe")

	var opts []probe.Option
	var printer *render.TextPrinter
	if format.Streaming() {
		printer = render.NewTextPrinter(out)
		printer.Header()
		opts = append(opts, probe.WithObserver(printer))
	}

	a.logger.Debug().
		Int("models", a.catalog.Len()).
		Dur("timeout", a.config.Timeout).
		Str("base_url", a.config.BaseURL).
		Str("format", string(format)).
		Msg("Starting run")

	report, err := probe.New(a.senderFor(args[0]), opts...).Run(ctx, a.catalog)
	if err != nil {
		return err
	}

	if printer != nil {
		printer.Summary(report)
		return nil
	}
	if err := render.NewFormatter(format).Format(out, report); err != nil {
		return errors.WrapIO("write", "report", err)
	}
	return nil
}

// senderFor returns the injected sender, or a messages client for apiKey.
func (a *App) senderFor(apiKey string) probe.Sender {
	if a.sender != nil {
		return a.sender
	}
	tc := transport.NewAnthropic(apiKey, transport.WithTimeout(a.config.Timeout))
	a.track(tc)
	return anthropic.NewClient(a.config.BaseURL, tc)
}
