// Package render writes probe results for people and for machines.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/keyprobe/internal/probe"
	"github.com/agentstation/keyprobe/pkg/constants"
)

// Markers shown at the start of each result line.
const (
	MarkAvailable = "✅"
	MarkNotFound  = "❌"
	MarkForbidden = "🔒"
	MarkError     = "⚠️"
	MarkBullet    = "•"
)

// TextPrinter writes one line per result as it arrives, then a summary.
type TextPrinter struct {
	w io.Writer
}

// NewTextPrinter creates a printer writing to w.
func NewTextPrinter(w io.Writer) *TextPrinter {
	return &TextPrinter{w: w}
}

// Header prints the banner shown before the first probe.
func (p *TextPrinter) Header() {
	rule := strings.Repeat("=", constants.RuleWidth)
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w, "  Anthropic API Key Validator")
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w)
}

// Observe implements probe.Observer.
func (p *TextPrinter) Observe(r probe.Result) {
	fmt.Fprint(p.w, Line(r))
}

// Line formats a single result, including its trailing newline.
func Line(r probe.Result) string {
	switch r.Outcome {
	case probe.OutcomeAvailable:
		return fmt.Sprintf("  %s  %s\n", MarkAvailable, r.Model)
	case probe.OutcomeNotFound:
		return fmt.Sprintf("  %s  %s  (not available)\n", MarkNotFound, r.Model)
	case probe.OutcomeForbidden:
		return fmt.Sprintf("  %s  %s  (no permission)\n", MarkForbidden, r.Model)
	case probe.OutcomeAuthInvalid:
		return fmt.Sprintf("\n  %s  %s\n      Error: %s\n", MarkNotFound, constants.ErrMsgInvalidAPIKey, r.Message)
	default:
		if r.Transport() {
			return fmt.Sprintf("  %s  %s  (error: %s)\n", MarkError, r.Model, clip(r.Message))
		}
		return fmt.Sprintf("  %s  %s  (%d: %s)\n", MarkError, r.Model, r.StatusCode, clip(r.Message))
	}
}

// Summary prints the counts and the usable models. After a rejected
// credential nothing more is printed.
func (p *TextPrinter) Summary(report *probe.Report) {
	if report.AuthFailed {
		return
	}

	rule := strings.Repeat("-", constants.RuleWidth)
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, rule)
	fmt.Fprintf(p.w, "  %s Available: %d\n", MarkAvailable, len(report.Available))
	fmt.Fprintf(p.w, "  %s Unavailable: %d\n", MarkNotFound, len(report.Unavailable))
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w)

	if len(report.Available) > 0 {
		fmt.Fprintln(p.w, "  Models you can use:")
		for _, m := range report.Available {
			fmt.Fprintf(p.w, "    %s %s\n", MarkBullet, m)
		}
	} else {
		fmt.Fprintf(p.w, "  %s  %s\n", MarkError, constants.ErrMsgNoModels)
	}
	fmt.Fprintln(p.w)
}

func clip(s string) string {
	runes := []rune(s)
	if len(runes) <= constants.LineMessageLimit {
		return s
	}
	return string(runes[:constants.LineMessageLimit])
}
