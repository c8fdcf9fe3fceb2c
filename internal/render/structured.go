package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/keyprobe/internal/probe"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// Format selects how the report is written.
type Format string

const (
	// FormatText streams one line per model, then a summary.
	FormatText Format = "text"
	// FormatJSON writes the report as JSON when the run ends.
	FormatJSON Format = "json"
	// FormatYAML writes the report as YAML when the run ends.
	FormatYAML Format = "yaml"
	// FormatTable writes a table of results when the run ends.
	FormatTable Format = "table"
)

// ParseFormat converts s to a Format. An empty string means text.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: text, json, yaml, table")
	}
}

// Streaming reports whether the format prints results as they arrive.
func (f Format) Streaming() bool {
	return f == FormatText || f == ""
}

// Formatter writes a finished report.
type Formatter interface {
	Format(w io.Writer, report *probe.Report) error
}

// NewFormatter returns the formatter for f. Text has no end-of-run formatter
// beyond its summary, so it gets a SummaryFormatter.
func NewFormatter(f Format) Formatter {
	switch f {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable:
		return &TableFormatter{}
	default:
		return &SummaryFormatter{}
	}
}

// SummaryFormatter prints the text summary.
type SummaryFormatter struct{}

// Format implements Formatter.
func (f *SummaryFormatter) Format(w io.Writer, report *probe.Report) error {
	NewTextPrinter(w).Summary(report)
	return nil
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, report *probe.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(report)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, report *probe.Report) error {
	data, err := yaml.MarshalWithOptions(report,
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.UseJSONMarshaler(),
	)
	if err != nil {
		return errors.WrapParse("yaml", "report", err)
	}
	_, err = w.Write(data)
	return err
}

// TableFormatter outputs one row per probed model followed by the counts.
type TableFormatter struct{}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, report *probe.Report) error {
	table := tablewriter.NewTable(w)
	table.Header("Model", "Outcome", "Status", "Latency", "Detail")

	for _, r := range report.Results {
		status := "-"
		if r.StatusCode != 0 {
			status = fmt.Sprintf("%d", r.StatusCode)
		}
		if err := table.Append(string(r.Model), outcomeLabel(r.Outcome), status, r.Latency.String(), detail(r)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if report.AuthFailed {
		_, err := fmt.Fprintf(w, "\nCredential rejected: %s\n", report.AuthMessage)
		return err
	}
	_, err := fmt.Fprintf(w, "\nAvailable: %d  Unavailable: %d\n", len(report.Available), len(report.Unavailable))
	return err
}

// outcomeLabel turns "not_found" into "Not Found".
func outcomeLabel(o probe.Outcome) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(o), "_", " "))
}

func detail(r probe.Result) string {
	switch {
	case r.Outcome.Available():
		return ""
	case r.Transport():
		return fmt.Sprintf("%s: %s", r.ErrorKind, clip(r.Message))
	case r.ErrorType != "":
		return fmt.Sprintf("%s: %s", r.ErrorType, clip(r.Message))
	default:
		return clip(r.Message)
	}
}
