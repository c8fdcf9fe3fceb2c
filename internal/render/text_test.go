package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/keyprobe/internal/anthropic"
	"github.com/agentstation/keyprobe/internal/catalog"
	"github.com/agentstation/keyprobe/internal/probe"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// statusSender answers each model with a fixed status and body.
type statusSender map[string]anthropic.Response

func (s statusSender) Send(_ context.Context, req anthropic.MessageRequest) (*anthropic.Response, error) {
	resp, ok := s[req.Model]
	if !ok {
		return nil, errors.New("no route to host")
	}
	return &resp, nil
}

func TestLine(t *testing.T) {
	tests := []struct {
		name   string
		result probe.Result
		want   string
	}{
		{
			name:   "available",
			result: probe.Result{Model: "m", Outcome: probe.OutcomeAvailable},
			want:   "  ✅  m\n",
		},
		{
			name:   "not found",
			result: probe.Result{Model: "m", Outcome: probe.OutcomeNotFound, StatusCode: 404},
			want:   "  ❌  m  (not available)\n",
		},
		{
			name:   "forbidden",
			result: probe.Result{Model: "m", Outcome: probe.OutcomeForbidden, StatusCode: 403},
			want:   "  🔒  m  (no permission)\n",
		},
		{
			name:   "http error",
			result: probe.Result{Model: "m", Outcome: probe.OutcomeError, StatusCode: 529, Message: "Overloaded"},
			want:   "  ⚠️  m  (529: Overloaded)\n",
		},
		{
			name:   "transport error",
			result: probe.Result{Model: "m", Outcome: probe.OutcomeError, Message: "dial tcp: connection refused"},
			want:   "  ⚠️  m  (error: dial tcp: connection refused)\n",
		},
		{
			name:   "auth invalid",
			result: probe.Result{Model: "m", Outcome: probe.OutcomeAuthInvalid, StatusCode: 401, Message: "invalid x-api-key"},
			want:   "\n  ❌  INVALID API KEY — authentication failed.\n      Error: invalid x-api-key\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Line(tt.result))
		})
	}
}

func TestLineClipsMessage(t *testing.T) {
	msg := strings.Repeat("a", 80)
	line := Line(probe.Result{Model: "m", Outcome: probe.OutcomeError, StatusCode: 500, Message: msg})
	assert.Equal(t, "  ⚠️  m  (500: "+strings.Repeat("a", 60)+")\n", line)
}

func TestForbiddenMarkerDiffersFromError(t *testing.T) {
	forbidden := Line(probe.Result{Model: "m", Outcome: probe.OutcomeForbidden})
	generic := Line(probe.Result{Model: "m", Outcome: probe.OutcomeError, StatusCode: 500})
	assert.NotEqual(t, forbidden[:strings.Index(forbidden, "m")], generic[:strings.Index(generic, "m")])
}

func TestTextEndToEnd(t *testing.T) {
	sender := statusSender{
		"model-a": {StatusCode: 200, Body: []byte(`{"type":"message"}`)},
		"model-b": {StatusCode: 404, Body: []byte(`{"type":"error","error":{"type":"not_found_error","message":"model: model-b"}}`)},
		"model-c": {StatusCode: 403, Body: []byte(`{"type":"error","error":{"type":"permission_error","message":"no"}}`)},
	}

	var buf bytes.Buffer
	printer := NewTextPrinter(&buf)
	printer.Header()

	report, err := probe.New(sender, probe.WithObserver(printer)).
		Run(context.Background(), catalog.New("model-a", "model-b", "model-c"))
	require.NoError(t, err)
	printer.Summary(report)

	out := buf.String()
	assert.Contains(t, out, "Anthropic API Key Validator")
	assert.Contains(t, out, "  ✅  model-a\n")
	assert.Contains(t, out, "  ❌  model-b  (not available)\n")
	assert.Contains(t, out, "  🔒  model-c  (no permission)\n")
	assert.Contains(t, out, "Available: 1")
	assert.Contains(t, out, "Unavailable: 2")
	assert.Contains(t, out, "Models you can use:\n    • model-a\n")
	assert.NotContains(t, out, "• model-b")
	assert.NotContains(t, out, "• model-c")

	// lines appear in probe order, before the summary
	assert.Less(t, strings.Index(out, "model-a"), strings.Index(out, "model-b"))
	assert.Less(t, strings.Index(out, "model-c"), strings.Index(out, "Available: 1"))
}

func TestTextEndToEndUnauthorized(t *testing.T) {
	sender := statusSender{
		"model-a": {StatusCode: 401, Body: []byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)},
		"model-b": {StatusCode: 200, Body: []byte(`{"type":"message"}`)},
	}

	var buf bytes.Buffer
	printer := NewTextPrinter(&buf)

	report, err := probe.New(sender, probe.WithObserver(printer)).
		Run(context.Background(), catalog.New("model-a", "model-b"))
	require.NoError(t, err)
	printer.Summary(report)

	out := buf.String()
	assert.Contains(t, out, "INVALID API KEY — authentication failed.")
	assert.Contains(t, out, "Error: invalid x-api-key")
	assert.NotContains(t, out, "model-b")
	assert.NotContains(t, out, "Available:")
	assert.Empty(t, report.Available)
	assert.Empty(t, report.Unavailable)
}

func TestSummaryNoModels(t *testing.T) {
	var buf bytes.Buffer
	NewTextPrinter(&buf).Summary(&probe.Report{
		Unavailable: []catalog.ModelID{"a", "b"},
	})

	out := buf.String()
	assert.Contains(t, out, "Available: 0")
	assert.Contains(t, out, "Unavailable: 2")
	assert.Contains(t, out, "⚠️  No models available. Check your API key and billing.")
	assert.NotContains(t, out, "Models you can use:")
}
