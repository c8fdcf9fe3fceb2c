// Package probe checks which models on the messages API accept a credential.
//
// A run sends one trial request per model, in catalog order, and sorts each
// model into available or unavailable. A rejected credential (HTTP 401) stops
// the run at once, since no later model can succeed with the same key.
package probe

import (
	"time"

	"github.com/agentstation/keyprobe/internal/catalog"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// Outcome is the classification of one probe.
type Outcome string

// Probe outcomes.
const (
	OutcomeAvailable   Outcome = "available"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeForbidden   Outcome = "forbidden"
	OutcomeAuthInvalid Outcome = "auth_invalid"
	OutcomeError       Outcome = "error"
)

// Available reports whether the model accepted the request.
func (o Outcome) Available() bool {
	return o == OutcomeAvailable
}

// Fatal reports whether the outcome ends the whole run.
func (o Outcome) Fatal() bool {
	return o == OutcomeAuthInvalid
}

// Result is the classified outcome of probing one model.
type Result struct {
	Model      catalog.ModelID      `json:"model" yaml:"model"`
	Outcome    Outcome              `json:"outcome" yaml:"outcome"`
	StatusCode int                  `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	ErrorType  string               `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Message    string               `json:"message,omitempty" yaml:"message,omitempty"`
	ErrorKind  errors.TransportKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Latency    time.Duration        `json:"latency" yaml:"latency"`
}

// Transport reports whether the probe failed before any HTTP response arrived.
func (r Result) Transport() bool {
	return r.Outcome == OutcomeError && r.StatusCode == 0
}

// Step tells the run loop whether to keep going after a probe.
type Step int

// Run loop steps.
const (
	StepContinue Step = iota
	StepStop
)

// String returns the step name.
func (s Step) String() string {
	if s == StepStop {
		return "stop"
	}
	return "continue"
}

// stepFor maps an outcome to the run loop step it implies.
func stepFor(o Outcome) Step {
	if o.Fatal() {
		return StepStop
	}
	return StepContinue
}
