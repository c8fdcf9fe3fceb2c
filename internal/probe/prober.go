package probe

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/keyprobe/internal/anthropic"
	"github.com/agentstation/keyprobe/internal/catalog"
	"github.com/agentstation/keyprobe/pkg/errors"
	"github.com/agentstation/keyprobe/pkg/logging"
)

// Sender delivers one trial request. A non-nil error means no HTTP response
// was received; error statuses come back as a Response.
type Sender interface {
	Send(ctx context.Context, req anthropic.MessageRequest) (*anthropic.Response, error)
}

// Observer is told about each result as soon as it is classified.
type Observer interface {
	Observe(Result)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Result)

// Observe calls f(r).
func (f ObserverFunc) Observe(r Result) {
	f(r)
}

type nopObserver struct{}

func (nopObserver) Observe(Result) {}

// Prober runs trial requests against a catalog of models.
type Prober struct {
	sender   Sender
	observer Observer
	now      func() time.Time
}

// Option configures a Prober.
type Option func(*Prober)

// WithObserver sets the observer notified after each probe.
func WithObserver(o Observer) Option {
	return func(p *Prober) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithClock overrides the clock used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Prober that sends requests through sender.
func New(sender Sender, opts ...Option) *Prober {
	p := &Prober{
		sender:   sender,
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProbeModel sends one trial request for model and classifies the outcome.
// Transport failures are folded into the result and never returned.
func (p *Prober) ProbeModel(ctx context.Context, model catalog.ModelID) (Result, Step) {
	ctx = logging.WithModel(ctx, model.String())

	start := p.now()
	resp, err := p.sender.Send(ctx, anthropic.NewProbeRequest(model.String()))
	latency := p.now().Sub(start)

	var r Result
	if err != nil {
		r = ClassifyTransportError(err)
	} else {
		r = Classify(resp.StatusCode, resp.Body)
	}
	r.Model = model
	r.Latency = latency

	event := logging.FromContext(ctx).Debug().
		Int("status", r.StatusCode).
		Str("outcome", string(r.Outcome)).
		Dur("latency", latency)
	if r.ErrorKind != "" {
		event = event.Str("kind", string(r.ErrorKind))
	}
	if !r.Outcome.Available() {
		event = event.Err(r.AsAPIError())
	}
	event.Msg("Probe classified")

	return r, stepFor(r.Outcome)
}

// Run probes every model in c, in order, and returns the accumulated report.
// A rejected credential stops the run after that request; the report then
// records the failure and keeps whatever was classified before it.
func (p *Prober) Run(ctx context.Context, c catalog.Catalog) (*Report, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	report := newReport(c)

	for _, model := range c {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Int("remaining", len(c)-report.Probed()).Msg("Run interrupted")
			report.finish()
			return report, &errors.TransportError{Kind: errors.TransportCanceled, Err: err}
		}

		r, step := p.ProbeModel(ctx, model)
		p.observer.Observe(r)

		if step == StepStop {
			report.stop(r)
			authErr := errors.NewAuthenticationError("anthropic", "api_key", r.Message, r.AsAPIError())
			logger.Warn().Err(authErr).Str("model_id", model.String()).Int("status", r.StatusCode).Msg("Credential rejected, stopping run")
			break
		}
		report.add(r)
	}

	report.finish()
	logger.Info().
		Int("available", len(report.Available)).
		Int("unavailable", len(report.Unavailable)).
		Bool("auth_failed", report.AuthFailed).
		Bool("complete", report.Complete()).
		Msg("Run complete")

	return report, nil
}

// Report is the accumulated outcome of one run.
type Report struct {
	Catalog     catalog.Catalog   `json:"catalog" yaml:"catalog"`
	Available   []catalog.ModelID `json:"available" yaml:"available"`
	Unavailable []catalog.ModelID `json:"unavailable" yaml:"unavailable"`
	Results     []Result          `json:"results" yaml:"results"`
	AuthFailed  bool              `json:"auth_failed" yaml:"auth_failed"`
	AuthMessage string            `json:"auth_message,omitempty" yaml:"auth_message,omitempty"`
	StartedAt   utc.Time          `json:"started_at" yaml:"started_at"`
	FinishedAt  utc.Time          `json:"finished_at" yaml:"finished_at"`
}

func newReport(c catalog.Catalog) *Report {
	return &Report{
		Catalog:     c.Clone(),
		Available:   []catalog.ModelID{},
		Unavailable: []catalog.ModelID{},
		Results:     make([]Result, 0, len(c)),
		StartedAt:   utc.Now(),
	}
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	if res.Outcome.Available() {
		r.Available = append(r.Available, res.Model)
		return
	}
	r.Unavailable = append(r.Unavailable, res.Model)
}

func (r *Report) stop(res Result) {
	r.Results = append(r.Results, res)
	r.AuthFailed = true
	r.AuthMessage = res.Message
}

func (r *Report) finish() {
	r.FinishedAt = utc.Now()
}

// Probed returns how many models were sent a request.
func (r *Report) Probed() int {
	return len(r.Results)
}

// Complete reports whether every model in the catalog was probed.
func (r *Report) Complete() bool {
	return !r.AuthFailed && len(r.Results) == len(r.Catalog)
}
