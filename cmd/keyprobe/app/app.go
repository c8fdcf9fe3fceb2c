// Package app provides the application context and dependency management
// for the keyprobe CLI. It centralizes configuration, logging, the model
// catalog and the transport used for probes.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/keyprobe/internal/catalog"
	"github.com/agentstation/keyprobe/internal/probe"
	"github.com/agentstation/keyprobe/internal/transport"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// App represents the keyprobe application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger. customLogger keeps an injected logger across flag parsing.
	logger       *zerolog.Logger
	customLogger bool

	// Probe dependencies. sender is nil unless injected; the run then
	// builds a transport from the config and the credential.
	catalog catalog.Catalog
	sender  probe.Sender

	stdout io.Writer

	// transports created by runs, closed on shutdown
	mu         sync.Mutex
	transports []*transport.Client
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the default locations; functional options
// may replace any dependency.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		catalog: catalog.Default(),
		stdout:  os.Stdout,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Catalog returns the models a run will probe.
func (a *App) Catalog() catalog.Catalog {
	return a.catalog.Clone()
}

// Shutdown releases connections held by transports created during runs.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, t := range a.transports {
		t.CloseIdleConnections()
	}
	a.transports = nil
	a.logger.Debug().Msg("Shutdown complete")
	return nil
}

func (a *App) track(t *transport.Client) {
	a.mu.Lock()
	a.transports = append(a.transports, t)
	a.mu.Unlock()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigError("app", "config is nil", nil)
		}
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.customLogger = logger != nil
		return nil
	}
}

// WithCatalog replaces the compiled-in model catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(a *App) error {
		if err := c.Validate(); err != nil {
			return err
		}
		a.catalog = c.Clone()
		return nil
	}
}

// WithSender sets the probe transport (useful for testing).
func WithSender(s probe.Sender) Option {
	return func(a *App) error {
		a.sender = s
		return nil
	}
}

// WithOutput sets where the report is written.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}
