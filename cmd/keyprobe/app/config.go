package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/keyprobe/pkg/constants"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// minTimeout rejects unitless durations such as KEYPROBE_TIMEOUT=5, which
// parse as nanoseconds.
const minTimeout = time.Millisecond

// envPrefix namespaces keyprobe's environment variables (KEYPROBE_TIMEOUT, ...).
const envPrefix = "KEYPROBE"

// Config holds the application configuration loaded from config files,
// environment variables, .env files and command-line flags.
//
// The credential is never part of the config; it only comes from the
// command line.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Probe configuration
	Timeout time.Duration
	BaseURL string

	// Logging configuration. LogLevel comes from --log-level only;
	// DefaultLogLevel from LOG_LEVEL or the config file, and loses to -v/-q.
	LogLevel        string
	DefaultLogLevel string
	LogFormat       string
	LogOutput       string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by ApplyFlags)
//  2. Environment variables (KEYPROBE_*, plus LOG_LEVEL/LOG_FORMAT/LOG_OUTPUT/NO_COLOR)
//  3. .env files
//  4. Config file (configFile, or ~/.keyprobe.yaml / ./.keyprobe.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("base_url", constants.DefaultBaseURL)
	v.SetDefault("format", "text")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	// The unprefixed logging variables shared with the logging package.
	_ = v.BindEnv("log_level", envPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log_format", envPrefix+"_LOG_FORMAT", "LOG_FORMAT")
	_ = v.BindEnv("log_output", envPrefix+"_LOG_OUTPUT", "LOG_OUTPUT")
	_ = v.BindEnv("no_color", envPrefix+"_NO_COLOR", "NO_COLOR")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".keyprobe")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot read "+v.ConfigFileUsed(), err)
			}
		}
	}

	config := &Config{
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),
		Timeout:    v.GetDuration("timeout"),
		BaseURL:    v.GetString("base_url"),
		LogFormat:  v.GetString("log_format"),
		LogOutput:  v.GetString("log_output"),

		DefaultLogLevel: v.GetString("log_level"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyFlags overrides config values with flags the user set explicitly.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) {
	if f := flags.Lookup("verbose"); f != nil && f.Changed {
		c.Verbose, _ = flags.GetBool("verbose")
	}
	if f := flags.Lookup("quiet"); f != nil && f.Changed {
		c.Quiet, _ = flags.GetBool("quiet")
	}
	if f := flags.Lookup("no-color"); f != nil && f.Changed {
		c.NoColor, _ = flags.GetBool("no-color")
	}
	if f := flags.Lookup("format"); f != nil && f.Changed {
		c.Format, _ = flags.GetString("format")
	}
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		c.Timeout, _ = flags.GetDuration("timeout")
	}
	if f := flags.Lookup("base-url"); f != nil && f.Changed {
		c.BaseURL, _ = flags.GetString("base-url")
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Timeout < minTimeout {
		return errors.NewConfigError("config",
			fmt.Sprintf("timeout %s is below %s; durations need a unit, e.g. 30s", c.Timeout, minTimeout), nil)
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return errors.NewConfigError("config", "base_url must start with http:// or https://", nil)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
