// Package constants provides shared constants used throughout the keyprobe codebase.
// This includes timeouts, endpoint details, probe parameters, and output limits
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single probe request
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout is how long cleanup may take after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Anthropic API constants
const (
	// DefaultBaseURL is the base URL of the Anthropic API
	DefaultBaseURL = "https://api.anthropic.com"

	// MessagesPath is the path of the messages endpoint, relative to the base URL
	MessagesPath = "/v1/messages"

	// APIKeyHeader carries the credential on every probe
	APIKeyHeader = "x-api-key"

	// VersionHeader carries the protocol version on every probe
	VersionHeader = "anthropic-version"

	// APIVersion is the fixed protocol version sent with every probe
	APIVersion = "2023-06-01"
)

// Probe constants define the shape of a trial request
const (
	// ProbeMaxTokens is the token budget for a trial request
	ProbeMaxTokens = 10

	// ProbeRole is the role of the single trial message
	ProbeRole = "user"

	// ProbePrompt is the content of the single trial message
	ProbePrompt = "Hi"
)

// Output limits
const (
	// RawBodyMessageLimit is how much of an undecodable error body is kept as the message
	RawBodyMessageLimit = 100

	// LineMessageLimit is how much of an error message is shown on a report line
	LineMessageLimit = 60

	// RuleWidth is the width of the banner and separator rules
	RuleWidth = 50
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Error messages
const (
	// ErrMsgInvalidAPIKey is the standard error message for rejected credentials
	ErrMsgInvalidAPIKey = "INVALID API KEY — authentication failed."

	// ErrMsgNoModels is shown when no model in the catalog accepted the credential
	ErrMsgNoModels = "No models available. Check your API key and billing."
)
