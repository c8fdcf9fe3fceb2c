package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// HeaderAuth writes the credential, unmodified, into a custom header.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth. An empty key
// is still sent, so the server decides whether it is acceptable.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	if a.Header == "" {
		return
	}
	req.Header.Set(a.Header, apiKey)
}
