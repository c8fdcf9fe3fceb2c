package errors_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/keyprobe/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "catalog",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field catalog: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("format", "xml", "unsupported")
		assert.Contains(t, err.Error(), "format")
		assert.Contains(t, err.Error(), "unsupported")
	})
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Provider:   "anthropic",
			StatusCode: 429,
			Message:    "rate limit exceeded",
			Endpoint:   "https://api.anthropic.com/v1/messages",
		}
		assert.Contains(t, err.Error(), "anthropic")
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "rate limit exceeded")
		assert.False(t, errors.Is(err, pkgerrors.ErrAPIKeyInvalid))
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("connection timeout")
		err := &pkgerrors.APIError{
			Provider: "anthropic",
			Message:  "request failed",
			Err:      baseErr,
		}
		assert.Contains(t, err.Error(), "request failed")
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("status sentinels", func(t *testing.T) {
		tests := []struct {
			status int
			target error
		}{
			{401, pkgerrors.ErrAPIKeyInvalid},
			{403, pkgerrors.ErrPermissionDenied},
			{404, pkgerrors.ErrNotFound},
		}
		for _, tt := range tests {
			err := pkgerrors.NewAPIError("anthropic", tt.status, "", "x")
			assert.True(t, errors.Is(err, tt.target), "status %d", tt.status)
		}
		assert.False(t, errors.Is(pkgerrors.NewAPIError("anthropic", 400, "", "x"), pkgerrors.ErrNotFound))
	})

	t.Run("constructor keeps error type", func(t *testing.T) {
		err := pkgerrors.NewAPIError("anthropic", 529, "overloaded_error", "Overloaded")
		assert.Equal(t, "overloaded_error", err.Type)
		assert.Contains(t, err.Error(), "status 529")
	})
}

func TestTransportError(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		err := &pkgerrors.TransportError{Kind: pkgerrors.TransportTimeout, Err: context.DeadlineExceeded}
		assert.True(t, pkgerrors.IsTimeout(err))
		assert.False(t, pkgerrors.IsCanceled(err))
		assert.Equal(t, context.DeadlineExceeded.Error(), err.Error())
	})

	t.Run("canceled", func(t *testing.T) {
		err := &pkgerrors.TransportError{Kind: pkgerrors.TransportCanceled, Err: context.Canceled}
		assert.True(t, pkgerrors.IsCanceled(err))
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("no underlying error", func(t *testing.T) {
		err := &pkgerrors.TransportError{Kind: pkgerrors.TransportDNS}
		assert.Equal(t, "transport error (dns)", err.Error())
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("config", "timeout must be positive", nil)
	assert.Contains(t, err.Error(), "config")
	assert.Contains(t, err.Error(), "timeout must be positive")

	wrapped := pkgerrors.NewConfigError("", "unreadable", errors.New("boom"))
	assert.Equal(t, "configuration error: unreadable", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "boom")
}

func TestAuthenticationError(t *testing.T) {
	err := pkgerrors.NewAuthenticationError("anthropic", "api_key", "invalid x-api-key", nil)
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "api_key")
	assert.True(t, errors.Is(err, pkgerrors.ErrAPIKeyInvalid))

	cause := pkgerrors.NewAPIError("anthropic", 401, "authentication_error", "invalid x-api-key")
	wrapped := pkgerrors.NewAuthenticationError("anthropic", "api_key", cause.Message, cause)
	var apiErr *pkgerrors.APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("read", "response body", errors.New("unexpected EOF"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "read", ioErr.Operation)
		assert.Equal(t, "response body", ioErr.Path)
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})

	t.Run("WrapResource", func(t *testing.T) {
		err := pkgerrors.WrapResource("create", "request", "POST /v1/messages", errors.New("bad url"))
		resErr, ok := err.(*pkgerrors.ResourceError)
		require.True(t, ok)
		assert.Contains(t, resErr.Error(), "failed to create request POST /v1/messages: bad url")
		assert.Nil(t, pkgerrors.WrapResource("create", "request", "", nil))
	})

	t.Run("WrapParse", func(t *testing.T) {
		err := pkgerrors.WrapParse("yaml", ".keyprobe.yaml", errors.New("bad indent"))
		parseErr, ok := err.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "yaml", parseErr.Format)
		assert.Contains(t, parseErr.Error(), ".keyprobe.yaml")
		assert.Nil(t, pkgerrors.WrapParse("json", "", nil))
	})
}
