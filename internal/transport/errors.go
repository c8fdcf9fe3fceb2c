package transport

import (
	"context"
	"io"
	"net"
	"syscall"

	"github.com/agentstation/keyprobe/pkg/errors"
)

// Classify wraps a failed request as a TransportError with a kind describing
// what went wrong below the HTTP layer.
func Classify(err error, endpoint string) *errors.TransportError {
	var te *errors.TransportError
	if errors.As(err, &te) {
		return te
	}
	return &errors.TransportError{
		Kind:     kindOf(err),
		Endpoint: endpoint,
		Err:      err,
	}
}

func kindOf(err error) errors.TransportKind {
	var (
		dnsErr *net.DNSError
		netErr net.Error
	)

	switch {
	case errors.Is(err, context.Canceled):
		return errors.TransportCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errors.TransportTimeout
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return errors.TransportTimeout
		}
		return errors.TransportDNS
	case errors.Is(err, syscall.ECONNREFUSED):
		return errors.TransportConnectionRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.TransportConnectionReset
	case errors.As(err, &netErr) && netErr.Timeout():
		return errors.TransportTimeout
	default:
		return errors.TransportOther
	}
}
