package probe

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agentstation/keyprobe/internal/transport"
	"github.com/agentstation/keyprobe/pkg/constants"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// ErrorBody is the best-effort reading of an API error response.
type ErrorBody struct {
	Type    string
	Message string
	// Decoded is false when the body was not JSON and Message holds raw text.
	Decoded bool
}

// ParseErrorBody reads error.type and error.message from body. A body that is
// not a JSON object, or whose "error" member is present but not an object,
// falls back to an empty type and the leading raw text as message.
func ParseErrorBody(body []byte) ErrorBody {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return rawErrorBody(body)
	}
	if e := gjson.GetBytes(body, "error"); e.Exists() && !e.IsObject() {
		return rawErrorBody(body)
	}

	fields := gjson.GetManyBytes(body, "error.type", "error.message")
	return ErrorBody{
		Type:    fields[0].String(),
		Message: fields[1].String(),
		Decoded: true,
	}
}

func rawErrorBody(body []byte) ErrorBody {
	return ErrorBody{Message: truncate(string(body), constants.RawBodyMessageLimit)}
}

// Classify turns an HTTP status and body into a Result. The caller fills in
// the model and latency. A 2xx whose body is not JSON is a failed exchange,
// reported like a transport error.
func Classify(status int, body []byte) Result {
	if status >= 200 && status < 300 {
		if !gjson.ValidBytes(body) {
			return malformedBody(status, body)
		}
		return Result{Outcome: OutcomeAvailable, StatusCode: status}
	}

	eb := ParseErrorBody(body)
	r := Result{
		StatusCode: status,
		ErrorType:  eb.Type,
		Message:    eb.Message,
	}

	switch {
	case status == http.StatusUnauthorized:
		r.Outcome = OutcomeAuthInvalid
	case status == http.StatusNotFound || strings.Contains(eb.Type, "not_found"):
		r.Outcome = OutcomeNotFound
	case status == http.StatusForbidden || strings.Contains(eb.Type, "permission"):
		r.Outcome = OutcomeForbidden
	default:
		r.Outcome = OutcomeError
	}
	return r
}

// ClassifyTransportError turns a failed request into an error Result with no
// status code. The kind says what failed; the outcome is the same for all kinds.
func ClassifyTransportError(err error) Result {
	te := transport.Classify(err, "")
	return Result{
		Outcome:   OutcomeError,
		ErrorKind: te.Kind,
		Message:   err.Error(),
	}
}

func malformedBody(status int, body []byte) Result {
	return Result{
		Outcome:   OutcomeError,
		ErrorKind: errors.TransportMalformedBody,
		Message: fmt.Sprintf("malformed response body (status %d): %s",
			status, truncate(string(body), constants.RawBodyMessageLimit)),
	}
}

// AsAPIError expresses a non-available result as an error value.
func (r Result) AsAPIError() error {
	switch {
	case r.Outcome.Available():
		return nil
	case r.Transport():
		return &errors.TransportError{Kind: r.ErrorKind, Err: errors.New(r.Message)}
	default:
		return errors.NewAPIError("anthropic", r.StatusCode, r.ErrorType, r.Message)
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
