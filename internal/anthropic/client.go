// Package anthropic provides a minimal client for the Anthropic messages API,
// just enough to send a trial request and hand back the raw outcome.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agentstation/keyprobe/internal/transport"
	"github.com/agentstation/keyprobe/pkg/constants"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageRequest is the body of a POST /v1/messages call.
type MessageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// NewProbeRequest builds the smallest useful request for a model.
func NewProbeRequest(model string) MessageRequest {
	return MessageRequest{
		Model:     model,
		MaxTokens: constants.ProbeMaxTokens,
		Messages: []Message{
			{Role: constants.ProbeRole, Content: constants.ProbePrompt},
		},
	}
}

// Response is the raw outcome of a request that reached the server.
type Response struct {
	StatusCode int
	Body       []byte
}

// Doer sends an authenticated HTTP request.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client sends requests to the messages endpoint.
type Client struct {
	baseURL string
	doer    Doer
}

// NewClient creates a client for baseURL. An empty baseURL uses the public API.
func NewClient(baseURL string, doer Doer) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
	}
}

// Endpoint returns the full messages URL.
func (c *Client) Endpoint() string {
	return c.baseURL + constants.MessagesPath
}

// Send posts msg and returns whatever status and body came back. The error is
// non-nil only when no response was received, or its body could not be read.
func (c *Client) Send(ctx context.Context, msg MessageRequest) (*Response, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.WrapParse("json", "message request", err)
	}

	url := c.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+url, err)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	body, err := transport.ReadBody(resp)
	if err != nil {
		return nil, transport.Classify(err, url)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
