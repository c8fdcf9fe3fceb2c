package probe

import (
	"context"
	"sync"

	"github.com/agentstation/keyprobe/internal/anthropic"
)

// okBody is a minimal successful messages response.
const okBody = `{"type":"message"}`

// scripted is a canned reply for one model.
type scripted struct {
	status int
	body   string
	err    error
}

// fakeSender replays scripted replies keyed by model and records calls.
type fakeSender struct {
	mu      sync.Mutex
	replies map[string]scripted
	calls   []anthropic.MessageRequest
	onSend  func(model string)
}

func newFakeSender(replies map[string]scripted) *fakeSender {
	return &fakeSender{replies: replies}
}

func (f *fakeSender) Send(_ context.Context, req anthropic.MessageRequest) (*anthropic.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	reply, ok := f.replies[req.Model]
	f.mu.Unlock()

	if f.onSend != nil {
		f.onSend(req.Model)
	}
	if !ok {
		reply = scripted{status: 200, body: okBody}
	}
	if reply.err != nil {
		return nil, reply.err
	}
	return &anthropic.Response{StatusCode: reply.status, Body: []byte(reply.body)}, nil
}

func (f *fakeSender) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Model)
	}
	return out
}
