package provider

import (
	"context"
	"encoding/json"

	"github.com/claudebridge/claudebridge/chat"
)

// MockProvider is a deterministic in-memory Provider useful for tests and
// examples. It records the last request it received.
type MockProvider struct {
	Response *Response
	Events   []Event
	Err      error

	LastRequest *Request
	Calls       int
}

// Complete implements Provider with a canned response.
func (m *MockProvider) Complete(_ context.Context, req Request) (*Response, error) {
	m.LastRequest = &req
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response != nil {
		return m.Response, nil
	}
	return &Response{
		Message: json.RawMessage(`{"role":"assistant","content":[{"type":"text","text":"ok"}]}`),
		Usage:   chat.Usage{},
	}, nil
}

// Stream implements Provider by replaying the scripted events.
func (m *MockProvider) Stream(ctx context.Context, req Request) (<-chan Event, <-chan error) {
	m.LastRequest = &req
	m.Calls++

	out := make(chan Event, len(m.Events))
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)
		if m.Err != nil {
			errCh <- m.Err
			return
		}
		for _, ev := range m.Events {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- ev:
			}
		}
	}()

	return out, errCh
}
