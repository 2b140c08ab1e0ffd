// Package provider defines the contract between the dispatcher and the
// upstream conversational-AI backend: one synchronous request/response pair,
// or an asynchronous sequence of raw wire events for streaming sessions.
package provider

import (
	"context"
	"encoding/json"

	"github.com/claudebridge/claudebridge/chat"
	"github.com/claudebridge/claudebridge/tooldef"
)

// Request carries everything the upstream needs for one completion call.
type Request struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	System      string
	Messages    []chat.Message
	Tools       []tooldef.Tool
}

// Response is the result of a non-streaming completion. Message holds the
// provider's response object verbatim; the adapter does not reinterpret it.
type Response struct {
	Message json.RawMessage
	Usage   chat.Usage
}

// Event is one raw record from the provider's event stream. Records carry a
// "type" discriminator, optional "delta" fields, and usage counters either at
// the top level or under "message.usage".
type Event = json.RawMessage

// Provider is the upstream collaborator. Implementations must not retry;
// failures propagate to the caller unchanged.
type Provider interface {
	// Complete issues one request and blocks until the full response arrives.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Stream issues one request and returns the provider's event sequence.
	// Both channels are closed by the implementation once the upstream
	// stream ends; at most one error is sent.
	Stream(ctx context.Context, req Request) (<-chan Event, <-chan error)
}
