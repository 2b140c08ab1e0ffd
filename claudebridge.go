// Package claudebridge adapts a generic chat-completion interface onto the
// Anthropic Messages API. It normalizes heterogeneous caller-supplied message
// and tool-definition shapes, enforces an input token budget before any
// network call, and dispatches either a blocking completion or a background
// streaming session transcoded into line-delimited events. Most applications
// interact with this package by:
//  1. Creating a Bridge via New() around a provider (see provider/anthropic)
//  2. Calling Complete for request/response or CompleteStream for streaming
//  3. Reading StreamHandle.Events incrementally and StreamHandle.Usage once
//
// All per-request state is created at request entry and discarded when the
// call (or stream) completes; the provider client is the only long-lived
// shared resource.
package claudebridge

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claudebridge/claudebridge/budget"
	"github.com/claudebridge/claudebridge/catalog"
	"github.com/claudebridge/claudebridge/chat"
	"github.com/claudebridge/claudebridge/logging"
	"github.com/claudebridge/claudebridge/provider"
	"github.com/claudebridge/claudebridge/stream"
	"github.com/claudebridge/claudebridge/tooldef"
)

// defaultPreamble describes the adapter's role to the model. It can be
// replaced via Options so tests never need to assert on the literal text.
const defaultPreamble = "You are a helpful assistant integrated into a chat workspace. Answer concisely and stay on topic."

// Options configures a Bridge.
type Options struct {
	// DefaultModel is used when a request does not name a model.
	DefaultModel string

	// MaxTokens caps the provider's output length.
	MaxTokens int64

	// Temperature is the fixed sampling temperature. The zero default keeps
	// responses reproducible.
	Temperature float64

	// TokenLimit is the input budget; values <= 0 select budget.DefaultLimit.
	TokenLimit int

	// Preamble is prepended to the outbound system instruction.
	Preamble string

	// Logger defaults to a NoOpLogger.
	Logger logging.Logger
}

// Request is one completion call. Tools may arrive in any of the recognized
// definition conventions; they are normalized before dispatch.
type Request struct {
	Messages []chat.Message    `json:"messages"`
	Tools    []json.RawMessage `json:"tools,omitempty"`
	Model    string            `json:"model,omitempty"`
}

// Completion is the result of a non-streaming call. Message holds the
// provider's response object verbatim.
type Completion struct {
	Message      json.RawMessage `json:"message"`
	Usage        chat.Usage      `json:"usage"`
	FinishReason string          `json:"finish_reason"`
}

// StreamHandle exposes a running streaming session. Events carries one
// record per text delta, in provider order. Usage delivers the final totals
// exactly once, only after Events has been closed. Err surfaces at most one
// provider error. Abandoning the handle does not stop the background task.
type StreamHandle struct {
	Events <-chan stream.Event
	Usage  <-chan chat.Usage
	Err    <-chan error
}

// Bridge is the dispatching entry point.
type Bridge struct {
	provider provider.Provider
	opts     Options
}

// New creates a Bridge around the given provider with optional overrides.
func New(p provider.Provider, optFns ...func(o *Options)) *Bridge {
	opts := Options{
		DefaultModel: catalog.Default().ID,
		MaxTokens:    2048,
		Temperature:  0,
		TokenLimit:   budget.DefaultLimit,
		Preamble:     defaultPreamble,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Bridge{provider: p, opts: opts}
}

// Complete issues one blocking completion request. It fails with a
// *budget.ExceededError before any network call when the input estimate is
// over the configured limit. Provider failures propagate unchanged; there is
// no retry.
func (b *Bridge) Complete(ctx context.Context, req Request) (*Completion, error) {
	start := time.Now()
	requestID := uuid.NewString()

	preq, estimate, err := b.prepare(req)
	if err != nil {
		b.opts.Logger.Warn("request rejected", "request_id", requestID, "error", err)
		return nil, err
	}
	b.opts.Logger.Debug("dispatching completion",
		"request_id", requestID,
		"model", preq.Model,
		"messages", len(preq.Messages),
		"estimated_tokens", estimate)

	resp, err := b.provider.Complete(ctx, preq)
	if err != nil {
		return nil, err
	}

	b.opts.Logger.Info("completion finished",
		"request_id", requestID,
		"model", preq.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", time.Since(start))

	return &Completion{
		Message:      resp.Message,
		Usage:        resp.Usage,
		FinishReason: "stop",
	}, nil
}

// CompleteStream starts a streaming completion and returns a handle
// immediately; the provider call and the transcoder run in the background, so
// the caller never blocks on the network. Budget enforcement happens before
// the handle is created. There is no cancellation of an in-flight stream
// beyond ctx.
func (b *Bridge) CompleteStream(ctx context.Context, req Request) (*StreamHandle, error) {
	requestID := uuid.NewString()

	preq, estimate, err := b.prepare(req)
	if err != nil {
		b.opts.Logger.Warn("request rejected", "request_id", requestID, "error", err)
		return nil, err
	}
	b.opts.Logger.Debug("dispatching streaming completion",
		"request_id", requestID,
		"model", preq.Model,
		"messages", len(preq.Messages),
		"estimated_tokens", estimate)

	events, errCh := b.provider.Stream(ctx, preq)
	out, usage := stream.Transcode(events)

	return &StreamHandle{Events: out, Usage: usage, Err: errCh}, nil
}

// Models returns the static model catalog.
func (b *Bridge) Models() []catalog.Descriptor {
	return catalog.Models()
}

// List returns all model ids and aliases flattened into one list.
func (b *Bridge) List() []string {
	return catalog.List()
}

// prepare runs normalization and budget enforcement and assembles the
// outbound provider request.
func (b *Bridge) prepare(req Request) (provider.Request, int, error) {
	adapted, system := chat.Normalize(req.Messages)

	estimate, err := budget.Check(adapted, system, b.opts.TokenLimit)
	if err != nil {
		return provider.Request{}, estimate, err
	}

	model := req.Model
	if model == "" {
		model = b.opts.DefaultModel
	}

	return provider.Request{
		Model:       model,
		MaxTokens:   b.opts.MaxTokens,
		Temperature: b.opts.Temperature,
		System:      b.systemInstruction(system),
		Messages:    adapted,
		Tools:       tooldef.Normalize(req.Tools),
	}, estimate, nil
}

// systemInstruction joins the configured preamble with the extracted system
// prompts, in encounter order, into the provider-level instruction channel.
func (b *Bridge) systemInstruction(system []chat.Part) string {
	var sb strings.Builder
	sb.WriteString(b.opts.Preamble)
	for _, p := range system {
		if p.Type != "text" || p.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}
