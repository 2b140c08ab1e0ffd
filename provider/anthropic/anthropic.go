// Package anthropic implements provider.Provider on top of the official
// Anthropic Messages API client.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/claudebridge/claudebridge/chat"
	"github.com/claudebridge/claudebridge/provider"
	"github.com/claudebridge/claudebridge/tooldef"
)

// Options configures the Anthropic provider. An empty APIKey falls back to
// the SDK's environment lookup.
type Options struct {
	APIKey  string
	BaseURL string
}

// Provider wraps the Anthropic Messages API behind the provider.Provider
// interface. The client is the only long-lived, read-only resource shared
// across requests.
type Provider struct {
	client *anthropic.Client
}

// New creates a Provider using the official client.
func New(optFns ...func(o *Options)) *Provider {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)
	return &Provider{client: &client}
}

// NewFromClient creates a Provider from an existing client.
func NewFromClient(client *anthropic.Client) *Provider {
	return &Provider{client: client}
}

// Complete issues one blocking Messages API call and returns the provider's
// response object verbatim together with its reported usage.
func (p *Provider) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	resp, err := p.client.Messages.New(ctx, buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	return &provider.Response{
		Message: []byte(resp.RawJSON()),
		Usage: chat.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}

// Stream issues one streaming Messages API call and forwards each SSE event
// as its raw JSON record. The goroutine drains the upstream stream and closes
// both channels when it ends.
func (p *Provider) Stream(ctx context.Context, req provider.Request) (<-chan provider.Event, <-chan error) {
	out := make(chan provider.Event, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		stream := p.client.Messages.NewStreaming(ctx, buildParams(req))
		for stream.Next() {
			ev := stream.Current()
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- provider.Event(ev.RawJSON()):
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("anthropic streaming error: %w", err)
		}
	}()

	return out, errCh
}

// buildParams assembles the Messages API request from the adapted payload.
func buildParams(req provider.Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages:    buildMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = tooldef.ToClaudeParams(req.Tools)
	}
	return params
}

// buildMessages converts adapted messages to the SDK's message params.
// Normalization upstream guarantees there are no system entries here.
func buildMessages(messages []chat.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		blocks := buildBlocks(m.Content)
		if len(blocks) == 0 {
			continue
		}
		switch m.Role {
		case chat.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func buildBlocks(parts []chat.Part) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, p := range parts {
		if p.Type == "text" && p.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		}
	}
	return blocks
}
