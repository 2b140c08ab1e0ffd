package claudebridge

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudebridge/claudebridge/budget"
	"github.com/claudebridge/claudebridge/chat"
	"github.com/claudebridge/claudebridge/provider"
)

func userText(text string) chat.Message {
	return chat.Message{Role: chat.RoleUser, Content: []chat.Part{chat.TextPart(text)}}
}

// -------------------- Complete Tests --------------------

func TestComplete_ReturnsProviderResponseVerbatim(t *testing.T) {
	raw := json.RawMessage(`{"role":"assistant","content":[{"type":"text","text":"hello"}]}`)
	mock := &provider.MockProvider{
		Response: &provider.Response{Message: raw, Usage: chat.Usage{InputTokens: 4, OutputTokens: 9}},
	}
	bridge := New(mock)

	result, err := bridge.Complete(context.Background(), Request{Messages: []chat.Message{userText("hi")}})
	require.NoError(t, err)

	assert.Equal(t, raw, result.Message)
	assert.Equal(t, chat.Usage{InputTokens: 4, OutputTokens: 9}, result.Usage)
	assert.Equal(t, "stop", result.FinishReason)
}

func TestComplete_AdaptsMessagesBeforeDispatch(t *testing.T) {
	mock := &provider.MockProvider{}
	bridge := New(mock, func(o *Options) {
		o.Preamble = "adapter preamble"
	})

	_, err := bridge.Complete(context.Background(), Request{Messages: []chat.Message{
		{Role: chat.RoleSystem, Content: []chat.Part{chat.TextPart("stay terse")}},
		userText("a"),
		userText("b"),
	}})
	require.NoError(t, err)

	require.NotNil(t, mock.LastRequest)
	sent := mock.LastRequest

	// System content moved to the instruction channel, user turns merged.
	require.Len(t, sent.Messages, 1)
	assert.Equal(t, chat.RoleUser, sent.Messages[0].Role)
	assert.Len(t, sent.Messages[0].Content, 2)

	assert.True(t, strings.HasPrefix(sent.System, "adapter preamble"))
	assert.Contains(t, sent.System, "stay terse")
}

func TestComplete_ModelSelection(t *testing.T) {
	mock := &provider.MockProvider{}
	bridge := New(mock, func(o *Options) {
		o.DefaultModel = "default-model"
	})

	_, err := bridge.Complete(context.Background(), Request{Messages: []chat.Message{userText("hi")}})
	require.NoError(t, err)
	assert.Equal(t, "default-model", mock.LastRequest.Model)

	_, err = bridge.Complete(context.Background(), Request{
		Messages: []chat.Message{userText("hi")},
		Model:    "explicit-model",
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit-model", mock.LastRequest.Model)
}

func TestComplete_NormalizesTools(t *testing.T) {
	mock := &provider.MockProvider{}
	bridge := New(mock)

	_, err := bridge.Complete(context.Background(), Request{
		Messages: []chat.Message{userText("hi")},
		Tools: []json.RawMessage{
			json.RawMessage(`{"name":"lookup","input_schema":{"type":"object"}}`),
		},
	})
	require.NoError(t, err)

	require.Len(t, mock.LastRequest.Tools, 1)
	assert.Equal(t, "function", mock.LastRequest.Tools[0].Type)
	assert.Equal(t, "lookup", mock.LastRequest.Tools[0].Function.Name)
}

func TestComplete_RejectsOversizedInputBeforeDispatch(t *testing.T) {
	mock := &provider.MockProvider{}
	bridge := New(mock, func(o *Options) {
		o.TokenLimit = 5
	})

	_, err := bridge.Complete(context.Background(), Request{
		Messages: []chat.Message{userText(strings.Repeat("x", 200))},
	})

	var exceeded *budget.ExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 5, exceeded.MaxTokens)
	assert.Greater(t, exceeded.InputTokens, 5)
	assert.Zero(t, mock.Calls, "provider must not be called after budget rejection")
}

func TestComplete_PropagatesProviderError(t *testing.T) {
	mock := &provider.MockProvider{Err: assert.AnError}
	bridge := New(mock)

	_, err := bridge.Complete(context.Background(), Request{Messages: []chat.Message{userText("hi")}})
	assert.ErrorIs(t, err, assert.AnError)
}

// -------------------- CompleteStream Tests --------------------

func TestCompleteStream_TranscodesEvents(t *testing.T) {
	mock := &provider.MockProvider{Events: []provider.Event{
		provider.Event(`{"type":"content_block_delta","delta":{"type":"text_delta","text":"Hel"}}`),
		provider.Event(`{"type":"content_block_delta","delta":{"type":"text_delta","text":"lo"}}`),
		provider.Event(`{"type":"message_delta","usage":{"input_tokens":3,"output_tokens":2}}`),
	}}
	bridge := New(mock)

	handle, err := bridge.CompleteStream(context.Background(), Request{Messages: []chat.Message{userText("hi")}})
	require.NoError(t, err)

	var texts []string
	for ev := range handle.Events {
		texts = append(texts, ev.Text)
	}
	assert.Equal(t, []string{"Hel", "lo"}, texts)

	usage := <-handle.Usage
	assert.Equal(t, chat.Usage{InputTokens: 3, OutputTokens: 2}, usage)

	err, open := <-handle.Err
	if open {
		assert.NoError(t, err)
	}
}

func TestCompleteStream_BudgetRejection(t *testing.T) {
	mock := &provider.MockProvider{}
	bridge := New(mock, func(o *Options) {
		o.TokenLimit = 1
	})

	_, err := bridge.CompleteStream(context.Background(), Request{
		Messages: []chat.Message{userText(strings.Repeat("y", 100))},
	})

	var exceeded *budget.ExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Zero(t, mock.Calls)
}

func TestCompleteStream_SurfacesProviderError(t *testing.T) {
	mock := &provider.MockProvider{Err: assert.AnError}
	bridge := New(mock)

	handle, err := bridge.CompleteStream(context.Background(), Request{Messages: []chat.Message{userText("hi")}})
	require.NoError(t, err)

	for range handle.Events {
	}
	assert.ErrorIs(t, <-handle.Err, assert.AnError)
}

// -------------------- Catalog Tests --------------------

func TestModelsAndList(t *testing.T) {
	bridge := New(&provider.MockProvider{})

	models := bridge.Models()
	require.NotEmpty(t, models)

	names := bridge.List()
	for _, m := range models {
		assert.Contains(t, names, m.ID)
		for _, a := range m.Aliases {
			assert.Contains(t, names, a)
		}
	}
}

func TestSystemInstruction_EmptySystemKeepsPreambleOnly(t *testing.T) {
	bridge := New(&provider.MockProvider{}, func(o *Options) {
		o.Preamble = "just the preamble"
	})

	assert.Equal(t, "just the preamble", bridge.systemInstruction(nil))
}
