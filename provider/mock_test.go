package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_RecordsRequests(t *testing.T) {
	mock := &MockProvider{}

	_, err := mock.Complete(context.Background(), Request{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls)
	assert.Equal(t, "m", mock.LastRequest.Model)
}

func TestMockProvider_StreamReplaysEventsAndCloses(t *testing.T) {
	mock := &MockProvider{Events: []Event{
		Event(`{"type":"ping"}`),
		Event(`{"type":"message_stop"}`),
	}}

	out, errCh := mock.Stream(context.Background(), Request{})

	var got []Event
	for ev := range out {
		got = append(got, ev)
	}
	require.Len(t, got, 2)

	err, open := <-errCh
	if open {
		assert.NoError(t, err)
	}
}

func TestMockProvider_Error(t *testing.T) {
	mock := &MockProvider{Err: assert.AnError}

	_, err := mock.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, assert.AnError)

	out, errCh := mock.Stream(context.Background(), Request{})
	for range out {
	}
	assert.ErrorIs(t, <-errCh, assert.AnError)
}
