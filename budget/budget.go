// Package budget enforces the input size ceiling applied to every request
// before a provider call is made. The estimate is a deliberate
// character-count heuristic, not an exact tokenizer.
package budget

import (
	"encoding/json"
	"fmt"

	"github.com/claudebridge/claudebridge/chat"
)

const (
	// DefaultLimit is the input token ceiling used when no limit is configured.
	DefaultLimit = 10000

	// CharsPerToken divides the serialized input length to approximate a
	// token count.
	CharsPerToken = 4
)

// ExceededError reports an input estimate strictly over the configured limit.
type ExceededError struct {
	InputTokens int `json:"input_tokens"`
	MaxTokens   int `json:"max_tokens"`
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("input of ~%d tokens exceeds the maximum of %d", e.InputTokens, e.MaxTokens)
}

// Check estimates the input size of an adapted request and fails with an
// *ExceededError when the estimate is strictly greater than limit. An
// estimate equal to the limit passes. A limit <= 0 selects DefaultLimit.
// Identical inputs always produce identical estimates.
func Check(messages []chat.Message, system []chat.Part, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	msgJSON, err := json.Marshal(messages)
	if err != nil {
		return 0, fmt.Errorf("serialize messages: %w", err)
	}
	sysJSON, err := json.Marshal(system)
	if err != nil {
		return 0, fmt.Errorf("serialize system prompts: %w", err)
	}

	estimate := (len(msgJSON) + len(sysJSON)) / CharsPerToken
	if estimate > limit {
		return estimate, &ExceededError{InputTokens: estimate, MaxTokens: limit}
	}
	return estimate, nil
}
