package chat

// Usage tracks the token consumption reported by the provider. During a
// streaming session both counters start at zero and are accumulated
// monotonically as events arrive.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates another usage delta into u.
func (u *Usage) Add(delta Usage) {
	u.InputTokens += delta.InputTokens
	u.OutputTokens += delta.OutputTokens
}
