// Package catalog holds the static model catalog: identifiers, aliases,
// context windows and per-million-token pricing used for cost accounting.
package catalog

import (
	"fmt"

	"github.com/claudebridge/claudebridge/chat"
)

// Pricing is the dollar price per million tokens.
type Pricing struct {
	InputPerMTok  float64 `json:"input_per_mtok"`
	OutputPerMTok float64 `json:"output_per_mtok"`
}

// Descriptor describes one selectable model.
type Descriptor struct {
	ID            string   `json:"id"`
	Aliases       []string `json:"aliases,omitempty"`
	DisplayName   string   `json:"display_name"`
	ContextWindow int      `json:"context_window"`
	Pricing       Pricing  `json:"pricing"`
}

var models = []Descriptor{
	{
		ID:            "claude-sonnet-4-20250514",
		Aliases:       []string{"claude-sonnet-4-0"},
		DisplayName:   "Claude Sonnet 4",
		ContextWindow: 200000,
		Pricing:       Pricing{InputPerMTok: 3, OutputPerMTok: 15},
	},
	{
		ID:            "claude-3-7-sonnet-20250219",
		Aliases:       []string{"claude-3-7-sonnet-latest"},
		DisplayName:   "Claude Sonnet 3.7",
		ContextWindow: 200000,
		Pricing:       Pricing{InputPerMTok: 3, OutputPerMTok: 15},
	},
	{
		ID:            "claude-3-5-haiku-20241022",
		Aliases:       []string{"claude-3-5-haiku-latest"},
		DisplayName:   "Claude Haiku 3.5",
		ContextWindow: 200000,
		Pricing:       Pricing{InputPerMTok: 0.8, OutputPerMTok: 4},
	},
}

// Models returns a copy of the catalog.
func Models() []Descriptor {
	return append([]Descriptor(nil), models...)
}

// Default returns the descriptor used when a request names no model.
func Default() Descriptor {
	return models[len(models)-1]
}

// List flattens catalog entries into model ids plus aliases, in catalog order.
func List() []string {
	var names []string
	for _, m := range models {
		names = append(names, m.ID)
		names = append(names, m.Aliases...)
	}
	return names
}

// Resolve maps a model id or alias to its descriptor.
func Resolve(name string) (Descriptor, bool) {
	for _, m := range models {
		if m.ID == name {
			return m, true
		}
		for _, a := range m.Aliases {
			if a == name {
				return m, true
			}
		}
	}
	return Descriptor{}, false
}

// Cost computes the dollar cost of a completion's usage for the given model
// id or alias.
func Cost(usage chat.Usage, name string) (float64, error) {
	m, ok := Resolve(name)
	if !ok {
		return 0, fmt.Errorf("unknown model %q", name)
	}
	in := float64(usage.InputTokens) / 1e6 * m.Pricing.InputPerMTok
	out := float64(usage.OutputTokens) / 1e6 * m.Pricing.OutputPerMTok
	return in + out, nil
}
