// Package chat defines the provider-neutral conversation data model used by
// the adapter: messages composed of ordered, typed content parts, the
// normalization rules applied before dispatch, and usage accounting shared by
// the streaming and non-streaming paths.
package chat

import "encoding/json"

// Conversation roles recognized by the adapter. Unknown or missing roles are
// treated as RoleUser during normalization.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Part is one typed fragment of a message payload. Text fragments are the
// only kind this adapter inspects; every other variant (images, tool use,
// tool results) is carried through verbatim via the raw bytes captured at
// decode time.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`

	raw json.RawMessage
}

// TextPart builds a plain text content part.
func TextPart(text string) Part {
	return Part{Type: "text", Text: text}
}

// UnmarshalJSON accepts either a bare string (shorthand for a text part) or
// a content block object. Non-text blocks keep their original bytes so they
// survive re-serialization untouched.
func (p *Part) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Part{Type: "text", Text: s}
		return nil
	}

	type alias Part
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Part(a)
	if p.Type != "text" {
		p.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

// MarshalJSON re-emits opaque blocks byte for byte.
func (p Part) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}
	type alias Part
	return json.Marshal(alias(p))
}

// Message is one conversational turn. After decoding, Content is always a
// slice of parts, never a bare value.
type Message struct {
	Role    string `json:"role,omitempty"`
	Content []Part `json:"content"`
}

// UnmarshalJSON tolerates the content shapes callers actually send: a bare
// string, a single content block, or a proper block array.
func (m *Message) UnmarshalJSON(data []byte) error {
	var probe struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	m.Role = probe.Role
	m.Content = nil
	if len(probe.Content) == 0 || string(probe.Content) == "null" {
		return nil
	}
	if probe.Content[0] == '[' {
		return json.Unmarshal(probe.Content, &m.Content)
	}

	var p Part
	if err := json.Unmarshal(probe.Content, &p); err != nil {
		return err
	}
	m.Content = []Part{p}
	return nil
}
