// Package tooldef reconciles the competing tool-definition conventions into
// one canonical shape and re-projects it to provider-specific forms.
//
// Two conventions circulate among callers: the OpenAI function-calling
// wrapper ({"type":"function","function":{...,"parameters":...}}) and the
// Claude native descriptor ({"name":...,"input_schema":...}), plus the common
// shorthand of handing over a bare function descriptor. Normalize accepts all
// of them. Malformed or incomplete definitions are not an error: a missing
// schema defaults to {"type":"object"} and absent name/description fields are
// simply omitted.
package tooldef

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/openai/openai-go"
	"github.com/tidwall/gjson"
)

// Tool is the canonical, provider-agnostic definition of a callable tool. It
// matches the OpenAI function-calling convention, so projecting back to that
// convention is the identity.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function carries the name, description and JSON-schema parameters of a tool.
type Function struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// ClaudeTool is the Claude-native projection of a canonical definition.
type ClaudeTool struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// Normalize maps each raw tool definition onto the canonical form, preserving
// order. Normalizing an already-canonical list is a no-op.
func Normalize(raw []json.RawMessage) []Tool {
	if len(raw) == 0 {
		return nil
	}
	tools := make([]Tool, len(raw))
	for i, r := range raw {
		tools[i] = normalizeOne(r)
	}
	return tools
}

func normalizeOne(raw json.RawMessage) Tool {
	fn := gjson.ParseBytes(raw)

	// A definition carrying input_schema at the top level is the Claude
	// native shape, even when an OpenAI-style wrapper is also present.
	// Otherwise unwrap the nested function object of the wrapper convention;
	// anything else is treated as a bare function descriptor.
	if !fn.Get("input_schema").Exists() &&
		fn.Get("type").String() == "function" && fn.Get("function").Exists() {
		fn = fn.Get("function")
	}

	out := Tool{Type: "function"}
	if name := fn.Get("name"); name.Exists() {
		out.Function.Name = name.String()
	}
	if desc := fn.Get("description"); desc.Exists() {
		out.Function.Description = desc.String()
	}
	out.Function.Parameters = schemaFrom(fn)
	return out
}

// schemaFrom picks the parameter schema: "parameters" wins over
// "input_schema", and the permissive empty object schema is the fallback.
func schemaFrom(fn gjson.Result) map[string]any {
	for _, key := range []string{"parameters", "input_schema"} {
		if v := fn.Get(key); v.IsObject() {
			var schema map[string]any
			if err := json.Unmarshal([]byte(v.Raw), &schema); err == nil {
				return schema
			}
		}
	}
	return map[string]any{"type": "object"}
}

// ToClaude projects canonical definitions onto the Claude-native descriptor
// shape, carrying the parameter schema over losslessly. It returns nil when
// no tools were supplied.
func ToClaude(tools []Tool) []ClaudeTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]ClaudeTool, len(tools))
	for i, t := range tools {
		out[i] = ClaudeTool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			InputSchema: t.Function.Parameters,
		}
	}
	return out
}

// ToOpenAIParams projects canonical definitions into the OpenAI SDK's tool
// parameter type.
func ToOpenAIParams(tools []Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		fn := openai.FunctionDefinitionParam{
			Name:       t.Function.Name,
			Parameters: t.Function.Parameters,
		}
		if t.Function.Description != "" {
			fn.Description = openai.String(t.Function.Description)
		}
		out[i] = openai.ChatCompletionToolParam{
			Type:     "function",
			Function: fn,
		}
	}
	return out
}

// ToClaudeParams projects canonical definitions into the Anthropic SDK's tool
// parameter type for dispatch.
func ToClaudeParams(tools []Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		schema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}
		if props, ok := t.Function.Parameters["properties"]; ok {
			schema.Properties = props
		}
		if req, ok := t.Function.Parameters["required"]; ok {
			schema.Required = stringSlice(req)
		}

		p := anthropic.ToolUnionParamOfTool(schema, t.Function.Name)
		if t.Function.Description != "" && p.OfTool != nil {
			p.OfTool.Description = anthropic.String(t.Function.Description)
		}
		out[i] = p
	}
	return out
}

// stringSlice tolerates both []string and the []any shape produced by JSON
// decoding.
func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, e := range vals {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
