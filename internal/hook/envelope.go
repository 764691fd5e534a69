// Package hook implements the fail-safe filter contract shared by every
// nsip hook subcommand: read one JSON envelope from stdin, perform one
// concern, write one JSON envelope to stdout, and exit successfully no
// matter what went wrong internally. Failures become data in the output
// envelope, never a process failure that could abort the host session.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ToolCall identifies the tool invocation a hook is wrapping.
type ToolCall struct {
	// Name is the fully qualified tool name (e.g. mcp__nsip__nsip_get_animal).
	Name string `json:"name"`

	// Parameters is the flat parameter mapping passed to the tool.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Input is the request envelope a hook reads from stdin.
type Input struct {
	Tool ToolCall `json:"tool"`

	// Result is the prior tool result (PostToolUse hooks only).
	Result map[string]any `json:"result,omitempty"`

	// Prompt is the raw user prompt (UserPromptSubmit hooks only).
	Prompt string `json:"prompt,omitempty"`

	// Metadata carries host-provided extras such as call duration.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Output is the response envelope a hook writes to stdout.
type Output struct {
	// Continue tells the host whether to proceed with the tool call.
	// Only the LPN validator ever sets this false.
	Continue bool `json:"continue"`

	// Error describes a validation failure when Continue is false.
	Error string `json:"error,omitempty"`

	// Warning is a non-blocking notice surfaced to the user.
	Warning string `json:"warning,omitempty"`

	// Context is extra context injected into the conversation.
	Context string `json:"context,omitempty"`

	// Metadata is free-form diagnostic output from the hook.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewOutput returns an Output that lets the tool call proceed.
func NewOutput() *Output {
	return &Output{Continue: true, Metadata: make(map[string]any)}
}

// Set records a metadata key on the output.
func (o *Output) Set(key string, value any) *Output {
	if o.Metadata == nil {
		o.Metadata = make(map[string]any)
	}
	o.Metadata[key] = value
	return o
}

// Skip marks the hook as a no-op with the given reason. The convention
// mirrors the metadata the host surfaces when a hook declines to act.
func (o *Output) Skip(key, reason string) *Output {
	o.Set(key, false)
	o.Set("reason", reason)
	return o
}

// ReadInput decodes a request envelope from r. An empty or malformed body
// yields a zero-valued Input and an error; callers run under the fail-safe
// runner, which maps the error into the output envelope.
func ReadInput(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read hook input: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyInput
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse hook input: %w", err)
	}
	return &in, nil
}

// WriteOutput encodes the response envelope to w as a single JSON line.
func WriteOutput(w io.Writer, out *Output) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// ParamString returns the first present parameter among names, stringified.
// Tool parameters arrive as JSON values; numeric IDs are normalized without
// a trailing ".000000".
func (t ToolCall) ParamString(names ...string) (string, bool) {
	for _, name := range names {
		v, ok := t.Parameters[name]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			return s, true
		case float64:
			if s == float64(int64(s)) {
				return fmt.Sprintf("%d", int64(s)), true
			}
			return fmt.Sprintf("%v", s), true
		default:
			return fmt.Sprintf("%v", v), true
		}
	}
	return "", false
}

// IsNSIPTool reports whether the tool belongs to the NSIP server.
func (t ToolCall) IsNSIPTool() bool {
	return strings.HasPrefix(t.Name, "mcp__nsip__")
}

// BaseName strips the MCP server prefix from the tool name.
func (t ToolCall) BaseName() string {
	return strings.TrimPrefix(t.Name, "mcp__nsip__")
}
