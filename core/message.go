package core

import "encoding/json"

// Role identifies the conversational role of a message.
type Role string

const (
	// RoleSystem marks instructions provided to the model out-of-band.
	RoleSystem Role = "system"
	// RoleUser marks end-user input.
	RoleUser Role = "user"
	// RoleAssistant marks model output (text and/or tool calls).
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool result fed back into the conversation.
	RoleTool Role = "tool"
)

// ToolCall describes a tool invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Message is a single entry of the conversation exchanged with a prompt
// executor. Assistant messages may carry tool calls; tool messages carry the
// result of a previously issued call correlated via ToolCallID.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// HasToolCalls reports whether the message requests at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// NewSystemMessage creates a system message.
func NewSystemMessage(text string) Message { return Message{Role: RoleSystem, Content: text} }

// NewUserMessage creates a user message.
func NewUserMessage(text string) Message { return Message{Role: RoleUser, Content: text} }

// NewAssistantMessage creates a plain assistant text message.
func NewAssistantMessage(text string) Message { return Message{Role: RoleAssistant, Content: text} }

// NewToolCallMessage creates an assistant message carrying tool calls.
func NewToolCallMessage(calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCalls: calls}
}

// NewToolResultMessage creates a tool message feeding a result back to the model.
func NewToolResultMessage(callID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: callID, Content: content}
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	c := m
	if len(m.ToolCalls) > 0 {
		c.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			c.ToolCalls[i] = tc.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the tool call.
func (tc ToolCall) Clone() ToolCall {
	c := tc
	if len(tc.Arguments) > 0 {
		c.Arguments = append(json.RawMessage(nil), tc.Arguments...)
	}
	return c
}

// ToolDescriptor declaratively exposes a callable tool to the model. Schema is
// a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}

// Prompt is the ordered message history handed to a prompt executor.
type Prompt struct {
	Messages []Message `json:"messages"`
}

// NewPrompt creates a prompt seeded with the given messages.
func NewPrompt(msgs ...Message) Prompt { return Prompt{Messages: msgs} }

// Append returns the prompt extended by the given messages. The receiver is
// not mutated.
func (p Prompt) Append(msgs ...Message) Prompt {
	out := make([]Message, 0, len(p.Messages)+len(msgs))
	out = append(out, p.Messages...)
	out = append(out, msgs...)
	return Prompt{Messages: out}
}

// LastMessage returns the most recent message, if any.
func (p Prompt) LastMessage() (Message, bool) {
	if len(p.Messages) == 0 {
		return Message{}, false
	}
	return p.Messages[len(p.Messages)-1], true
}

// Clone returns a deep copy of the prompt.
func (p Prompt) Clone() Prompt {
	out := make([]Message, len(p.Messages))
	for i, m := range p.Messages {
		out[i] = m.Clone()
	}
	return Prompt{Messages: out}
}
