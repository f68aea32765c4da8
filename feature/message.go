package feature

import (
	"encoding/json"
	"time"

	"github.com/hupe1980/agentgraph/core"
)

// MessageKind identifies the lifecycle occurrence a Message describes.
type MessageKind string

const (
	// MessageAgentStarting is emitted before an agent run begins.
	MessageAgentStarting MessageKind = "agent_starting"
	// MessageAgentFinished is emitted after an agent run completes.
	MessageAgentFinished MessageKind = "agent_finished"
	// MessageAgentRunError is emitted when an agent run fails fatally.
	MessageAgentRunError MessageKind = "agent_run_error"
	// MessageAgentBeforeClose is emitted before the agent shuts down.
	MessageAgentBeforeClose MessageKind = "agent_before_close"
	// MessageStrategyStarting is emitted when graph execution begins.
	MessageStrategyStarting MessageKind = "strategy_starting"
	// MessageStrategyFinished is emitted when graph execution completes.
	MessageStrategyFinished MessageKind = "strategy_finished"
	// MessageNodeExecutionStart is emitted before each node execution.
	MessageNodeExecutionStart MessageKind = "node_execution_start"
	// MessageNodeExecutionEnd is emitted after each successful node execution.
	MessageNodeExecutionEnd MessageKind = "node_execution_end"
	// MessageNodeExecutionError is emitted when a node execution fails.
	MessageNodeExecutionError MessageKind = "node_execution_error"
	// MessageBeforeLLMCall is emitted before every model call.
	MessageBeforeLLMCall MessageKind = "before_llm_call"
	// MessageAfterLLMCall is emitted after every model call.
	MessageAfterLLMCall MessageKind = "after_llm_call"
	// MessageToolCall is emitted when a tool invocation starts.
	MessageToolCall MessageKind = "tool_call"
	// MessageToolValidationError is emitted when a tool rejects its arguments.
	MessageToolValidationError MessageKind = "tool_validation_error"
	// MessageToolCallFailure is emitted when a tool body fails.
	MessageToolCallFailure MessageKind = "tool_call_failure"
	// MessageToolCallResult is emitted when a tool invocation succeeds.
	MessageToolCallResult MessageKind = "tool_call_result"
)

// Message is an immutable record of a lifecycle occurrence, created by the
// pipeline and consumed by zero or more message processors. Only the fields
// relevant for the kind are populated; RunID correlates every message to a
// single agent invocation.
type Message struct {
	Kind      MessageKind     `json:"kind"`
	RunID     string          `json:"run_id"`
	Strategy  string          `json:"strategy,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Node      string          `json:"node,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	CallID    string          `json:"call_id,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Input     any             `json:"input,omitempty"`
	Output    any             `json:"output,omitempty"`
	Result    any             `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// NewMessage creates a message of the given kind stamped with the current
// UTC time.
func NewMessage(kind MessageKind, runID string) Message {
	return Message{Kind: kind, RunID: runID, Timestamp: time.Now().UTC()}
}

// NewToolMessage creates a tool lifecycle message carrying the identical
// identifying shape shared by all tool outcomes.
func NewToolMessage(kind MessageKind, runID string, call core.ToolCall) Message {
	m := NewMessage(kind, runID)
	m.Tool = call.Name
	m.CallID = call.ID
	m.Arguments = call.Arguments
	return m
}
