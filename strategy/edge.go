package strategy

import (
	"fmt"

	"github.com/hupe1980/agentgraph/core"
)

// Condition decides whether an edge accepts the output of its source node.
type Condition func(output any) bool

// Transform converts the output of the source node into the input of the
// target node. A transform error is fatal for the run.
type Transform func(output any) (any, error)

// Edge connects two nodes. A nil condition always matches, a nil transform
// passes the value through unchanged.
type Edge struct {
	From string
	To   string

	condition Condition
	transform Transform
}

// Matches reports whether this edge accepts the given node output.
func (e Edge) Matches(output any) bool {
	if e.condition == nil {
		return true
	}
	return e.condition(output)
}

// Apply runs the edge transform on the node output.
func (e Edge) Apply(output any) (any, error) {
	if e.transform == nil {
		return output, nil
	}
	return e.transform(output)
}

// EdgeOption configures an edge added via Builder.AddEdge.
type EdgeOption func(e *Edge)

// OnCondition guards the edge with an arbitrary predicate.
func OnCondition(cond Condition) EdgeOption {
	return func(e *Edge) {
		e.condition = cond
	}
}

// Transformed attaches a value transform to the edge.
func Transformed(t Transform) EdgeOption {
	return func(e *Edge) {
		e.transform = t
	}
}

// OnAssistantMessage matches a model response that carries no tool calls.
// A nil predicate accepts any such message.
func OnAssistantMessage(pred func(text string) bool) Condition {
	return func(output any) bool {
		msg, ok := output.(core.Message)
		if !ok || msg.Role != core.RoleAssistant || msg.HasToolCalls() {
			return false
		}
		return pred == nil || pred(msg.Content)
	}
}

// OnToolCall matches a model response that requests at least one tool call.
// A nil predicate accepts any tool call.
func OnToolCall(pred func(call core.ToolCall) bool) Condition {
	return func(output any) bool {
		msg, ok := output.(core.Message)
		if !ok || !msg.HasToolCalls() {
			return false
		}
		return pred == nil || pred(msg.ToolCalls[0])
	}
}

// ToText extracts the text content from an assistant message.
func ToText(output any) (any, error) {
	msg, ok := output.(core.Message)
	if !ok {
		return nil, fmt.Errorf("edge transform: expected core.Message, got %T", output)
	}
	return msg.Content, nil
}

// ToFirstToolCall extracts the first tool call from an assistant message.
func ToFirstToolCall(output any) (any, error) {
	msg, ok := output.(core.Message)
	if !ok || !msg.HasToolCalls() {
		return nil, fmt.Errorf("edge transform: no tool call in %T", output)
	}
	return msg.ToolCalls[0], nil
}

// ToToolCalls extracts all tool calls from an assistant message.
func ToToolCalls(output any) (any, error) {
	msg, ok := output.(core.Message)
	if !ok || !msg.HasToolCalls() {
		return nil, fmt.Errorf("edge transform: no tool calls in %T", output)
	}
	return msg.ToolCalls, nil
}
