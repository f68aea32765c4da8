// Package executor provides core.PromptExecutor implementations: a
// deterministic mock for tests plus real model adapters in the anthropic and
// openai subpackages.
package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

type mockRule struct {
	trigger  string
	response core.Message
}

// MockExecutor is a deterministic prompt executor for tests. Responses are
// resolved in two stages: an explicit FIFO script is consumed first, then
// trigger rules are matched against the content of the last prompt message
// in registration order. With neither, Execute fails — a mock that answers
// something unplanned hides test bugs.
type MockExecutor struct {
	mu     sync.Mutex
	script []core.Message
	rules  []mockRule
	calls  int
}

var _ core.PromptExecutor = (*MockExecutor)(nil)

// NewMockExecutor creates an empty mock executor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// Enqueue appends responses to the FIFO script.
func (m *MockExecutor) Enqueue(responses ...core.Message) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
	return m
}

// AddTextResponse answers with plain assistant text whenever the last prompt
// message contains trigger.
func (m *MockExecutor) AddTextResponse(trigger, text string) *MockExecutor {
	return m.addRule(trigger, core.NewAssistantMessage(text))
}

// AddToolCallResponse answers with a single tool call whenever the last
// prompt message contains trigger. args must be a JSON object.
func (m *MockExecutor) AddToolCallResponse(trigger, toolName, args string) *MockExecutor {
	return m.addRule(trigger, core.NewToolCallMessage(core.ToolCall{
		ID:        core.NewID(),
		Name:      toolName,
		Arguments: []byte(args),
	}))
}

func (m *MockExecutor) addRule(trigger string, response core.Message) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{trigger: trigger, response: response})
	return m
}

// CallCount reports how many times Execute has been called.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Execute implements core.PromptExecutor.
func (m *MockExecutor) Execute(_ context.Context, prompt core.Prompt, _ []core.ToolDescriptor) (core.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if len(m.script) > 0 {
		response := m.script[0]
		m.script = m.script[1:]
		return response, nil
	}

	if last, ok := prompt.LastMessage(); ok {
		for _, r := range m.rules {
			if strings.Contains(last.Content, r.trigger) {
				return r.response, nil
			}
		}
	}

	return core.Message{}, fmt.Errorf("mock executor: no canned response for prompt of %d messages", len(prompt.Messages))
}
