package core

// SessionContext bundles the model-facing state of a run: the evolving
// prompt, the model identifier, the tool descriptors visible to the strategy
// and the executor that performs the calls.
//
// SessionContext carries no lock of its own: the pointer is part of the
// AgentContext's mutable triple and the owning run (or forked branch)
// mutates it exclusively. See AgentContext for the locking discipline.
type SessionContext struct {
	Model    string
	Prompt   Prompt
	Tools    []ToolDescriptor
	Executor PromptExecutor
}

// NewSessionContext creates a session with an optional system prompt as the
// first message.
func NewSessionContext(model, systemPrompt string, tools []ToolDescriptor, executor PromptExecutor) *SessionContext {
	var p Prompt
	if systemPrompt != "" {
		p = NewPrompt(NewSystemMessage(systemPrompt))
	}
	return &SessionContext{Model: model, Prompt: p, Tools: tools, Executor: executor}
}

// AppendMessage appends a message to the session prompt.
func (s *SessionContext) AppendMessage(m Message) {
	s.Prompt = s.Prompt.Append(m)
}

// LastMessage returns the most recent prompt message, if any.
func (s *SessionContext) LastMessage() (Message, bool) { return s.Prompt.LastMessage() }

// Clone returns a deep copy safe for independent mutation by a forked branch.
// The executor is shared: implementations are required to be stateless with
// respect to individual calls.
func (s *SessionContext) Clone() *SessionContext {
	if s == nil {
		return nil
	}
	tools := make([]ToolDescriptor, len(s.Tools))
	copy(tools, s.Tools)
	return &SessionContext{
		Model:    s.Model,
		Prompt:   s.Prompt.Clone(),
		Tools:    tools,
		Executor: s.Executor,
	}
}
