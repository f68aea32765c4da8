package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
)

func TestMockExecutor_ScriptIsConsumedFirst(t *testing.T) {
	mock := NewMockExecutor().
		Enqueue(core.NewAssistantMessage("scripted")).
		AddTextResponse("hello", "rule-based")

	prompt := core.NewPrompt(core.NewUserMessage("hello"))

	msg, err := mock.Execute(context.Background(), prompt, nil)
	require.NoError(t, err)
	assert.Equal(t, "scripted", msg.Content)

	// Script exhausted, rules take over.
	msg, err = mock.Execute(context.Background(), prompt, nil)
	require.NoError(t, err)
	assert.Equal(t, "rule-based", msg.Content)

	assert.Equal(t, 2, mock.CallCount())
}

func TestMockExecutor_TriggerMatchesLastMessage(t *testing.T) {
	mock := NewMockExecutor().
		AddTextResponse("weather", "It is sunny.").
		AddToolCallResponse("calculate", "calculator", `{"a":1,"b":2}`)

	msg, err := mock.Execute(context.Background(), core.NewPrompt(core.NewUserMessage("what is the weather?")), nil)
	require.NoError(t, err)
	assert.Equal(t, "It is sunny.", msg.Content)

	msg, err = mock.Execute(context.Background(), core.NewPrompt(core.NewUserMessage("please calculate this")), nil)
	require.NoError(t, err)
	require.True(t, msg.HasToolCalls())
	assert.Equal(t, "calculator", msg.ToolCalls[0].Name)
	assert.NotEmpty(t, msg.ToolCalls[0].ID)
}

func TestMockExecutor_UnplannedPromptFails(t *testing.T) {
	mock := NewMockExecutor().AddTextResponse("known", "answer")

	_, err := mock.Execute(context.Background(), core.NewPrompt(core.NewUserMessage("something else")), nil)
	assert.Error(t, err)
}
