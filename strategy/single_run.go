package strategy

// SingleRun builds the canonical request/act loop: ask the model, execute a
// requested tool, feed the result back, and finish once the model answers
// with plain text. The run input is the user message.
func SingleRun(name string) (*Graph, error) {
	return New(name).
		AddNode(NodeLLMRequest("request_llm")).
		AddNode(NodeExecuteTool("execute_tool")).
		AddNode(NodeSendToolResult("send_tool_result")).
		AddEdge(StartNodeName, "request_llm").
		AddEdge("request_llm", "execute_tool",
			OnCondition(OnToolCall(nil)), Transformed(ToFirstToolCall)).
		AddEdge("request_llm", FinishNodeName,
			OnCondition(OnAssistantMessage(nil)), Transformed(ToText)).
		AddEdge("execute_tool", "send_tool_result").
		AddEdge("send_tool_result", "execute_tool",
			OnCondition(OnToolCall(nil)), Transformed(ToFirstToolCall)).
		AddEdge("send_tool_result", FinishNodeName,
			OnCondition(OnAssistantMessage(nil)), Transformed(ToText)).
		Compile()
}

// ParallelToolsRun is a variant of SingleRun that executes every tool call
// of a model response as one parallel batch.
func ParallelToolsRun(name string) (*Graph, error) {
	return New(name).
		AddNode(NodeLLMRequest("request_llm")).
		AddNode(NodeExecuteMultipleTools("execute_tools")).
		AddNode(NodeSendMultipleToolResults("send_tool_results")).
		AddEdge(StartNodeName, "request_llm").
		AddEdge("request_llm", "execute_tools",
			OnCondition(OnToolCall(nil)), Transformed(ToToolCalls)).
		AddEdge("request_llm", FinishNodeName,
			OnCondition(OnAssistantMessage(nil)), Transformed(ToText)).
		AddEdge("execute_tools", "send_tool_results").
		AddEdge("send_tool_results", "execute_tools",
			OnCondition(OnToolCall(nil)), Transformed(ToToolCalls)).
		AddEdge("send_tool_results", FinishNodeName,
			OnCondition(OnAssistantMessage(nil)), Transformed(ToText)).
		Compile()
}
