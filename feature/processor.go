package feature

// MessageProcessor is the contract consumed by tracing/observability
// features: the pipeline side emits messages, processors persist or forward
// them. The core does not depend on any concrete processor.
//
// Lifecycle: Initialize is called once at install time, ProcessMessage for
// every accepted message, Close when the owning agent closes. A processor
// must tolerate ProcessMessage after a failed Initialize by reporting
// IsOpen() == false.
type MessageProcessor interface {
	// Initialize prepares the processor (opens files, connections, buffers).
	Initialize() error

	// ProcessMessage handles one lifecycle message.
	ProcessMessage(msg Message) error

	// Close flushes and releases resources. After Close, IsOpen reports false.
	Close() error

	// IsOpen reports whether the processor accepts messages.
	IsOpen() bool
}
