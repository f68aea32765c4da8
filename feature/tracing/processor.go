package tracing

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/agentgraph/feature"
	"github.com/hupe1980/agentgraph/logging"
)

// LoggerProcessor writes every trace message to a structured logger at info
// level. It has no resources to acquire, so it is open from creation until
// Close.
type LoggerProcessor struct {
	logger logging.Logger

	mu   sync.Mutex
	open bool
}

var _ feature.MessageProcessor = (*LoggerProcessor)(nil)

// NewLoggerProcessor creates a processor backed by the given logger.
func NewLoggerProcessor(logger logging.Logger) *LoggerProcessor {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &LoggerProcessor{logger: logger, open: true}
}

// Initialize implements feature.MessageProcessor.
func (p *LoggerProcessor) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	return nil
}

// ProcessMessage logs one trace message.
func (p *LoggerProcessor) ProcessMessage(m feature.Message) error {
	if !p.IsOpen() {
		return fmt.Errorf("logger processor is closed")
	}
	args := []any{"kind", string(m.Kind), "run_id", m.RunID}
	if m.Strategy != "" {
		args = append(args, "strategy", m.Strategy)
	}
	if m.Node != "" {
		args = append(args, "node", m.Node)
	}
	if m.Tool != "" {
		args = append(args, "tool", m.Tool)
	}
	if m.Error != "" {
		args = append(args, "error", m.Error)
	}
	p.logger.Info("trace", args...)
	return nil
}

// Close implements feature.MessageProcessor.
func (p *LoggerProcessor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	return nil
}

// IsOpen implements feature.MessageProcessor.
func (p *LoggerProcessor) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// WriterProcessor serializes trace messages as JSON lines to an io.Writer,
// typically a file. Writes are serialized with a mutex since tool-batch
// hooks fire from parallel goroutines.
type WriterProcessor struct {
	w io.Writer

	mu   sync.Mutex
	open bool
}

var _ feature.MessageProcessor = (*WriterProcessor)(nil)

// NewWriterProcessor creates a processor writing JSON lines to w. The
// processor closes w on Close when it implements io.Closer.
func NewWriterProcessor(w io.Writer) *WriterProcessor {
	return &WriterProcessor{w: w, open: true}
}

// Initialize implements feature.MessageProcessor.
func (p *WriterProcessor) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	return nil
}

// ProcessMessage writes one JSON line.
func (p *WriterProcessor) ProcessMessage(m feature.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return fmt.Errorf("writer processor is closed")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal trace message: %w", err)
	}
	if _, err := p.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write trace message: %w", err)
	}
	return nil
}

// Close implements feature.MessageProcessor.
func (p *WriterProcessor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return nil
	}
	p.open = false
	if c, ok := p.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// IsOpen implements feature.MessageProcessor.
func (p *WriterProcessor) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}
