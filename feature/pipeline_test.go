package feature

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
)

// counterConfig / counterFeature is a minimal feature used to exercise the
// install machinery.
type counterConfig struct {
	Label string
	seen  int
}

type counterFeature struct{}

var counterKey = NewKey[counterConfig]("counter")

func (counterFeature) Key() Key[counterConfig] { return counterKey }

func (counterFeature) NewConfig() *counterConfig { return &counterConfig{Label: "default"} }

func (counterFeature) Install(cfg *counterConfig, p *Pipeline) {
	p.InterceptBeforeNode(func(_ context.Context, _ *core.AgentContext, _ string, _ any) {
		cfg.seen++
	})
}

func TestInstall_AppliesConfigureBlocksAndStoresConfig(t *testing.T) {
	p := NewPipeline()

	cfg := Install(p, counterFeature{}, func(c *counterConfig) {
		c.Label = "customized"
	})
	assert.Equal(t, "customized", cfg.Label)

	stored, ok := ConfigFor(p, counterKey)
	require.True(t, ok)
	assert.Same(t, cfg, stored)
}

func TestConfigFor_MissingFeature(t *testing.T) {
	p := NewPipeline()

	_, ok := ConfigFor(p, counterKey)
	assert.False(t, ok)
}

func TestConfigFor_TypeMismatchedKeyIsAMiss(t *testing.T) {
	p := NewPipeline()
	Install(p, counterFeature{})

	// A foreign key with the same name but a different config type must not
	// surface the stored config.
	foreign := NewKey[string]("counter")
	_, ok := ConfigFor(p, foreign)
	assert.False(t, ok)
}

func TestPipeline_HandlersFireInInstallationOrder(t *testing.T) {
	p := NewPipeline()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		p.InterceptToolCall(func(_ context.Context, _ string, _ core.ToolCall) {
			order = append(order, i)
		})
	}

	p.OnToolCall(context.Background(), "run-1", core.ToolCall{Name: "t"})
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestPipeline_InstalledFeatureObservesNodes(t *testing.T) {
	p := NewPipeline()
	cfg := Install(p, counterFeature{})

	p.OnBeforeNode(context.Background(), nil, "a", nil)
	p.OnBeforeNode(context.Background(), nil, "b", nil)

	assert.Equal(t, 2, cfg.seen)
}

func TestPipeline_TransformEnvironmentFoldsInOrder(t *testing.T) {
	p := NewPipeline()

	p.InterceptEnvironment(func(env core.Environment) core.Environment {
		return labelledEnv{inner: env, label: "first"}
	})
	p.InterceptEnvironment(func(env core.Environment) core.Environment {
		return labelledEnv{inner: env, label: "second"}
	})

	base := labelledEnv{label: "base"}
	out := p.TransformEnvironment(base)

	// The last transformer wraps the result of the first.
	wrapped, ok := out.(labelledEnv)
	require.True(t, ok)
	assert.Equal(t, "second", wrapped.label)

	innerWrapped, ok := wrapped.inner.(labelledEnv)
	require.True(t, ok)
	assert.Equal(t, "first", innerWrapped.label)
}

func TestPipeline_CloseJoinsCloserErrors(t *testing.T) {
	p := NewPipeline()

	firstErr := errors.New("first close failed")
	var closed []string
	p.RegisterCloser(func() error {
		closed = append(closed, "first")
		return firstErr
	})
	p.RegisterCloser(func() error {
		closed = append(closed, "second")
		return nil
	})

	err := p.Close()
	require.Error(t, err)
	assert.True(t, errors.Is(err, firstErr))
	// All closers run even when an earlier one fails.
	assert.Equal(t, []string{"first", "second"}, closed)
}

// labelledEnv is a stub environment for transformer tests.
type labelledEnv struct {
	inner core.Environment
	label string
}

func (labelledEnv) ExecuteTool(context.Context, core.ToolCall) (core.ToolResult, error) {
	return core.ToolResult{}, nil
}

func (labelledEnv) ExecuteTools(context.Context, []core.ToolCall) ([]core.ToolResult, error) {
	return nil, nil
}

func (labelledEnv) ReportProblem(context.Context, error) {}
